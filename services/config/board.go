package config

import (
	"errors"

	"vivarium-go/types"

	"github.com/andreyvit/tinyjson"
)

// Board resolves one board's embedded JSON into the typed wiring map. The
// bus copy stays generic; this is the accessor main uses to pick cadences.
func Board(board string) (types.BoardConfig, error) {
	var bc types.BoardConfig

	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return bc, errors.New("no embedded config for board: " + board)
	}

	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return bc, errors.New("embedded config is not a JSON object")
	}

	if c, ok := m["cadences"].(map[string]any); ok {
		bc.Cadences.InputPollMs = uint32(num(c["input_poll_ms"]))
		bc.Cadences.MenuDrawMs = uint32(num(c["menu_draw_ms"]))
		bc.Cadences.ClockTickMs = uint32(num(c["clock_tick_ms"]))
		bc.Cadences.EvaluateMs = uint32(num(c["evaluate_ms"]))
	}
	if p, ok := m["pins"].(map[string]any); ok {
		bc.Pins.Button1 = num(p["button1"])
		bc.Pins.Button2 = num(p["button2"])
		bc.Pins.HeldLED = num(p["held_led"])
		bc.Pins.Backlight = num(p["backlight"])
		bc.Pins.Pump = num(p["pump"])
		bc.Pins.Mist = num(p["mist"])
		bc.Pins.Bubbler = num(p["bubbler"])
		if lamps, ok := p["lamps"].([]any); ok {
			for i := 0; i < len(lamps) && i < len(bc.Pins.Lamps); i++ {
				bc.Pins.Lamps[i] = num(lamps[i])
			}
		}
	}
	return bc, nil
}

// num tolerates whichever numeric type the parser produced.
func num(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	}
	return 0
}
