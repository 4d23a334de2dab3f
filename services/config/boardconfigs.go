package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board ID (same value placed in ctx under CtxBoardKey)
// Val: raw JSON bytes for that board
// -----------------------------------------------------------------------------

const cfgPico = `{
  "cadences": {
      "input_poll_ms": 50,
      "menu_draw_ms": 200,
      "clock_tick_ms": 1000,
      "evaluate_ms": 10000
  },
  "pins": {
      "button1": 14,
      "button2": 15,
      "held_led": 25,
      "backlight": 16,
      "lamps": [10, 11, 12],
      "pump": 13,
      "mist": 18,
      "bubbler": 19
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
}
