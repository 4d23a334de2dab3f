// Package actuate turns the current time of day into GPIO-level on/off
// decisions for every scheduled peripheral. Each evaluator is a pure
// function of (now, schedule) re-run on a fixed cadence; the only state
// carried across cycles is the pump's daily latch and the last published
// level per device (for change-only telemetry).
package actuate

import (
	"time"

	"vivarium-go/bus"
	"vivarium-go/types"
	"vivarium-go/x/timex"
)

// DefaultEvaluateMs is the evaluation cadence. Coarse on purpose: every
// schedule has minute granularity.
const DefaultEvaluateMs = 10_000

// TimeSource is the slice of the clock keeper the evaluators need.
type TimeSource interface {
	Now() types.TimeOfDay
}

// ConfigSource is the read-only borrow of the configuration store.
type ConfigSource interface {
	Config() *types.Configuration
}

// Pins groups every output the evaluators drive.
type Pins struct {
	Lamps     [types.LampCount]types.Pin
	Backlight types.Pin
	Pump      types.Pin
	Mist      types.Pin
	Bubbler   types.Pin
}

type Service struct {
	ts   TimeSource
	cfg  ConfigSource
	pins Pins
	conn *bus.Connection
	evMs uint32

	pumpFired bool // daily latch
	lampOn    [types.LampCount]bool
	mistOn    bool
	bubbOn    bool
}

func New(ts TimeSource, cfg ConfigSource, pins Pins, conn *bus.Connection, evMs uint32) *Service {
	if evMs == 0 {
		evMs = DefaultEvaluateMs
	}
	return &Service{ts: ts, cfg: cfg, pins: pins, conn: conn, evMs: evMs}
}

// Sleeper is the kernel task-context slice the evaluator loop needs. The
// pump's run burst blocks on it for the whole duration, monopolizing the
// scheduler; nothing else has sub-second requirements during irrigation.
type Sleeper interface {
	Sleep(d time.Duration) bool
}

func (s *Service) Run(tc Sleeper) {
	println("actuate: evaluators up")
	for {
		if !tc.Sleep(timex.MsToDuration(s.evMs)) {
			return
		}
		s.Evaluate(tc)
	}
}

// Evaluate runs one full cycle over every device.
func (s *Service) Evaluate(tc Sleeper) {
	now := s.ts.Now()
	cfg := s.cfg.Config()

	s.evalLamps(now, cfg)
	s.evalPump(tc, now, cfg)
	s.evalMulti(now, &cfg.Mist, s.pins.Mist, &s.mistOn, "mist")
	s.evalMulti(now, &cfg.Bubb, s.pins.Bubbler, &s.bubbOn, "bubbler")
}

func (s *Service) evalLamps(now types.TimeOfDay, cfg *types.Configuration) {
	any := false
	for i := range cfg.Lamps {
		on := lampActive(now, cfg.Lamps[i])
		s.pins.Lamps[i].Set(on)
		if on != s.lampOn[i] {
			s.lampOn[i] = on
			s.publish("lamp", i, on)
		}
		any = any || on
	}
	// Any lit lamp keeps the display backlight up.
	if s.pins.Backlight != nil {
		s.pins.Backlight.Set(any)
	}
}

// evalPump fires the irrigation valve at most once per window minute: inside
// the hour window, at the exact start minute, with the latch clear, it holds
// the pin active for the whole run duration (a blocking cooperative sleep)
// and then sets the latch. The latch clears once the minute has advanced at
// least RunSeconds/60 minutes past the start minute.
func (s *Service) evalPump(tc Sleeper, now types.TimeOfDay, cfg *types.Configuration) {
	p := cfg.Pump

	if s.pumpFired {
		adv := int(now.Minute) - int(p.WindowStart.Minute)
		if adv < 0 {
			adv += 60
		}
		if adv > 0 && adv >= int(p.RunSeconds)/60 {
			s.pumpFired = false
		}
	}

	if !p.Enabled || p.RunSeconds == 0 {
		s.pins.Pump.Set(false)
		return
	}
	inWindow := now.Hour >= p.WindowStart.Hour && now.Hour <= p.WindowEnd.Hour
	if !inWindow || now.Minute != p.WindowStart.Minute || s.pumpFired {
		return
	}

	s.pins.Pump.Set(true)
	s.publish("pump", -1, true)
	tc.Sleep(time.Duration(p.RunSeconds) * time.Second)
	s.pins.Pump.Set(false)
	s.publish("pump", -1, false)
	s.pumpFired = true
}

// evalMulti is the mist/bubbler evaluator. The pin level is recomputed from
// scratch every cycle: active whenever now falls inside any trigger's
// [start, start+RunMinutes) window, wrapping across midnight. Deriving the
// level from the window rather than from on/off edges means a cycle skipped
// over a boundary (the pump run can block the scheduler across a minute)
// cannot strand the pin, and a zero duration is simply an empty window.
func (s *Service) evalMulti(now types.TimeOfDay, m *types.MultiEventSchedule, pin types.Pin, level *bool, name string) {
	want := false
	if m.Enabled {
		for i := 0; i < int(m.Count); i++ {
			if inRunWindow(now, m.Triggers[i], int(m.RunMinutes)) {
				want = true
			}
		}
	}
	if want != *level {
		*level = want
		s.publish(name, -1, want)
	}
	pin.Set(want)
}

// inRunWindow reports whether now is within runMinutes after start, treating
// the day as a 24 h ring.
func inRunWindow(now, start types.TimeOfDay, runMinutes int) bool {
	elapsed := (int(now.Hour)-int(start.Hour))*60 + int(now.Minute) - int(start.Minute)
	if elapsed < 0 {
		elapsed += 24 * 60
	}
	return elapsed < runMinutes
}

func (s *Service) publish(dev string, idx int, active bool) {
	if s.conn == nil {
		return
	}
	name := dev
	if idx >= 0 {
		name = dev + string(rune('0'+idx))
	}
	s.conn.Publish(s.conn.NewMessage(bus.T("actuate", name, "state"),
		types.DeviceState{Device: name, Active: active}, true))
}
