package types

// Capacity limits shared by the menu, the evaluators and the EEPROM codec.
const (
	LampCount       = 3
	MaxTriggers     = 10
	MaxDurationSec  = 200 // pump run, seconds
	MaxDurationMin  = 200 // mist/bubbler run, minutes
	MaxTriggerCount = MaxTriggers
)

// LampSchedule is a single daily on/off window. Windows crossing midnight
// (Off before On) are not supported; such a schedule never activates.
type LampSchedule struct {
	On      TimeOfDay `json:"on"`
	Off     TimeOfDay `json:"off"`
	Enabled bool      `json:"enabled"`
}

// PumpSchedule fires the irrigation valve once per day: on the first
// evaluation where the hour is inside [WindowStart.Hour, WindowEnd.Hour]
// and the minute equals WindowStart.Minute, the pump runs for RunSeconds.
type PumpSchedule struct {
	RunSeconds  uint8     `json:"run_seconds"` // 0..200
	WindowStart TimeOfDay `json:"window_start"`
	WindowEnd   TimeOfDay `json:"window_end"`
	Enabled     bool      `json:"enabled"`
}

// MultiEventSchedule drives mist and bubbler: up to MaxTriggers start times,
// each opening a window of RunMinutes. Count never exceeds MaxTriggers;
// appending past capacity is rejected by the store, not clamped silently.
type MultiEventSchedule struct {
	Count      uint8                  `json:"count"` // 0..MaxTriggers
	RunMinutes uint8                  `json:"run_minutes"`
	Triggers   [MaxTriggers]TimeOfDay `json:"triggers"`
	Enabled    bool                   `json:"enabled"`
}

// Configuration aggregates every device schedule. The menu service is the
// only writer; evaluators borrow it read-only. Persisted only on the
// explicit Save menu action.
type Configuration struct {
	Lamps [LampCount]LampSchedule `json:"lamps"`
	Pump  PumpSchedule            `json:"pump"`
	Mist  MultiEventSchedule      `json:"mist"`
	Bubb  MultiEventSchedule      `json:"bubbler"`
}

// DefaultConfiguration seeds a cold start: lamp 0 and the pump get sane
// windows and come up enabled, everything else is off.
func DefaultConfiguration() Configuration {
	var c Configuration
	c.Lamps[0] = LampSchedule{
		On:      TimeOfDay{Hour: 8, Minute: 0},
		Off:     TimeOfDay{Hour: 20, Minute: 0},
		Enabled: true,
	}
	c.Pump = PumpSchedule{
		RunSeconds:  30,
		WindowStart: TimeOfDay{Hour: 9, Minute: 0},
		WindowEnd:   TimeOfDay{Hour: 21, Minute: 0},
		Enabled:     true,
	}
	c.Mist.RunMinutes = 2
	c.Bubb.RunMinutes = 5
	return c
}
