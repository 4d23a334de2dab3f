package types

// BoardConfig is the embedded per-board wiring map published by the config
// service. Pin numbers are in the platform's native numbering (machine pin
// on rp2, cdev offset on linux, fake index on host).
type BoardConfig struct {
	Pins     PinMap     `json:"pins"`
	Cadences CadenceMap `json:"cadences"`
}

type PinMap struct {
	Button1   int    `json:"button1"`
	Button2   int    `json:"button2"`
	HeldLED   int    `json:"held_led"`
	Backlight int    `json:"backlight"`
	Lamps     [3]int `json:"lamps"`
	Pump      int    `json:"pump"`
	Mist      int    `json:"mist"`
	Bubbler   int    `json:"bubbler"`
}

// CadenceMap carries the task periods in milliseconds. Zero means the
// service default.
type CadenceMap struct {
	InputPollMs uint32 `json:"input_poll_ms"`
	MenuDrawMs  uint32 `json:"menu_draw_ms"`
	ClockTickMs uint32 `json:"clock_tick_ms"`
	EvaluateMs  uint32 `json:"evaluate_ms"`
}
