// Package platform maps the hardware collaborator interfaces onto whatever
// the build target provides: fakes on a development host, GPIO character
// devices on linux, machine pins plus I2C peripherals on rp2040/rp2350.
package platform

import "vivarium-go/types"

// Set is everything the firmware needs from the board.
type Set struct {
	Button1   types.Pin
	Button2   types.Pin
	HeldLED   types.Pin
	Backlight types.Pin
	Lamps     [types.LampCount]types.Pin
	Pump      types.Pin
	Mist      types.Pin
	Bubbler   types.Pin

	RTC     types.RTC
	Display types.Display
	EEPROM  types.EEPROM
}

// ConfigureOutputs puts every actuator pin into output mode, low.
func (s *Set) ConfigureOutputs() error {
	outs := []types.Pin{s.HeldLED, s.Backlight, s.Pump, s.Mist, s.Bubbler,
		s.Lamps[0], s.Lamps[1], s.Lamps[2]}
	for _, p := range outs {
		if p == nil {
			continue
		}
		if err := p.ConfigureOutput(false); err != nil {
			return err
		}
	}
	// Buttons idle high (active low).
	if err := s.Button1.ConfigureInput(); err != nil {
		return err
	}
	return s.Button2.ConfigureInput()
}
