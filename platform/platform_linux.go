//go:build linux && arm64 && !(rp2040 || rp2350)

package platform

import (
	"github.com/warthog618/go-gpiocdev"

	"vivarium-go/errcode"
	"vivarium-go/types"
)

// Raspberry-Pi-class deployment: pins go through the GPIO character device.
// The I2C peripherals (RTC, display, EEPROM) are not wired on this target
// yet; the kernel-managed i2c-dev path is a future addition, so they fall
// back to the host fakes.

// Default BCM offsets on gpiochip0.
var linuxPins = struct {
	button1, button2, heldLED, backlight int
	lamps                                [3]int
	pump, mist, bubbler                  int
}{
	button1: 17, button2: 27, heldLED: 22, backlight: 23,
	lamps: [3]int{5, 6, 13},
	pump:  19, mist: 26, bubbler: 12,
}

type cdevPin struct {
	chip   *gpiocdev.Chip
	offset int
	line   *gpiocdev.Line
}

func (p *cdevPin) ConfigureInput() error {
	p.closeLine()
	l, err := p.chip.RequestLine(p.offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		return &errcode.E{C: errcode.UnknownPin, Op: "cdev.input", Err: err}
	}
	p.line = l
	return nil
}

func (p *cdevPin) ConfigureOutput(initial bool) error {
	p.closeLine()
	v := 0
	if initial {
		v = 1
	}
	l, err := p.chip.RequestLine(p.offset, gpiocdev.AsOutput(v))
	if err != nil {
		return &errcode.E{C: errcode.UnknownPin, Op: "cdev.output", Err: err}
	}
	p.line = l
	return nil
}

func (p *cdevPin) Get() bool {
	if p.line == nil {
		return true // unconfigured input floats high
	}
	v, err := p.line.Value()
	if err != nil {
		return true
	}
	return v != 0
}

func (p *cdevPin) Set(level bool) {
	if p.line == nil {
		return
	}
	v := 0
	if level {
		v = 1
	}
	_ = p.line.SetValue(v)
}

func (p *cdevPin) closeLine() {
	if p.line != nil {
		p.line.Close()
		p.line = nil
	}
}

// DefaultSet opens gpiochip0 and binds the board map above.
func DefaultSet() (*Set, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "cdev.chip", Err: err}
	}
	pin := func(offset int) types.Pin { return &cdevPin{chip: chip, offset: offset} }

	s := &Set{
		Button1:   pin(linuxPins.button1),
		Button2:   pin(linuxPins.button2),
		HeldLED:   pin(linuxPins.heldLED),
		Backlight: pin(linuxPins.backlight),
		Pump:      pin(linuxPins.pump),
		Mist:      pin(linuxPins.mist),
		Bubbler:   pin(linuxPins.bubbler),
		RTC:       &FakeRTC{Hr: 12},
		Display:   &RecordingDisplay{},
		EEPROM:    &MemEEPROM{},
	}
	for i := range s.Lamps {
		s.Lamps[i] = pin(linuxPins.lamps[i])
	}
	return s, nil
}
