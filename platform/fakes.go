package platform

import (
	"strings"
	"sync"

	"vivarium-go/errcode"
)

// Host-side fakes. Untagged on purpose: every build can construct them, and
// the test suites of all services run against them.

// FakePin is a GPIO line backed by a bool. Buttons are active-low, so a fake
// button should start at Level=true (released).
type FakePin struct {
	mu    sync.Mutex
	Level bool
	out   bool
}

func NewFakeButton() *FakePin { return &FakePin{Level: true} }

func (p *FakePin) ConfigureInput() error { return nil }

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.out = true
	p.Level = initial
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Level
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	p.Level = level
	p.mu.Unlock()
}

// Press drives the line low (button down); Release lets it float high.
func (p *FakePin) Press()   { p.Set(false) }
func (p *FakePin) Release() { p.Set(true) }

// FakeRTC is a settable time source.
type FakeRTC struct {
	Hr, Min, Sec uint8
	Stopped      bool
	SetCalls     int
}

func (r *FakeRTC) Running() bool  { return !r.Stopped }
func (r *FakeRTC) Hours() uint8   { return r.Hr }
func (r *FakeRTC) Minutes() uint8 { return r.Min }
func (r *FakeRTC) Seconds() uint8 { return r.Sec }

func (r *FakeRTC) SetTime(h, m, s uint8) error {
	r.Hr, r.Min, r.Sec = h, m, s
	r.SetCalls++
	return nil
}

// MemEEPROM is byte storage in RAM, sized like the AT24C32 page we use.
type MemEEPROM struct {
	Data   [256]byte
	Writes int
}

func (e *MemEEPROM) ReadAt(addr uint16, p []byte) error {
	if int(addr)+len(p) > len(e.Data) {
		return errcode.ShortRead
	}
	copy(p, e.Data[addr:])
	return nil
}

func (e *MemEEPROM) WriteAt(addr uint16, p []byte) error {
	if int(addr)+len(p) > len(e.Data) {
		return errcode.ShortWrite
	}
	copy(e.Data[addr:], p)
	e.Writes++
	return nil
}

// RecordingDisplay captures text cells so tests can assert on rendered rows.
type RecordingDisplay struct {
	Rows    [4][21]byte
	Flushes int
	Rects   int
}

func (d *RecordingDisplay) Clear() {
	for r := range d.Rows {
		for c := range d.Rows[r] {
			d.Rows[r][c] = ' '
		}
	}
}

func (d *RecordingDisplay) WriteLine(col, row int, s string) {
	if row < 0 || row >= len(d.Rows) {
		return
	}
	for i := 0; i < len(s) && col+i < len(d.Rows[row]); i++ {
		d.Rows[row][col+i] = s[i]
	}
}

func (d *RecordingDisplay) FillRect(x, y, w, h int, on bool) { d.Rects++ }

func (d *RecordingDisplay) Flush() { d.Flushes++ }

// Row returns one rendered row, trimmed.
func (d *RecordingDisplay) Row(r int) string {
	return strings.TrimRight(string(d.Rows[r][:]), " \x00")
}

// NewHostSet wires a complete fake board. Exported for tests and the
// simulator.
func NewHostSet() *Set {
	s := &Set{
		Button1:   NewFakeButton(),
		Button2:   NewFakeButton(),
		HeldLED:   &FakePin{},
		Backlight: &FakePin{},
		Pump:      &FakePin{},
		Mist:      &FakePin{},
		Bubbler:   &FakePin{},
		RTC:       &FakeRTC{Hr: 12},
		Display:   &RecordingDisplay{},
		EEPROM:    &MemEEPROM{},
	}
	for i := range s.Lamps {
		s.Lamps[i] = &FakePin{}
	}
	return s
}
