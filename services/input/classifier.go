// Package input polls the two front-panel buttons and classifies raw levels
// into short/long/repeat press events delivered through a single-slot
// mailbox.
package input

import (
	"time"

	"vivarium-go/bus"
	"vivarium-go/types"
	"vivarium-go/x/timex"
)

// Classification thresholds in poll ticks (~50 ms each).
const (
	DefaultPollMs = 50

	longTicks   = 8  // held this long promotes short -> long
	repeatTicks = 20 // held this long emits the long event and starts repeating
	repeatEvery = 5  // while repeating, one repeat event per this many ticks
)

type mode uint8

const (
	modeIdle mode = iota
	modeShort
	modeLong
	modeRepeating
)

// buttonState is transient classifier state, never persisted.
type buttonState struct {
	down  bool
	mode  mode
	ticks uint8
}

type Service struct {
	pins      [2]types.Pin // active-low: Get()==false while pressed
	indicator types.Pin    // mirrors "held past the long threshold"
	slot      *Slot
	conn      *bus.Connection
	pollMs    uint32

	btn [2]buttonState
}

func New(b1, b2, indicator types.Pin, slot *Slot, conn *bus.Connection, pollMs uint32) *Service {
	if pollMs == 0 {
		pollMs = DefaultPollMs
	}
	return &Service{
		pins:      [2]types.Pin{b1, b2},
		indicator: indicator,
		slot:      slot,
		conn:      conn,
		pollMs:    pollMs,
	}
}

// Sleeper is the slice of the kernel task context the poll loop needs.
type Sleeper interface {
	Sleep(d time.Duration) bool
}

// Run is the task body: one Poll per cadence, forever.
func (s *Service) Run(tc Sleeper) {
	println("input: classifier up")
	for {
		if !tc.Sleep(timex.MsToDuration(s.pollMs)) {
			return
		}
		s.Poll()
	}
}

// Poll samples both buttons once and advances classification. Exposed so
// tests can drive tick-exact scenarios without the scheduler.
func (s *Service) Poll() {
	held := false
	for i := range s.pins {
		pressed := !s.pins[i].Get() // active low
		s.step(i, pressed)
		if s.btn[i].down && s.btn[i].mode != modeShort {
			held = true
		}
	}
	if s.indicator != nil {
		s.indicator.Set(held)
	}
}

// step advances one button by one poll tick. A stuck-low pin never releases
// and therefore classifies as a perpetual repeat stream, which is the wanted
// behavior for a jammed button.
func (s *Service) step(i int, pressed bool) {
	b := &s.btn[i]
	if pressed {
		if !b.down {
			b.down = true
			b.mode = modeShort
			b.ticks = 1 // ticks counts polls spent held
			return
		}
		b.ticks++
		switch b.mode {
		case modeShort:
			if b.ticks >= longTicks {
				b.mode = modeLong
			}
		case modeLong:
			if b.ticks >= repeatTicks {
				// The long event fires here; release will add nothing.
				s.emit(i, modeLong)
				b.mode = modeRepeating
				b.ticks = 0
			}
		case modeRepeating:
			if b.ticks >= repeatEvery {
				s.emit(i, modeRepeating)
				b.ticks = 0
			}
		}
		return
	}
	if !b.down {
		return
	}
	// Release.
	switch b.mode {
	case modeShort:
		s.emit(i, modeShort)
	case modeLong:
		s.emit(i, modeLong)
	case modeRepeating:
		// The last repeat event stands.
	}
	b.down = false
	b.mode = modeIdle
	b.ticks = 0
}

// emit overwrites the slot with the classified event and mirrors it on the
// telemetry bus.
func (s *Service) emit(i int, m mode) {
	var ev types.PressEvent
	switch {
	case i == 0 && m == modeShort:
		ev = types.PressB1Short
	case i == 0 && m == modeLong:
		ev = types.PressB1Long
	case i == 0 && m == modeRepeating:
		ev = types.PressB1Repeat
	case i == 1 && m == modeShort:
		ev = types.PressB2Short
	case i == 1 && m == modeLong:
		ev = types.PressB2Long
	case i == 1 && m == modeRepeating:
		ev = types.PressB2Repeat
	default:
		return
	}
	s.slot.Post(ev)
	if s.conn != nil {
		s.conn.Publish(s.conn.NewMessage(bus.T("input", "press"), types.PressPayload{Event: ev}, false))
	}
}
