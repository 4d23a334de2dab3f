// Package menu is the finite-state machine behind the two-button
// configuration UI. It is the sole consumer of the press slot and the sole
// writer of the configuration store. Navigation is uniform across menus:
// button 2 cycles the current field (repeat fast-forwards), button 1 short
// commits and advances, button 1 long backs out one level.
package menu

import (
	"time"

	"vivarium-go/services/input"
	"vivarium-go/services/store"
	"vivarium-go/types"
	"vivarium-go/x/timex"
)

// DefaultDrawMs is the event-consume/redraw cadence.
const DefaultDrawMs = 200

// MenuID identifies a top-level menu. Off and Setup are navigation states;
// the seven entries below Setup are the menus themselves.
type MenuID uint8

const (
	MenuOff MenuID = iota
	MenuSetup
	MenuLamp
	MenuPump
	MenuMist
	MenuBubbler
	MenuClock
	MenuSave
	MenuExit
)

// setupEntries is the top-level list, in display order.
var setupEntries = [7]MenuID{MenuLamp, MenuPump, MenuMist, MenuBubbler, MenuClock, MenuSave, MenuExit}

var setupLabels = [7]string{"LAMP", "PUMP", "MIST", "BUBBLER", "CLOCK", "SAVE", "EXIT"}

// TimeSetter is the slice of the clock keeper the menu needs.
type TimeSetter interface {
	Now() types.TimeOfDay
	Seconds() uint8
	SetTime(types.TimeOfDay) error
}

// cursor is the transient UI state, reset to top-of-setup whenever an edit
// flow completes or is aborted.
type cursor struct {
	menu    MenuID
	step    step
	entry   int // setup list position
	idx     int // array slot under edit (lamp number, trigger slot)
	val     int // numeric scratch (durations)
	addMode bool
	te      timeEditor

	lamp  types.LampSchedule
	pump  types.PumpSchedule
	multi types.MultiEventSchedule
}

type Service struct {
	slot   *input.Slot
	st     *store.Store
	ck     TimeSetter
	disp   types.Display
	drawMs uint32

	cur   cursor
	dirty bool
}

func New(slot *input.Slot, st *store.Store, ck TimeSetter, disp types.Display, drawMs uint32) *Service {
	if drawMs == 0 {
		drawMs = DefaultDrawMs
	}
	return &Service{slot: slot, st: st, ck: ck, disp: disp, drawMs: drawMs, dirty: true}
}

// ForceSetup drops the UI straight into the setup list; used at boot when no
// valid configuration was found.
func (s *Service) ForceSetup() {
	s.toSetup()
}

// State exposes the current (menu, step) pair for tests and the simulator.
func (s *Service) State() (MenuID, int) { return s.cur.menu, int(s.cur.step) }

type sleeper interface {
	Sleep(d time.Duration) bool
}

func (s *Service) Run(tc sleeper) {
	println("menu: state machine up")
	for {
		if !tc.Sleep(timex.MsToDuration(s.drawMs)) {
			return
		}
		if ev := s.slot.Take(); ev != types.PressNone {
			s.HandleEvent(ev)
		}
		if s.dirty {
			s.draw()
			s.dirty = false
		}
	}
}

// HandleEvent advances the state machine by one classified press.
func (s *Service) HandleEvent(ev types.PressEvent) {
	s.dirty = true

	// Idle screen: any press wakes into setup.
	if s.cur.menu == MenuOff {
		s.toSetup()
		return
	}
	// Storage-full is terminal: any press acknowledges back to setup.
	if s.cur.step == stMultiFull {
		s.toSetup()
		return
	}

	t, ok := transitions[s.cur.step]
	if !ok {
		s.toSetup()
		return
	}
	switch ev {
	case types.PressB1Short:
		t.commit(s)
	case types.PressB1Long:
		t.back(s)
	case types.PressB2Short:
		t.cycle(s, false)
	case types.PressB2Repeat:
		t.cycle(s, true)
	default:
		// B2 long and B1 repeat are unbound.
		s.dirty = false
	}
}

func (s *Service) toSetup() {
	s.cur = cursor{menu: MenuSetup, step: stSetup}
	s.dirty = true
}

func (s *Service) toOff() {
	s.cur = cursor{menu: MenuOff}
	s.disp.Clear()
	s.disp.Flush()
	s.dirty = false
}
