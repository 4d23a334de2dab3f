// Package store owns the device configuration and its EEPROM image. The
// menu service is the only writer (the mutators below are its API);
// activation evaluators borrow the configuration read-only. Nothing here
// locks: the cooperative kernel serializes all access.
package store

import (
	"vivarium-go/errcode"
	"vivarium-go/types"
)

type Store struct {
	cfg types.Configuration
	ee  types.EEPROM
}

// New seeds the defaults; call Load afterwards to pick up a persisted image.
func New(ee types.EEPROM) *Store {
	return &Store{cfg: types.DefaultConfiguration(), ee: ee}
}

// Config is the read-only borrow used by the evaluators and the menu's
// render path.
func (s *Store) Config() *types.Configuration { return &s.cfg }

// -----------------------------------------------------------------------------
// Mutators (menu only)
// -----------------------------------------------------------------------------

func (s *Store) SetLamp(i int, l types.LampSchedule) {
	if i < 0 || i >= types.LampCount {
		return
	}
	s.cfg.Lamps[i] = l
}

func (s *Store) SetPump(p types.PumpSchedule) { s.cfg.Pump = p }

// MultiDevice selects which multi-event schedule a mutator targets.
type MultiDevice uint8

const (
	Mist MultiDevice = iota
	Bubbler
)

func (s *Store) multi(d MultiDevice) *types.MultiEventSchedule {
	if d == Mist {
		return &s.cfg.Mist
	}
	return &s.cfg.Bubb
}

func (s *Store) Multi(d MultiDevice) types.MultiEventSchedule { return *s.multi(d) }

func (s *Store) SetMulti(d MultiDevice, m types.MultiEventSchedule) {
	if m.Count > types.MaxTriggers {
		m.Count = types.MaxTriggers
	}
	*s.multi(d) = m
}

// AppendTrigger adds one trigger time. At capacity it returns StorageFull
// and leaves the schedule untouched; the menu surfaces that as its
// storage-full state.
func (s *Store) AppendTrigger(d MultiDevice, t types.TimeOfDay) error {
	m := s.multi(d)
	if m.Count >= types.MaxTriggers {
		return errcode.StorageFull
	}
	m.Triggers[m.Count] = t
	m.Count++
	return nil
}

func (s *Store) SetTrigger(d MultiDevice, i int, t types.TimeOfDay) {
	m := s.multi(d)
	if i < 0 || i >= int(m.Count) {
		return
	}
	m.Triggers[i] = t
}

// -----------------------------------------------------------------------------
// Persistence
// -----------------------------------------------------------------------------

// Save writes the full configuration image. Called only from the explicit
// Save menu action.
func (s *Store) Save() error {
	img := encode(&s.cfg)
	if err := s.ee.WriteAt(0, img[:]); err != nil {
		return &errcode.E{C: errcode.ShortWrite, Op: "store.save", Err: err}
	}
	return nil
}

// Load replaces the seeded defaults with the persisted image. Boot-time
// only. A missing or foreign marker returns BadMarker and leaves the seeds
// in place; the caller then forces the setup menu. Corrupt records are
// disabled individually, never rejected wholesale.
func (s *Store) Load() error {
	var img [imageSize]byte
	if err := s.ee.ReadAt(0, img[:]); err != nil {
		return &errcode.E{C: errcode.ShortRead, Op: "store.load", Err: err}
	}
	if img[0] != FormatMarker {
		return errcode.BadMarker
	}
	s.cfg = decode(&img)
	return nil
}
