package input

import "vivarium-go/types"

// Slot is the single-slot press mailbox. The classifier posts, the first
// consumer takes; a post overwrites whatever is pending. There is
// deliberately no queue and no lock: the cooperative kernel guarantees the
// writer (input task) and reader (menu task) never interleave.
type Slot struct {
	ev types.PressEvent
}

func (s *Slot) Post(e types.PressEvent) { s.ev = e }

// Take returns the pending event and clears the slot.
func (s *Slot) Take() types.PressEvent {
	e := s.ev
	s.ev = types.PressNone
	return e
}

// Peek returns the pending event without clearing it.
func (s *Slot) Peek() types.PressEvent { return s.ev }
