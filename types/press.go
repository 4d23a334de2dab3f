package types

// PressEvent is one classified button interaction. Exactly one event is
// pending at any instant: the input service overwrites, the first consumer
// clears. A press can be lost if a second one lands before the menu task's
// next poll; that window is an accepted trade-off at a 50 ms polling cadence.
type PressEvent uint8

const (
	PressNone PressEvent = iota
	PressB1Short
	PressB1Long
	PressB1Repeat
	PressB2Short
	PressB2Long
	PressB2Repeat
)

func (e PressEvent) String() string {
	switch e {
	case PressNone:
		return "none"
	case PressB1Short:
		return "b1_short"
	case PressB1Long:
		return "b1_long"
	case PressB1Repeat:
		return "b1_repeat"
	case PressB2Short:
		return "b2_short"
	case PressB2Long:
		return "b2_long"
	case PressB2Repeat:
		return "b2_repeat"
	}
	return "?"
}
