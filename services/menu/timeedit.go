package menu

import (
	"vivarium-go/types"
	"vivarium-go/x/fmtx"
	"vivarium-go/x/mathx"
)

// timeEditor is the shared HH:MM edit subflow used by every menu that needs
// a time value. Hour is edited first, then minute; components wrap
// independently (minute 59 cycles to 0 without bumping the hour, which is
// what a user stepping through values expects).
type timeEditor struct {
	t           types.TimeOfDay
	minuteFocus bool
}

func newTimeEditor(t types.TimeOfDay) timeEditor {
	return timeEditor{t: t}
}

// Fast-forward steps for repeat presses.
const (
	hourBigStep   = 4
	minuteBigStep = 10
)

func (e *timeEditor) cycle(big bool) {
	if e.minuteFocus {
		step := 1
		if big {
			step = minuteBigStep
		}
		e.t.Minute = uint8(mathx.WrapInt(int(e.t.Minute)+step, 60))
		return
	}
	step := 1
	if big {
		step = hourBigStep
	}
	e.t.Hour = uint8(mathx.WrapInt(int(e.t.Hour)+step, 24))
}

// commitStep advances hour -> minute -> done. Returns true when the value is
// complete.
func (e *timeEditor) commitStep() bool {
	if !e.minuteFocus {
		e.minuteFocus = true
		return false
	}
	return true
}

// backStep demotes minute -> hour; returns true when already on the hour,
// i.e. the caller should pop out of the time edit entirely.
func (e *timeEditor) backStep() bool {
	if e.minuteFocus {
		e.minuteFocus = false
		return false
	}
	return true
}

// render always zero-pads both components.
func (e *timeEditor) render() string {
	return fmtx.Sprintf("%02d:%02d", e.t.Hour, e.t.Minute)
}
