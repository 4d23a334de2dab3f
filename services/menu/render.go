package menu

// draw repaints the two text rows plus the focus underline. All pixel
// concerns stay behind the Display collaborator; the menu only places text
// cells and one rectangle.

const (
	cellW = 6 // character cell width in pixels, matches the platform font
	cellH = 8
)

func (s *Service) draw() {
	if s.cur.menu == MenuOff {
		return
	}
	s.disp.Clear()

	if s.cur.step == stMultiFull {
		s.disp.WriteLine(0, 0, "STORAGE FULL")
		s.disp.WriteLine(0, 1, "ANY KEY: BACK")
		s.disp.Flush()
		return
	}

	t, ok := transitions[s.cur.step]
	if !ok {
		s.disp.Flush()
		return
	}
	title, value := t.render(s)
	s.disp.WriteLine(0, 0, title)
	s.disp.WriteLine(0, 1, value)
	s.underline()
	s.disp.Flush()
}

// underline marks the focused HH or MM component during time edits.
func (s *Service) underline() {
	switch s.cur.step {
	case stLampOn, stLampOff, stPumpStart, stPumpEnd, stMultiTime, stClockTime:
	default:
		return
	}
	x := 0
	if s.cur.te.minuteFocus {
		x = 3 * cellW // past "HH:"
	}
	y := 2*cellH - 1
	s.disp.FillRect(x, y, 2*cellW, 1, true)
}
