package menu

import (
	"vivarium-go/services/store"
	"vivarium-go/types"
	"vivarium-go/x/fmtx"
	"vivarium-go/x/mathx"
)

// step is a named sub-state. Every menu's wizard is an explicit entry in the
// transition table below; there is no positional arithmetic between steps.
type step uint8

const (
	stSetup step = iota

	stLampPick
	stLampEnable
	stLampOn
	stLampOff

	stPumpEnable
	stPumpDur
	stPumpStart
	stPumpEnd

	stMultiMode
	stMultiSlot
	stMultiDur
	stMultiEnable
	stMultiTime
	stMultiFull

	stClockTime
)

// transition binds the three button actions plus rendering for one step.
type transition struct {
	commit func(s *Service)           // B1 short: commit field, advance
	back   func(s *Service)           // B1 long: demote/pop/exit
	cycle  func(s *Service, big bool) // B2 short/repeat: change value
	render func(s *Service) (title, value string)
}

var transitions map[step]transition

func init() {
	transitions = map[step]transition{
		stSetup: {commit: setupCommit, back: setupBack, cycle: setupCycle, render: setupRender},

		stLampPick:   {commit: lampPickCommit, back: exitToSetup, cycle: lampPickCycle, render: lampPickRender},
		stLampEnable: {commit: lampEnableCommit, back: popTo(stLampPick), cycle: lampEnableCycle, render: lampEnableRender},
		stLampOn:     {commit: lampOnCommit, back: timeBackTo(stLampEnable), cycle: timeCycle, render: timeRender("LAMP ON")},
		stLampOff:    {commit: lampOffCommit, back: timeBackTo(stLampOn), cycle: timeCycle, render: timeRender("LAMP OFF")},

		stPumpEnable: {commit: pumpEnableCommit, back: exitToSetup, cycle: pumpEnableCycle, render: pumpEnableRender},
		stPumpDur:    {commit: pumpDurCommit, back: popTo(stPumpEnable), cycle: durCycle, render: durRender("PUMP SEC")},
		stPumpStart:  {commit: pumpStartCommit, back: timeBackTo(stPumpDur), cycle: timeCycle, render: timeRender("WIN START")},
		stPumpEnd:    {commit: pumpEndCommit, back: timeBackTo(stPumpStart), cycle: timeCycle, render: timeRender("WIN END")},

		stMultiMode:   {commit: multiModeCommit, back: exitToSetup, cycle: multiModeCycle, render: multiModeRender},
		stMultiSlot:   {commit: multiSlotCommit, back: popTo(stMultiMode), cycle: multiSlotCycle, render: multiSlotRender},
		stMultiDur:    {commit: multiDurCommit, back: popTo(stMultiSlot), cycle: durCycle, render: durRender("RUN MIN")},
		stMultiEnable: {commit: multiEnableCommit, back: popTo(stMultiDur), cycle: multiEnableCycle, render: multiEnableRender},
		stMultiTime:   {commit: multiTimeCommit, back: timeBackTo(stMultiEnable), cycle: timeCycle, render: timeRender("TRIGGER")},
		// stMultiFull is terminal and handled directly in HandleEvent.

		stClockTime: {commit: clockCommit, back: timeBackTo(stSetup), cycle: timeCycle, render: clockRender},
	}
}

// -----------------------------------------------------------------------------
// Shared handlers
// -----------------------------------------------------------------------------

func exitToSetup(s *Service) { s.toSetup() }

// popTo returns a back handler that drops to an earlier step, keeping the
// scratch schedule (only the final commit writes the store).
func popTo(prev step) func(*Service) {
	return func(s *Service) { s.cur.step = prev }
}

// timeBackTo demotes minute focus to hour first; only from the hour does a
// long press pop the step.
func timeBackTo(prev step) func(*Service) {
	return func(s *Service) {
		if s.cur.te.backStep() {
			if prev == stSetup {
				s.toSetup()
				return
			}
			s.cur.step = prev
		}
	}
}

func timeCycle(s *Service, big bool) { s.cur.te.cycle(big) }

func timeRender(title string) func(*Service) (string, string) {
	return func(s *Service) (string, string) { return title, s.cur.te.render() }
}

// durCycle steps 0..MaxDuration inclusive, wrapping back to 0.
func durCycle(s *Service, big bool) {
	stepBy := 1
	if big {
		stepBy = 10
	}
	s.cur.val = mathx.WrapInt(s.cur.val+stepBy, types.MaxDurationSec+1)
}

func durRender(title string) func(*Service) (string, string) {
	return func(s *Service) (string, string) {
		return title, fmtx.Sprintf("%3d", s.cur.val)
	}
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

// -----------------------------------------------------------------------------
// Setup list
// -----------------------------------------------------------------------------

func setupCycle(s *Service, _ bool) { s.cur.entry = (s.cur.entry + 1) % len(setupEntries) }

func setupBack(s *Service) { s.toOff() }

func setupRender(s *Service) (string, string) {
	return "SETUP", setupLabels[s.cur.entry]
}

func setupCommit(s *Service) {
	cfg := s.st.Config()
	switch setupEntries[s.cur.entry] {
	case MenuLamp:
		s.cur.menu = MenuLamp
		s.cur.step = stLampPick
		s.cur.idx = 0
	case MenuPump:
		s.cur.menu = MenuPump
		s.cur.step = stPumpEnable
		s.cur.pump = cfg.Pump
	case MenuMist:
		s.cur.menu = MenuMist
		s.cur.step = stMultiMode
		s.cur.multi = cfg.Mist
	case MenuBubbler:
		s.cur.menu = MenuBubbler
		s.cur.step = stMultiMode
		s.cur.multi = cfg.Bubb
	case MenuClock:
		s.cur.menu = MenuClock
		s.cur.step = stClockTime
		s.cur.te = newTimeEditor(s.ck.Now())
	case MenuSave:
		if err := s.st.Save(); err != nil {
			println("menu: save failed:", err.Error())
		}
		s.toSetup()
	case MenuExit:
		s.toOff()
	}
}

// -----------------------------------------------------------------------------
// Lamp wizard
// -----------------------------------------------------------------------------

func lampPickCycle(s *Service, _ bool) { s.cur.idx = (s.cur.idx + 1) % types.LampCount }

func lampPickRender(s *Service) (string, string) {
	return "LAMP", fmtx.Sprintf("LAMP %d", s.cur.idx+1)
}

func lampPickCommit(s *Service) {
	s.cur.lamp = s.st.Config().Lamps[s.cur.idx]
	s.cur.step = stLampEnable
}

func lampEnableCycle(s *Service, _ bool) { s.cur.lamp.Enabled = !s.cur.lamp.Enabled }

func lampEnableRender(s *Service) (string, string) {
	return fmtx.Sprintf("LAMP %d", s.cur.idx+1), onOff(s.cur.lamp.Enabled)
}

func lampEnableCommit(s *Service) {
	s.cur.te = newTimeEditor(s.cur.lamp.On)
	s.cur.step = stLampOn
}

func lampOnCommit(s *Service) {
	if !s.cur.te.commitStep() {
		return // hour committed, minute next
	}
	s.cur.lamp.On = s.cur.te.t
	s.cur.te = newTimeEditor(s.cur.lamp.Off)
	s.cur.step = stLampOff
}

func lampOffCommit(s *Service) {
	if !s.cur.te.commitStep() {
		return
	}
	s.cur.lamp.Off = s.cur.te.t
	s.st.SetLamp(s.cur.idx, s.cur.lamp)
	s.toSetup()
}

// -----------------------------------------------------------------------------
// Pump wizard
// -----------------------------------------------------------------------------

func pumpEnableCycle(s *Service, _ bool) { s.cur.pump.Enabled = !s.cur.pump.Enabled }

func pumpEnableRender(s *Service) (string, string) {
	return "PUMP", onOff(s.cur.pump.Enabled)
}

func pumpEnableCommit(s *Service) {
	// A disabled-but-preserved record can carry an out-of-range duration;
	// clamp when seeding the editor so cycling behaves.
	s.cur.val = mathx.ClampInt(int(s.cur.pump.RunSeconds), 0, types.MaxDurationSec)
	s.cur.step = stPumpDur
}

func pumpDurCommit(s *Service) {
	s.cur.pump.RunSeconds = uint8(s.cur.val)
	s.cur.te = newTimeEditor(s.cur.pump.WindowStart)
	s.cur.step = stPumpStart
}

func pumpStartCommit(s *Service) {
	if !s.cur.te.commitStep() {
		return
	}
	s.cur.pump.WindowStart = s.cur.te.t
	s.cur.te = newTimeEditor(s.cur.pump.WindowEnd)
	s.cur.step = stPumpEnd
}

func pumpEndCommit(s *Service) {
	if !s.cur.te.commitStep() {
		return
	}
	s.cur.pump.WindowEnd = s.cur.te.t
	s.st.SetPump(s.cur.pump)
	s.toSetup()
}

// -----------------------------------------------------------------------------
// Mist / bubbler wizard
// -----------------------------------------------------------------------------

func (s *Service) multiDev() store.MultiDevice {
	if s.cur.menu == MenuMist {
		return store.Mist
	}
	return store.Bubbler
}

func multiModeCycle(s *Service, _ bool) { s.cur.addMode = !s.cur.addMode }

func multiModeRender(s *Service) (string, string) {
	title := "MIST"
	if s.cur.menu == MenuBubbler {
		title = "BUBBLER"
	}
	if s.cur.addMode {
		return title, "ADD"
	}
	return title, "EDIT"
}

func multiModeCommit(s *Service) {
	m := s.cur.multi
	if !s.cur.addMode && m.Count == 0 {
		// Nothing to edit yet; fall through to adding.
		s.cur.addMode = true
	}
	if s.cur.addMode && m.Count >= types.MaxTriggers {
		s.cur.step = stMultiFull
		return
	}
	if s.cur.addMode {
		s.cur.idx = int(m.Count)
	} else {
		s.cur.idx = 0
	}
	s.cur.step = stMultiSlot
}

func multiSlotCycle(s *Service, _ bool) {
	if s.cur.addMode || s.cur.multi.Count == 0 {
		return // appending always targets the next free slot
	}
	s.cur.idx = (s.cur.idx + 1) % int(s.cur.multi.Count)
}

func multiSlotRender(s *Service) (string, string) {
	if s.cur.addMode {
		return "SLOT", fmtx.Sprintf("NEW %d", s.cur.idx+1)
	}
	return "SLOT", fmtx.Sprintf("%d/%d", s.cur.idx+1, s.cur.multi.Count)
}

func multiSlotCommit(s *Service) {
	s.cur.val = mathx.ClampInt(int(s.cur.multi.RunMinutes), 0, types.MaxDurationMin)
	s.cur.step = stMultiDur
}

func multiDurCommit(s *Service) {
	s.cur.multi.RunMinutes = uint8(s.cur.val)
	s.cur.step = stMultiEnable
}

func multiEnableCycle(s *Service, _ bool) { s.cur.multi.Enabled = !s.cur.multi.Enabled }

func multiEnableRender(s *Service) (string, string) {
	return "ACTIVE", onOff(s.cur.multi.Enabled)
}

func multiEnableCommit(s *Service) {
	var t types.TimeOfDay
	if !s.cur.addMode && s.cur.idx < int(s.cur.multi.Count) {
		t = s.cur.multi.Triggers[s.cur.idx]
	}
	s.cur.te = newTimeEditor(t)
	s.cur.step = stMultiTime
}

func multiTimeCommit(s *Service) {
	if !s.cur.te.commitStep() {
		return
	}
	dev := s.multiDev()
	if s.cur.addMode {
		// Write the scalar fields first, then append through the store so
		// the capacity check lives in one place.
		m := s.cur.multi
		s.st.SetMulti(dev, m)
		if err := s.st.AppendTrigger(dev, s.cur.te.t); err != nil {
			s.cur.step = stMultiFull
			return
		}
	} else {
		s.cur.multi.Triggers[s.cur.idx] = s.cur.te.t
		s.st.SetMulti(dev, s.cur.multi)
	}
	s.toSetup()
}

// -----------------------------------------------------------------------------
// Clock menu
// -----------------------------------------------------------------------------

func clockRender(s *Service) (string, string) {
	return fmtx.Sprintf("CLOCK :%02d", s.ck.Seconds()), s.cur.te.render()
}

func clockCommit(s *Service) {
	if !s.cur.te.commitStep() {
		return
	}
	if err := s.ck.SetTime(s.cur.te.t); err != nil {
		println("menu: rtc write failed:", err.Error())
	}
	s.toSetup()
}
