package actuate

import (
	"testing"
	"time"

	"vivarium-go/platform"
	"vivarium-go/services/store"
	"vivarium-go/types"
)

func at(h, m uint8) types.TimeOfDay { return types.TimeOfDay{Hour: h, Minute: m} }

// fakeTime is a settable time source so tests can walk the day minute by
// minute.
type fakeTime struct{ t types.TimeOfDay }

func (f *fakeTime) Now() types.TimeOfDay { return f.t }

// countingSleeper records pump run bursts instead of sleeping.
type countingSleeper struct {
	slept []time.Duration
}

func (c *countingSleeper) Sleep(d time.Duration) bool {
	c.slept = append(c.slept, d)
	return true
}

type rig struct {
	ft   *fakeTime
	st   *store.Store
	tc   *countingSleeper
	svc  *Service
	pins Pins

	lamps [types.LampCount]*platform.FakePin
	back  *platform.FakePin
	pump  *platform.FakePin
	mist  *platform.FakePin
	bubb  *platform.FakePin
}

func newRig() *rig {
	r := &rig{
		ft:   &fakeTime{},
		st:   store.New(&platform.MemEEPROM{}),
		tc:   &countingSleeper{},
		back: &platform.FakePin{},
		pump: &platform.FakePin{},
		mist: &platform.FakePin{},
		bubb: &platform.FakePin{},
	}
	r.pins = Pins{Backlight: r.back, Pump: r.pump, Mist: r.mist, Bubbler: r.bubb}
	for i := range r.lamps {
		r.lamps[i] = &platform.FakePin{}
		r.pins.Lamps[i] = r.lamps[i]
	}
	// Start from a clean slate; individual tests install their schedules.
	r.st.SetLamp(0, types.LampSchedule{})
	r.st.SetPump(types.PumpSchedule{})
	r.svc = New(r.ft, r.st, r.pins, nil, DefaultEvaluateMs)
	return r
}

func (r *rig) evalAt(t types.TimeOfDay) {
	r.ft.t = t
	r.svc.Evaluate(r.tc)
}

// -----------------------------------------------------------------------------
// Lamps
// -----------------------------------------------------------------------------

func TestLampWindow(t *testing.T) {
	cases := []struct {
		name string
		l    types.LampSchedule
		now  types.TimeOfDay
		want bool
	}{
		{"before on", types.LampSchedule{On: at(8, 0), Off: at(20, 0), Enabled: true}, at(7, 59), false},
		{"at on", types.LampSchedule{On: at(8, 0), Off: at(20, 0), Enabled: true}, at(8, 0), true},
		{"inside", types.LampSchedule{On: at(8, 0), Off: at(20, 0), Enabled: true}, at(13, 30), true},
		{"last minute", types.LampSchedule{On: at(8, 0), Off: at(20, 0), Enabled: true}, at(19, 59), true},
		{"at off", types.LampSchedule{On: at(8, 0), Off: at(20, 0), Enabled: true}, at(20, 0), false},
		{"same hour inside", types.LampSchedule{On: at(10, 0), Off: at(10, 30), Enabled: true}, at(10, 15), true},
		{"same hour after", types.LampSchedule{On: at(10, 0), Off: at(10, 30), Enabled: true}, at(10, 45), false},
		{"disabled", types.LampSchedule{On: at(8, 0), Off: at(20, 0)}, at(13, 0), false},
		{"off before on", types.LampSchedule{On: at(20, 0), Off: at(8, 0), Enabled: true}, at(22, 0), false},
		{"empty window", types.LampSchedule{On: at(9, 0), Off: at(9, 0), Enabled: true}, at(9, 0), false},
	}
	for _, c := range cases {
		if got := lampActive(c.now, c.l); got != c.want {
			t.Errorf("%s: lampActive = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestLampPinsAndBacklight(t *testing.T) {
	r := newRig()
	r.st.SetLamp(0, types.LampSchedule{On: at(8, 0), Off: at(20, 0), Enabled: true})
	r.st.SetLamp(1, types.LampSchedule{On: at(18, 0), Off: at(23, 0), Enabled: true})

	r.evalAt(at(9, 0))
	if !r.lamps[0].Get() || r.lamps[1].Get() {
		t.Fatalf("lamps at 09:00 = %v,%v", r.lamps[0].Get(), r.lamps[1].Get())
	}
	if !r.back.Get() {
		t.Fatal("backlight dark with a lamp lit")
	}

	r.evalAt(at(23, 30))
	if r.lamps[0].Get() || r.lamps[1].Get() {
		t.Fatal("lamps lit outside both windows")
	}
	if r.back.Get() {
		t.Fatal("backlight lit with all lamps dark")
	}
}

// -----------------------------------------------------------------------------
// Pump
// -----------------------------------------------------------------------------

func TestPumpFiresOncePerWindowMinute(t *testing.T) {
	r := newRig()
	r.st.SetPump(types.PumpSchedule{RunSeconds: 5, WindowStart: at(8, 0), WindowEnd: at(21, 0), Enabled: true})

	// Several evaluation cycles land inside the trigger minute; only the
	// first runs the pump.
	r.evalAt(at(8, 0))
	r.evalAt(at(8, 0))
	r.evalAt(at(8, 0))
	if len(r.tc.slept) != 1 {
		t.Fatalf("runs in trigger minute = %d, want 1", len(r.tc.slept))
	}
	if r.tc.slept[0] != 5*time.Second {
		t.Fatalf("run duration = %v", r.tc.slept[0])
	}
	if r.pump.Get() {
		t.Fatal("pump pin left active after the run")
	}

	// The next minute clears the latch but is not the trigger minute.
	r.evalAt(at(8, 1))
	if len(r.tc.slept) != 1 {
		t.Fatalf("pump ran outside the trigger minute")
	}

	// Back at the trigger minute an hour later: fires again.
	r.evalAt(at(9, 0))
	if len(r.tc.slept) != 2 {
		t.Fatalf("runs = %d, want 2", len(r.tc.slept))
	}
}

func TestPumpLongRunLatchHolds(t *testing.T) {
	r := newRig()
	// 120 s run spans two minutes; the latch must survive minute +1.
	r.st.SetPump(types.PumpSchedule{RunSeconds: 120, WindowStart: at(8, 0), WindowEnd: at(21, 0), Enabled: true})

	r.evalAt(at(8, 0))
	if len(r.tc.slept) != 1 {
		t.Fatalf("runs = %d", len(r.tc.slept))
	}
	r.evalAt(at(8, 1)) // adv 1 < 120/60: latch stays
	r.evalAt(at(8, 0)) // hypothetical re-entry, still latched
	if len(r.tc.slept) != 1 {
		t.Fatalf("latch released early: runs = %d", len(r.tc.slept))
	}
	r.evalAt(at(8, 2)) // adv 2 >= 2: latch clears
	r.evalAt(at(9, 0))
	if len(r.tc.slept) != 2 {
		t.Fatalf("runs = %d, want 2", len(r.tc.slept))
	}
}

func TestPumpOutsideWindow(t *testing.T) {
	r := newRig()
	r.st.SetPump(types.PumpSchedule{RunSeconds: 5, WindowStart: at(9, 0), WindowEnd: at(21, 0), Enabled: true})

	r.evalAt(at(8, 0))  // before the window
	r.evalAt(at(22, 0)) // after the window
	if len(r.tc.slept) != 0 {
		t.Fatalf("pump ran outside the window: %d", len(r.tc.slept))
	}
}

func TestPumpDisabledOrZeroDuration(t *testing.T) {
	r := newRig()
	r.st.SetPump(types.PumpSchedule{RunSeconds: 5, WindowStart: at(9, 0), WindowEnd: at(21, 0)})
	r.evalAt(at(9, 0))
	if len(r.tc.slept) != 0 {
		t.Fatal("disabled pump ran")
	}

	r.st.SetPump(types.PumpSchedule{RunSeconds: 0, WindowStart: at(9, 0), WindowEnd: at(21, 0), Enabled: true})
	r.evalAt(at(10, 0))
	if len(r.tc.slept) != 0 {
		t.Fatal("zero-duration pump ran")
	}
}

// -----------------------------------------------------------------------------
// Mist / bubbler
// -----------------------------------------------------------------------------

func TestMultiRunWindow(t *testing.T) {
	r := newRig()
	m := types.MultiEventSchedule{RunMinutes: 2, Enabled: true}
	m.Triggers[0] = at(10, 0)
	m.Count = 1
	r.st.SetMulti(store.Mist, m)

	r.evalAt(at(9, 59))
	if r.mist.Get() {
		t.Fatal("mist active before the trigger")
	}
	r.evalAt(at(10, 0))
	if !r.mist.Get() {
		t.Fatal("mist inactive at the trigger minute")
	}
	r.evalAt(at(10, 1))
	if !r.mist.Get() {
		t.Fatal("mist inactive inside the run window")
	}
	r.evalAt(at(10, 2)) // window is half-open
	if r.mist.Get() {
		t.Fatal("mist still active at the window end")
	}
}

func TestMultiZeroDurationNeverActivates(t *testing.T) {
	r := newRig()
	m := types.MultiEventSchedule{RunMinutes: 0, Enabled: true}
	m.Triggers[0] = at(10, 0)
	m.Count = 1
	r.st.SetMulti(store.Mist, m)

	for _, now := range []types.TimeOfDay{at(10, 0), at(10, 1), at(12, 0), at(23, 59)} {
		r.evalAt(now)
		if r.mist.Get() {
			t.Fatalf("mist active at %v with a zero-duration window", now)
		}
	}
}

func TestMultiRecoversAfterMissedCycle(t *testing.T) {
	r := newRig()
	m := types.MultiEventSchedule{RunMinutes: 2, Enabled: true}
	m.Triggers[0] = at(10, 0)
	m.Count = 1
	r.st.SetMulti(store.Mist, m)

	r.evalAt(at(10, 0))
	if !r.mist.Get() {
		t.Fatal("mist inactive at the trigger")
	}
	// No evaluation ran at 10:02 (a long pump burst can skip cycles); the
	// next one must still settle the pin off.
	r.evalAt(at(10, 5))
	if r.mist.Get() {
		t.Fatal("mist stuck on after a missed window end")
	}
}

func TestMultiHourWrap(t *testing.T) {
	r := newRig()
	m := types.MultiEventSchedule{RunMinutes: 5, Enabled: true}
	m.Triggers[0] = at(10, 58)
	m.Count = 1
	r.st.SetMulti(store.Bubbler, m)

	r.evalAt(at(10, 58))
	if !r.bubb.Get() {
		t.Fatal("bubbler inactive at the trigger")
	}
	r.evalAt(at(11, 0)) // crossed the hour, still inside the run
	if !r.bubb.Get() {
		t.Fatal("bubbler dropped across the hour boundary")
	}
	r.evalAt(at(11, 3)) // 10:58 + 5 min
	if r.bubb.Get() {
		t.Fatal("bubbler still active past the wrapped window end")
	}
}

func TestMultiDisabledForcesOff(t *testing.T) {
	r := newRig()
	m := types.MultiEventSchedule{RunMinutes: 2, Enabled: true}
	m.Triggers[0] = at(10, 0)
	m.Count = 1
	r.st.SetMulti(store.Mist, m)

	r.evalAt(at(10, 0))
	if !r.mist.Get() {
		t.Fatal("mist inactive at the trigger")
	}

	m.Enabled = false
	r.st.SetMulti(store.Mist, m)
	r.evalAt(at(10, 1))
	if r.mist.Get() {
		t.Fatal("disabling did not force the pin off")
	}
}

func TestMultiBackToBackTriggers(t *testing.T) {
	r := newRig()
	// Trigger 1 starts at the very minute trigger 0's window closes; the
	// device stays on straight through the boundary.
	m := types.MultiEventSchedule{RunMinutes: 2, Enabled: true}
	m.Triggers[0] = at(10, 0)
	m.Triggers[1] = at(10, 2)
	m.Count = 2
	r.st.SetMulti(store.Mist, m)

	r.evalAt(at(10, 0))
	if !r.mist.Get() {
		t.Fatal("mist inactive at the first trigger")
	}
	r.evalAt(at(10, 2)) // end of window 0, start of window 1
	if !r.mist.Get() {
		t.Fatal("mist dropped at the shared boundary")
	}
	r.evalAt(at(10, 4))
	if r.mist.Get() {
		t.Fatal("mist still active past the second run")
	}
}
