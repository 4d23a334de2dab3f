package input

import (
	"testing"

	"vivarium-go/platform"
	"vivarium-go/types"
)

type rig struct {
	b1, b2 *platform.FakePin
	led    *platform.FakePin
	slot   Slot
	svc    *Service
}

func newRig() *rig {
	r := &rig{
		b1:  platform.NewFakeButton(),
		b2:  platform.NewFakeButton(),
		led: &platform.FakePin{},
	}
	r.svc = New(r.b1, r.b2, r.led, &r.slot, nil, DefaultPollMs)
	return r
}

// poll runs n classifier ticks.
func (r *rig) poll(n int) {
	for i := 0; i < n; i++ {
		r.svc.Poll()
	}
}

func TestShortPress(t *testing.T) {
	r := newRig()

	r.b1.Press()
	r.poll(7) // one under the long threshold
	if ev := r.slot.Peek(); ev != types.PressNone {
		t.Fatalf("event before release: %v", ev)
	}
	r.b1.Release()
	r.poll(1)
	if ev := r.slot.Take(); ev != types.PressB1Short {
		t.Fatalf("event = %v, want B1 short", ev)
	}
	r.poll(5)
	if ev := r.slot.Peek(); ev != types.PressNone {
		t.Fatalf("spurious event after release: %v", ev)
	}
}

func TestLongPress(t *testing.T) {
	for _, held := range []int{8, 12, 19} {
		r := newRig()
		r.b1.Press()
		r.poll(held)
		if ev := r.slot.Peek(); ev != types.PressNone {
			t.Fatalf("held %d: event before release: %v", held, ev)
		}
		r.b1.Release()
		r.poll(1)
		if ev := r.slot.Take(); ev != types.PressB1Long {
			t.Fatalf("held %d: event = %v, want B1 long", held, ev)
		}
	}
}

func TestRepeatStream(t *testing.T) {
	r := newRig()

	r.b2.Press()
	r.poll(19)
	if ev := r.slot.Peek(); ev != types.PressNone {
		t.Fatalf("event at tick 19: %v", ev)
	}
	// Tick 20: the long event fires while still held.
	r.poll(1)
	if ev := r.slot.Take(); ev != types.PressB2Long {
		t.Fatalf("event at tick 20 = %v, want B2 long", ev)
	}
	// Then one repeat every 5 ticks.
	for rep := 0; rep < 3; rep++ {
		r.poll(4)
		if ev := r.slot.Peek(); ev != types.PressNone {
			t.Fatalf("repeat %d fired early: %v", rep, ev)
		}
		r.poll(1)
		if ev := r.slot.Take(); ev != types.PressB2Repeat {
			t.Fatalf("repeat %d = %v, want B2 repeat", rep, ev)
		}
	}
	// Releasing mid-stream adds nothing.
	r.b2.Release()
	r.poll(1)
	if ev := r.slot.Peek(); ev != types.PressNone {
		t.Fatalf("event on release after repeating: %v", ev)
	}
}

func TestSlotOverwrite(t *testing.T) {
	r := newRig()

	// Two quick presses with nobody consuming: only the latest survives.
	r.b1.Press()
	r.poll(3)
	r.b1.Release()
	r.poll(1)
	r.b2.Press()
	r.poll(3)
	r.b2.Release()
	r.poll(1)

	if ev := r.slot.Take(); ev != types.PressB2Short {
		t.Fatalf("event = %v, want B2 short (latest wins)", ev)
	}
	if ev := r.slot.Take(); ev != types.PressNone {
		t.Fatalf("slot not cleared: %v", ev)
	}
}

func TestBothButtonsIndependent(t *testing.T) {
	r := newRig()

	// Hold B1 into repeat territory while tapping B2.
	r.b1.Press()
	r.poll(10)
	r.b2.Press()
	r.poll(3)
	r.b2.Release()
	r.poll(1)
	if ev := r.slot.Take(); ev != types.PressB2Short {
		t.Fatalf("event = %v, want B2 short", ev)
	}
	r.b1.Release()
	r.poll(1)
	if ev := r.slot.Take(); ev != types.PressB1Long {
		t.Fatalf("event = %v, want B1 long", ev)
	}
}

func TestHeldIndicator(t *testing.T) {
	r := newRig()

	r.b1.Press()
	r.poll(7)
	if r.led.Get() {
		t.Fatal("indicator lit before the long threshold")
	}
	r.poll(1)
	if !r.led.Get() {
		t.Fatal("indicator dark past the long threshold")
	}
	r.b1.Release()
	r.poll(1)
	if r.led.Get() {
		t.Fatal("indicator lit after release")
	}
}
