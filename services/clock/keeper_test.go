package clock

import (
	"testing"

	"vivarium-go/errcode"
	"vivarium-go/platform"
	"vivarium-go/types"
)

func newKeeper(t *testing.T, rtc *platform.FakeRTC) *Keeper {
	t.Helper()
	k, err := New(rtc, nil, DefaultTickMs)
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func TestSeedsFromRTC(t *testing.T) {
	rtc := &platform.FakeRTC{Hr: 9, Min: 41, Sec: 17}
	k := newKeeper(t, rtc)
	if got := k.Now(); got != (types.TimeOfDay{Hour: 9, Minute: 41}) {
		t.Fatalf("Now = %v", got)
	}
	if k.Seconds() != 17 {
		t.Fatalf("Seconds = %d", k.Seconds())
	}
}

func TestStoppedRTCRefused(t *testing.T) {
	_, err := New(&platform.FakeRTC{Stopped: true}, nil, DefaultTickMs)
	if errcode.Of(err) != errcode.RTCNotRunning {
		t.Fatalf("err = %v", err)
	}
}

func TestTickRollsMinute(t *testing.T) {
	rtc := &platform.FakeRTC{Hr: 9, Min: 41, Sec: 58}
	k := newKeeper(t, rtc)

	k.Tick() // 59
	if k.Now().Minute != 41 {
		t.Fatalf("minute rolled early: %v", k.Now())
	}
	rtc.Min = 42 // the hardware clock rolls with us
	k.Tick()
	if got := k.Now(); got != (types.TimeOfDay{Hour: 9, Minute: 42}) {
		t.Fatalf("Now = %v", got)
	}
	if k.Seconds() != 0 {
		t.Fatalf("Seconds = %d", k.Seconds())
	}
}

func TestHourRollsThroughMidnight(t *testing.T) {
	rtc := &platform.FakeRTC{Hr: 23, Min: 59, Sec: 59}
	k := newKeeper(t, rtc)
	rtc.Min = 0
	k.Tick()
	if got := k.Now(); got != (types.TimeOfDay{Hour: 0, Minute: 0}) {
		t.Fatalf("Now = %v", got)
	}
}

func TestOneMinuteSkewCorrected(t *testing.T) {
	// Local lags the RTC by one minute: snap forward.
	rtc := &platform.FakeRTC{Hr: 10, Min: 30, Sec: 30}
	k := newKeeper(t, rtc)
	rtc.Min = 31
	k.Tick()
	if k.Now().Minute != 31 {
		t.Fatalf("lag not corrected: %v", k.Now())
	}

	// Local leads the RTC by one minute: snap back.
	rtc = &platform.FakeRTC{Hr: 10, Min: 31, Sec: 30}
	k = newKeeper(t, rtc)
	rtc.Min = 30
	k.Tick()
	if k.Now().Minute != 30 {
		t.Fatalf("lead not corrected: %v", k.Now())
	}
}

func TestOneMinuteSkewAcrossHour(t *testing.T) {
	// 59 vs 0 is still a one-minute discrepancy mod 60.
	rtc := &platform.FakeRTC{Hr: 10, Min: 59, Sec: 10}
	k := newKeeper(t, rtc)
	rtc.Min = 0
	k.Tick()
	if k.Now().Minute != 0 {
		t.Fatalf("wrap skew not corrected: %v", k.Now())
	}
}

func TestLargeDiscrepancyIgnored(t *testing.T) {
	rtc := &platform.FakeRTC{Hr: 10, Min: 30, Sec: 10}
	k := newKeeper(t, rtc)
	rtc.Min = 45 // one-off misread
	k.Tick()
	if k.Now().Minute != 30 {
		t.Fatalf("large discrepancy applied: %v", k.Now())
	}
}

func TestSetTime(t *testing.T) {
	rtc := &platform.FakeRTC{Hr: 10, Min: 30, Sec: 45}
	k := newKeeper(t, rtc)

	if err := k.SetTime(types.TimeOfDay{Hour: 7, Minute: 15}); err != nil {
		t.Fatal(err)
	}
	if got := k.Now(); got != (types.TimeOfDay{Hour: 7, Minute: 15}) {
		t.Fatalf("Now = %v", got)
	}
	if k.Seconds() != 0 {
		t.Fatalf("Seconds = %d", k.Seconds())
	}
	if rtc.Hr != 7 || rtc.Min != 15 || rtc.Sec != 0 || rtc.SetCalls != 1 {
		t.Fatalf("rtc not updated: %+v", rtc)
	}
}
