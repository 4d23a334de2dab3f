// Package clock maintains the local time-of-day. A calibrated one-second
// software tick advances it; the external RTC is consulted every tick but
// only trusted for corrections of exactly one minute, so a single misread
// cannot yank the clock around.
package clock

import (
	"time"

	"vivarium-go/bus"
	"vivarium-go/errcode"
	"vivarium-go/types"
	"vivarium-go/x/timex"
)

// DefaultTickMs is the nominal tick period. The real period is calibrated
// per board (crystal and scheduler overhead shave a few ms per tick); the
// board config can override it.
const DefaultTickMs = 1000

type Keeper struct {
	rtc    types.RTC
	conn   *bus.Connection
	tickMs uint32

	t    types.TimeOfDay
	secs uint8
}

func New(rtc types.RTC, conn *bus.Connection, tickMs uint32) (*Keeper, error) {
	if !rtc.Running() {
		return nil, errcode.RTCNotRunning
	}
	k := &Keeper{rtc: rtc, conn: conn, tickMs: tickMs}
	if k.tickMs == 0 {
		k.tickMs = DefaultTickMs
	}
	k.t = types.TimeOfDay{Hour: rtc.Hours() % 24, Minute: rtc.Minutes() % 60}
	k.secs = rtc.Seconds() % 60
	return k, nil
}

// Now returns the local time-of-day. Read-only borrowers (evaluators, menu)
// call this; only the keeper task and SetTime write.
func (k *Keeper) Now() types.TimeOfDay { return k.t }

func (k *Keeper) Seconds() uint8 { return k.secs }

// SetTime applies a user selection atomically to the local value and the
// RTC, resetting seconds to zero.
func (k *Keeper) SetTime(t types.TimeOfDay) error {
	k.t = t
	k.secs = 0
	err := k.rtc.SetTime(t.Hour, t.Minute, 0)
	k.publish()
	return err
}

type sleeper interface {
	Sleep(d time.Duration) bool
}

func (k *Keeper) Run(tc sleeper) {
	println("clock: keeper up")
	k.publish()
	for {
		if !tc.Sleep(timex.MsToDuration(k.tickMs)) {
			return
		}
		k.Tick()
	}
}

// Tick advances one second, then reconciles against the RTC minute.
func (k *Keeper) Tick() {
	minuteChanged := false
	k.secs++
	if k.secs >= 60 {
		k.secs = 0
		k.t = k.t.AddMinutes(1)
		minuteChanged = true
	}

	// Rate-limited correction: only a discrepancy of exactly one minute
	// (mod 60) is treated as tick-granularity skew and snapped to the RTC.
	// Anything larger is a one-off misread and is ignored this tick.
	rtcMin := k.rtc.Minutes() % 60
	local := k.t.Minute
	if rtcMin != local {
		if (local+1)%60 == rtcMin || (rtcMin+1)%60 == local {
			k.t.Minute = rtcMin
			minuteChanged = true
		}
	}

	if minuteChanged {
		k.publish()
	}
}

func (k *Keeper) publish() {
	if k.conn == nil {
		return
	}
	k.conn.Publish(k.conn.NewMessage(bus.T("clock", "time"),
		types.TimePayload{Time: k.t, Seconds: k.secs}, true))
}
