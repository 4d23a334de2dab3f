package kernel

import "time"

// Clock abstracts time for the scheduler. The real clock sleeps; the manual
// clock leaps straight to the requested deadline, which makes task
// interleavings deterministic and lets tests simulate hours in microseconds.
type Clock interface {
	NowMs() int64
	// WaitUntil returns when the clock reaches deadline or wake fires,
	// whichever comes first.
	WaitUntil(deadline int64, wake <-chan struct{})
}

// RealClock is wall time.
type RealClock struct{}

func (RealClock) NowMs() int64 { return time.Now().UnixMilli() }

func (RealClock) WaitUntil(deadline int64, wake <-chan struct{}) {
	d := time.Duration(deadline-time.Now().UnixMilli()) * time.Millisecond
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-wake:
	}
}

// ManualClock advances only when the scheduler waits on it. Since the
// scheduler is the sole caller of WaitUntil, jumping to the deadline
// preserves the cooperative ordering exactly.
type ManualClock struct {
	now int64
}

func NewManualClock(startMs int64) *ManualClock { return &ManualClock{now: startMs} }

func (c *ManualClock) NowMs() int64 { return c.now }

func (c *ManualClock) WaitUntil(deadline int64, _ <-chan struct{}) {
	if deadline > c.now {
		c.now = deadline
	}
}
