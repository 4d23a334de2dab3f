// Package kernel is a cooperative run-to-sleep scheduler. Tasks are
// goroutines, but a single baton guarantees that exactly one task body
// executes at any instant: a task runs until it calls Sleep, which hands the
// baton back; the kernel resumes the task with the earliest due time (ties
// broken by priority, then spawn order). Under that guarantee, shared state
// with one writer per field needs no locks, which is the concurrency model
// the whole firmware is built on.
package kernel

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

type Priority uint8

const (
	PrioHigh Priority = iota
	PrioNormal
	PrioLow
)

// Task is a task body. It usually never returns; returning retires the task.
type Task func(tc *TaskCtx)

// TaskCtx is handed to each task; Sleep is its only suspension point.
type TaskCtx struct {
	k      *Kernel
	name   string
	prio   Priority
	seq    uint64
	resume chan struct{}
}

func (tc *TaskCtx) Name() string { return tc.name }

// NowMs returns the kernel clock in Unix milliseconds.
func (tc *TaskCtx) NowMs() int64 { return tc.k.clk.NowMs() }

// Sleep suspends the task for d and hands the baton to the scheduler.
// Returns false when the kernel has stopped; the task should return.
func (tc *TaskCtx) Sleep(d time.Duration) bool {
	due := tc.k.clk.NowMs() + d.Milliseconds()
	select {
	case tc.k.yieldCh <- yield{tc: tc, due: due}:
	case <-tc.k.done:
		return false
	}
	select {
	case <-tc.resume:
		return true
	case <-tc.k.done:
		return false
	}
}

type yield struct {
	tc   *TaskCtx
	due  int64
	exit bool
}

// -----------------------------------------------------------------------------
// Run queue: min-heap on (due, prio, seq).
// -----------------------------------------------------------------------------

type runItem struct {
	tc  *TaskCtx
	due int64
}

type runHeap []runItem

func (h runHeap) Len() int { return len(h) }
func (h runHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	if h[i].tc.prio != h[j].tc.prio {
		return h[i].tc.prio < h[j].tc.prio
	}
	return h[i].tc.seq < h[j].tc.seq
}
func (h runHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *runHeap) Push(x any)   { *h = append(*h, x.(runItem)) }
func (h *runHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// -----------------------------------------------------------------------------
// Kernel
// -----------------------------------------------------------------------------

type Kernel struct {
	clk     Clock
	yieldCh chan yield
	wake    chan struct{}
	done    chan struct{}

	mu      sync.Mutex
	ready   runHeap
	nextSeq uint64
	live    int
}

func New(clk Clock) *Kernel {
	if clk == nil {
		clk = RealClock{}
	}
	return &Kernel{
		clk:     clk,
		yieldCh: make(chan yield),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Spawn registers a task. The body does not run until Run grants it the
// baton. Safe to call before or during Run.
func (k *Kernel) Spawn(name string, prio Priority, fn Task) {
	tc := &TaskCtx{
		k:      k,
		name:   name,
		prio:   prio,
		resume: make(chan struct{}),
	}
	k.mu.Lock()
	tc.seq = k.nextSeq
	k.nextSeq++
	k.live++
	heap.Push(&k.ready, runItem{tc: tc, due: k.clk.NowMs()})
	k.mu.Unlock()

	go func() {
		select {
		case <-tc.resume:
		case <-k.done:
			return
		}
		fn(tc)
		select {
		case k.yieldCh <- yield{tc: tc, exit: true}:
		case <-k.done:
		}
	}()

	select {
	case k.wake <- struct{}{}:
	default:
	}
}

// Run drives the baton until ctx is cancelled or every task has retired.
// At the top of each iteration no task body is executing; every live task is
// either in the heap or mid-handoff on yieldCh.
func (k *Kernel) Run(ctx context.Context) {
	defer close(k.done)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		k.mu.Lock()
		if k.live == 0 {
			k.mu.Unlock()
			return
		}
		if len(k.ready) == 0 {
			k.mu.Unlock()
			// All tasks mid-handoff; nothing to schedule yet.
			select {
			case <-k.wake:
			case <-ctx.Done():
				return
			}
			continue
		}
		top := k.ready[0]
		now := k.clk.NowMs()
		if top.due > now {
			k.mu.Unlock()
			k.clk.WaitUntil(top.due, k.wake)
			continue
		}
		it := heap.Pop(&k.ready).(runItem)
		k.mu.Unlock()

		// Grant the baton and wait for the task to yield or retire.
		select {
		case it.tc.resume <- struct{}{}:
		case <-ctx.Done():
			return
		}
		select {
		case y := <-k.yieldCh:
			if y.exit {
				k.mu.Lock()
				k.live--
				k.mu.Unlock()
				continue
			}
			k.mu.Lock()
			heap.Push(&k.ready, runItem{tc: y.tc, due: y.due})
			k.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}
