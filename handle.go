package aio

import "container/heap"

// level distinguishes "soon" callbacks (run as soon as possible) from
// "delayed" callbacks (run at or after an absolute time). At equal `when`
// a soon callback precedes a delayed one.
type level int

const (
	levelSoon level = iota
	levelDelayed
)

// scheduledCallback is one entry in the Loop's time-ordered queue. The
// cancelled flag is a shared mutable bit: the Handle holds a pointer to the
// same scheduledCallback and flips it in place, so cancellation never needs
// to find-and-remove from the middle of the heap.
type scheduledCallback struct {
	level     level
	when      float64
	index     uint64
	fn        func()
	cancelled bool
}

// Handle is an opaque cancellation token for one scheduled callback.
// Cancelling is idempotent; cancelling an already-fired callback is a
// no-op.
type Handle struct {
	cb *scheduledCallback
}

// Cancel marks the scheduled callback as cancelled. The Loop still pops it
// from the queue in order, it just won't be invoked.
func (h Handle) Cancel() {
	h.cb.cancelled = true
}

// Cancelled reports whether Cancel has been called.
func (h Handle) Cancelled() bool {
	return h.cb.cancelled
}

// TimerHandle is a Handle for a callback scheduled with an absolute fire
// time, additionally exposing that time.
type TimerHandle struct {
	Handle
}

// When returns the absolute scheduled fire time, in the same units as
// Loop.Time.
func (h TimerHandle) When() float64 {
	return h.cb.when
}

// callbackQueue is a total-order min-heap over (level, when, index),
// implementing container/heap.Interface. Cancelled entries remain in the
// heap and are skipped when drained, keeping cancellation O(1) and
// scheduling O(log n).
type callbackQueue []*scheduledCallback

var _ heap.Interface = (*callbackQueue)(nil)

func (q callbackQueue) Len() int { return len(q) }

func (q callbackQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.level != b.level {
		return a.level < b.level
	}
	if a.when != b.when {
		return a.when < b.when
	}
	return a.index < b.index
}

func (q callbackQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *callbackQueue) Push(x any) {
	*q = append(*q, x.(*scheduledCallback))
}

func (q *callbackQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return x
}
