package aio

import "reflect"

// Future is a single-assignment result cell. It transitions at most once
// from pending to done; once done, Result/Exception never report
// InvalidStateError again, and SetResult/SetException always do.
//
// Completion callbacks are scheduled via the owning Loop (never called
// synchronously from SetResult/SetException/Cancel), so a caller's stack
// stays shallow and callback ordering is total: they fire in the order
// they were added.
type Future struct {
	loop      *Loop
	value     any
	err       error // non-nil iff the Future failed (including cancellation)
	done      bool
	cancelled bool
	callbacks []func(*Future)
}

// NewFuture creates a Future bound to loop. If loop is nil, the future is
// bound to the current context's loop (see GetEventLoop).
func NewFuture(loop *Loop) *Future {
	if loop == nil {
		loop, _ = GetEventLoop()
	}
	return &Future{loop: loop}
}

// GetLoop returns the Loop this Future was created on.
func (f *Future) GetLoop() *Loop {
	return f.loop
}

// Done reports whether the Future has settled (with a value, a failure, or
// cancellation).
func (f *Future) Done() bool {
	return f.done
}

// Cancelled reports whether the Future was cancelled.
func (f *Future) Cancelled() bool {
	return f.cancelled
}

// Result returns the Future's value, or the stored failure as an error. It
// returns InvalidStateError if the Future is not yet done.
func (f *Future) Result() (any, error) {
	if !f.done {
		return nil, &InvalidStateError{Message: "Future.Result called before done"}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.value, nil
}

// Exception returns the Future's stored failure (nil if it resolved with a
// value), or InvalidStateError as the second return if not yet done.
func (f *Future) Exception() (error, error) {
	if !f.done {
		return nil, &InvalidStateError{Message: "Future.Exception called before done"}
	}
	return f.err, nil
}

// SetResult resolves the Future with a value. It fails with
// InvalidStateError if the Future is already done.
func (f *Future) SetResult(v any) error {
	if f.done {
		return &InvalidStateError{Message: "Future.SetResult called on a done Future"}
	}
	f.value = v
	f.done = true
	f.scheduleCallbacks()
	return nil
}

// SetException resolves the Future with a failure. It fails with
// InvalidStateError if the Future is already done, or TypeError if e is
// nil.
func (f *Future) SetException(e error) error {
	if f.done {
		return &InvalidStateError{Message: "Future.SetException called on a done Future"}
	}
	if e == nil {
		return &TypeError{Message: "Future.SetException requires a non-nil error"}
	}
	f.err = e
	f.done = true
	f.scheduleCallbacks()
	return nil
}

// Cancel cancels a pending Future, setting its failure to CancelledError.
// It returns false (and changes nothing) if the Future is already done.
func (f *Future) Cancel() bool {
	if f.done {
		return false
	}
	f.err = &CancelledError{}
	f.done = true
	f.cancelled = true
	f.scheduleCallbacks()
	return true
}

// AddDoneCallback registers cb to run (via the owning Loop) when the Future
// settles. If the Future is already done, cb is scheduled immediately.
func (f *Future) AddDoneCallback(cb func(*Future)) {
	f.callbacks = append(f.callbacks, cb)
	if f.done {
		f.scheduleCallback(cb)
	}
}

// RemoveDoneCallback removes every callback equal to cb (by underlying
// function pointer, since Go function values aren't comparable with ==) and
// returns the number removed.
func (f *Future) RemoveDoneCallback(cb func(*Future)) int {
	target := reflect.ValueOf(cb).Pointer()
	kept := f.callbacks[:0]
	removed := 0
	for _, existing := range f.callbacks {
		if reflect.ValueOf(existing).Pointer() == target {
			removed++
			continue
		}
		kept = append(kept, existing)
	}
	f.callbacks = kept
	return removed
}

// scheduleCallbacks schedules every registered completion callback, in the
// order they were added.
func (f *Future) scheduleCallbacks() {
	for _, cb := range f.callbacks {
		f.scheduleCallback(cb)
	}
}

func (f *Future) scheduleCallback(cb func(*Future)) {
	loop := f.loop
	if loop == nil {
		loop, _ = GetEventLoop()
	}
	if loop == nil {
		return
	}
	_, _ = loop.callSoonRaw(func() { cb(f) })
}

// AwaitStep implements Awaitable: awaiting a Future yields itself once to
// the driver, then returns its result (or propagates its failure).
func (f *Future) AwaitStep(y *Yielder) (any, error) {
	return y.awaitFuture(f)
}

var _ Awaitable = (*Future)(nil)
