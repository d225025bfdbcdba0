package aio

import "sync"

// The process-wide loop slot has three states: unset-explicit (set to nil
// on purpose, via SetEventLoop(nil)), unset-default (never touched —
// GetEventLoop auto-creates on first use), and set (a Loop installed via
// SetEventLoop or by GetEventLoop's own auto-create). Tracked with a
// mutex rather than left to single-threaded assumptions, since the slot
// itself can be read from arbitrary goroutines even though any one Loop's
// own tick loop is not reentered concurrently.
var (
	loopSlotMu       sync.Mutex
	loopSlotValue    *Loop
	loopSlotExplicit bool
)

// SetEventLoop installs loop as the process-wide default consulted by
// GetEventLoop, NewFuture(nil), NewTask(nil, ...), and the free functions
// in this file. Passing nil explicitly unsets it: the next GetEventLoop
// call fails with RuntimeError instead of silently auto-creating one.
func SetEventLoop(loop *Loop) {
	loopSlotMu.Lock()
	defer loopSlotMu.Unlock()
	loopSlotValue = loop
	loopSlotExplicit = true
}

// GetEventLoop returns the process-wide default Loop, auto-creating one
// the first time it's called if SetEventLoop was never used. If
// SetEventLoop(nil) was called explicitly, it fails with RuntimeError
// instead of auto-creating.
func GetEventLoop() (*Loop, error) {
	loopSlotMu.Lock()
	defer loopSlotMu.Unlock()
	if loopSlotValue != nil {
		return loopSlotValue, nil
	}
	if loopSlotExplicit {
		return nil, &RuntimeError{Message: "no current event loop: SetEventLoop(nil) was called explicitly"}
	}
	loopSlotValue = NewLoop()
	return loopSlotValue, nil
}

// GetRunningLoop returns the default Loop, but only while it's actually
// driving RunForever; it fails with RuntimeError otherwise. Go has no
// goroutine-local storage to track "the loop running on this call stack"
// the way a single-threaded host language would, so this simplifies to
// the installed default loop's own running flag — adequate for a program
// with one active Loop at a time, which is the common case this runtime
// targets.
func GetRunningLoop() (*Loop, error) {
	loopSlotMu.Lock()
	loop := loopSlotValue
	loopSlotMu.Unlock()
	if loop == nil || !loop.IsRunning() {
		return nil, &RuntimeError{Message: "no running event loop"}
	}
	return loop, nil
}

// NewEventLoop is an alias for NewLoop, named to match the process-wide
// loop slot's other free functions.
func NewEventLoop(opts ...LoopOption) *Loop {
	return NewLoop(opts...)
}

// EnsureFuture normalizes x into a *Future: a *Future is returned as-is, a
// *Task's own embedded Future is returned (it already is one), a
// ComputationFunc is wrapped in a new Task bound to loop, an Awaitable
// that is neither of those is wrapped in a new Task driving a tiny adapter
// computation that awaits it, and anything else fails with TypeError.
func EnsureFuture(loop *Loop, x any) (*Future, error) {
	switch v := x.(type) {
	case *Future:
		return v, nil
	case *Task:
		return v.Future, nil
	case ComputationFunc:
		return NewTask(loop, v).Future, nil
	case Awaitable:
		return NewTask(loop, func(y *Yielder) (any, error) {
			return y.Await(v)
		}).Future, nil
	default:
		return nil, &TypeError{Message: "EnsureFuture: argument must be a *Future, *Task, ComputationFunc, or Awaitable"}
	}
}

// Run is the top-level entry point: it installs a fresh Loop as the
// process-wide default, drives comp to completion on it, and tears the
// Loop down again before returning — analogous to asyncio.run.
func Run(comp ComputationFunc) (any, error) {
	loop := NewLoop()
	SetEventLoop(loop)
	defer func() {
		SetEventLoop(nil)
		_ = loop.Close()
	}()
	task := NewTask(loop, comp)
	return loop.RunUntilComplete(task)
}

// CurrentTask returns the Task currently stepping on the running default
// Loop, or nil if none is (including if no Loop is running at all).
func CurrentTask() *Task {
	loop, err := GetRunningLoop()
	if err != nil {
		return nil
	}
	return loop.CurrentTask()
}

// AllTasks returns every Task still live on the process-wide default Loop.
func AllTasks() ([]*Task, error) {
	loop, err := GetEventLoop()
	if err != nil {
		return nil, err
	}
	return loop.AllTasks(), nil
}
