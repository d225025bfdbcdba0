package aio

import (
	"container/heap"
	"fmt"
	"time"

	"github.com/joeycumines/go-catrate"
	"golang.org/x/exp/maps"
)

// defaultIdleSleep is how long RunForever sleeps, per tick, when the queue
// is empty.
const defaultIdleSleep = 1.0 // seconds

// Loop is a time-ordered callback scheduler: a tick loop that promotes due
// callbacks into a FIFO buffer and then drains them, plus the lifecycle
// (running/closed) and Task bookkeeping that depend on it.
//
// A Loop is not safe for concurrent use from multiple goroutines; it is a
// single-threaded cooperative scheduler by design.
type Loop struct {
	queue   callbackQueue
	index   uint64
	running bool
	closed  bool

	currentTask *Task
	liveTasks   map[*Task]struct{}

	exceptionHandler ExceptionHandler
	exceptionRate    *catrate.Limiter
	logger           Logger

	now func() float64
}

// NewLoop constructs a pending (not running, not closed) Loop.
func NewLoop(opts ...LoopOption) *Loop {
	cfg := resolveLoopOptions(opts)
	return &Loop{
		liveTasks:        make(map[*Task]struct{}),
		exceptionHandler: cfg.exceptionHandler,
		exceptionRate:    catrate.NewLimiter(map[time.Duration]int{time.Second: 1}),
		logger:           cfg.logger,
		now:              cfg.now,
	}
}

// monotonicNow returns a clock closure anchored to the moment it's called,
// giving each Loop its own non-decreasing seconds-since-creation timeline.
func monotonicNow() func() float64 {
	start := time.Now()
	return func() float64 { return time.Since(start).Seconds() }
}

// Time returns the Loop's current monotonic time, in seconds. It is
// non-decreasing across calls on the same Loop.
func (l *Loop) Time() float64 {
	return l.now()
}

// Callback is the signature accepted by CallSoon/CallLater/CallAt: a
// function plus the arguments captured at schedule time.
type Callback func(args ...any)

// CallSoon enqueues fn to run as soon as possible, ahead of any delayed
// callback due at the same time. It fails with RuntimeError on a closed
// loop.
func (l *Loop) CallSoon(fn Callback, args ...any) (Handle, error) {
	return l.enqueue(levelSoon, l.now(), func() { fn(args...) })
}

// CallLater is equivalent to CallAt(Time()+delay, fn, args...). A negative
// delay is allowed and fires as soon as possible.
func (l *Loop) CallLater(delay float64, fn Callback, args ...any) (TimerHandle, error) {
	return l.CallAt(l.now()+delay, fn, args...)
}

// CallAt enqueues fn to run at or after the absolute time when. It fails
// with RuntimeError on a closed loop.
func (l *Loop) CallAt(when float64, fn Callback, args ...any) (TimerHandle, error) {
	h, err := l.enqueue(levelDelayed, when, func() { fn(args...) })
	return TimerHandle{Handle: h}, err
}

// callSoonRaw is the zero-argument internal counterpart used by Future and
// Task to schedule plumbing callbacks without the Callback variadic
// indirection.
func (l *Loop) callSoonRaw(fn func()) (Handle, error) {
	return l.enqueue(levelSoon, l.now(), fn)
}

func (l *Loop) enqueue(lv level, when float64, fn func()) (Handle, error) {
	if l.closed {
		return Handle{}, &RuntimeError{Message: "cannot schedule on a closed loop"}
	}
	l.index++
	cb := &scheduledCallback{level: lv, when: when, index: l.index, fn: fn}
	heap.Push(&l.queue, cb)
	return Handle{cb: cb}, nil
}

// RunForever runs the tick loop until Stop is called (from within a
// callback, or by another part of the program while it's running), or
// fails outright with RuntimeError on a closed or already-running loop.
func (l *Loop) RunForever() error {
	if l.closed {
		return &RuntimeError{Message: "RunForever called on a closed loop"}
	}
	if l.running {
		return &RuntimeError{Message: "RunForever called on an already running loop"}
	}
	l.running = true
	for l.running {
		l.tick()
	}
	return nil
}

// tick is one promote-then-drain iteration: every due callback is moved
// into a FIFO buffer first, then that buffer is drained front-to-back.
// Splitting promote from drain means a callback invoked during drain that
// schedules further work never has that work drained in the same tick —
// each round gets a fair, bounded turn.
func (l *Loop) tick() {
	if l.queue.Len() == 0 {
		l.sleep(defaultIdleSleep)
	} else if d := l.queue[0].when - l.now(); d > 0 {
		l.sleep(d)
	}

	now := l.now()
	var pending []*scheduledCallback
	for l.queue.Len() > 0 {
		head := l.queue[0]
		if head.level != levelSoon && head.when > now {
			break
		}
		pending = append(pending, heap.Pop(&l.queue).(*scheduledCallback))
	}

	// A Stop issued during the drain takes effect once the drain is over, so
	// the rest of this tick's callbacks still run on a running loop.
	stopped := false
	for _, cb := range pending {
		if cb.cancelled {
			continue
		}
		l.runCallback(cb)
		if !l.running {
			stopped = true
			l.running = true
		}
	}
	if stopped {
		l.running = false
	}
}

func (l *Loop) sleep(seconds float64) {
	time.Sleep(time.Duration(seconds * float64(time.Second)))
}

func (l *Loop) runCallback(cb *scheduledCallback) {
	defer func() {
		if r := recover(); r != nil {
			l.handleException(ExceptionContext{Message: "callback panicked", Err: toError(r)})
		}
	}()
	cb.fn()
}

func toError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

func (l *Loop) handleException(ctx ExceptionContext) {
	h := l.exceptionHandler
	if h == nil {
		h = defaultExceptionHandler
	}
	h(l, ctx)
}

// Stop clears the running flag once the current tick's drain finishes, so
// RunForever returns without starting another tick. Any other callback
// already promoted for this tick still runs.
func (l *Loop) Stop() {
	l.running = false
}

// Close rejects further scheduling and running. It fails with
// RuntimeError if the loop is currently running.
func (l *Loop) Close() error {
	if l.running {
		return &RuntimeError{Message: "Close called on a running loop"}
	}
	l.closed = true
	return nil
}

// IsRunning reports whether RunForever is currently driving this Loop.
func (l *Loop) IsRunning() bool { return l.running }

// IsClosed reports whether Close has been called.
func (l *Loop) IsClosed() bool { return l.closed }

// SetExceptionHandler replaces the hook invoked for uncaught callback
// failures. A nil handler is ignored.
func (l *Loop) SetExceptionHandler(h ExceptionHandler) {
	if h != nil {
		l.exceptionHandler = h
	}
}

// CurrentTask returns the Task currently being stepped by this Loop, or nil
// if none is stepping right now.
func (l *Loop) CurrentTask() *Task {
	return l.currentTask
}

// AllTasks returns a snapshot of every Task still registered as live on
// this Loop.
func (l *Loop) AllTasks() []*Task {
	return maps.Keys(l.liveTasks)
}

// RunUntilComplete wraps x via EnsureFuture, drives the Loop until it
// settles, and returns its result (or propagates its failure). It fails
// with RuntimeError if the Loop stops before x settles.
func (l *Loop) RunUntilComplete(x any) (any, error) {
	fut, err := EnsureFuture(l, x)
	if err != nil {
		return nil, err
	}
	fut.AddDoneCallback(func(*Future) { l.Stop() })
	if err := l.RunForever(); err != nil {
		return nil, err
	}
	if !fut.Done() {
		return nil, &RuntimeError{Message: "RunUntilComplete: loop stopped before its Future completed"}
	}
	return fut.Result()
}
