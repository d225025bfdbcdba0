package aio

import "errors"

// Awaitable is anything a Task's computation can pass to Yielder.Await: a
// bare Future, or any type that knows how to reduce itself to one. Task
// satisfies it for free, by promotion of its embedded *Future's AwaitStep.
type Awaitable interface {
	AwaitStep(y *Yielder) (any, error)
}

// ComputationFunc is the body driven by a Task: it runs on its own
// goroutine, but never concurrently with the Loop — it only ever executes
// between the points where it calls Yielder.Await, which blocks it until
// the Task's driver resumes it from the Loop's own goroutine.
type ComputationFunc func(y *Yielder) (any, error)

// Yielder is the handle a ComputationFunc uses to suspend itself awaiting
// an Awaitable, handed to it fresh on every call.
type Yielder struct {
	task *Task
}

// Await suspends the calling computation until a settles, then returns its
// result (or propagates its failure, including cancellation).
func (y *Yielder) Await(a Awaitable) (any, error) {
	return a.AwaitStep(y)
}

// Loop returns the Loop driving the Task this Yielder belongs to, so
// combinators built from a ComputationFunc (Sleep, Gather, WaitFor) don't
// need to fall back on the process-wide loop slot.
func (y *Yielder) Loop() *Loop {
	return y.task.loop
}

// awaitFuture is the one real rendezvous point: it hands f to the Task's
// driver (step) and blocks until the driver resumes this goroutine. If the
// resume carries a force-cancel signal, CancelledError is raised into the
// computation regardless of how f itself settled; otherwise f is
// guaranteed done and its result is read via f.Result() rather than pushed
// back over the channel — the value flows through the Future, never
// through the resume signal itself.
func (y *Yielder) awaitFuture(f *Future) (any, error) {
	if f.loop != nil && f.loop.IsClosed() {
		return nil, &InvalidStateError{Message: "await on a Future whose loop is closed"}
	}
	y.task.toDriver <- yieldMsg{await: f}
	sig := <-y.task.toComputation
	if sig.forceCancel {
		return nil, &CancelledError{}
	}
	return f.Result()
}

type yieldMsg struct {
	await *Future
	done  bool
	value any
	err   error
}

// resumeSignal carries the next resume into the computation's goroutine.
// forceCancel delivers CancelledError at the suspension point regardless
// of the awaited Future's own outcome; it is armed by Task.Cancel and
// discharged on delivery.
type resumeSignal struct {
	forceCancel bool
}

// Task drives a ComputationFunc to completion, suspending and resuming it
// each time it awaits a Future, and surfacing its own completion as a
// Future (embedded) that other computations can await in turn.
type Task struct {
	*Future

	loop *Loop
	comp ComputationFunc
	name string

	state TaskState

	toComputation chan resumeSignal
	toDriver      chan yieldMsg

	started         bool
	cancelRequested bool
	currentAwait    *Future
}

// NewTask wraps comp in a Task bound to loop (or the current context's loop,
// if loop is nil) and schedules its first step. The computation does not
// begin running synchronously; it starts on the Loop's next tick.
func NewTask(loop *Loop, comp ComputationFunc) *Task {
	if loop == nil {
		loop, _ = GetEventLoop()
	}
	t := &Task{
		Future:        NewFuture(loop),
		loop:          loop,
		comp:          comp,
		state:         TaskPending,
		toComputation: make(chan resumeSignal),
		toDriver:      make(chan yieldMsg),
	}
	loop.liveTasks[t] = struct{}{}
	_, _ = loop.callSoonRaw(t.step)
	return t
}

// State returns the Task's current lifecycle stage.
func (t *Task) State() TaskState {
	return t.state
}

// Name returns the Task's diagnostic name, set via SetName, or "".
func (t *Task) Name() string {
	return t.name
}

// SetName assigns a diagnostic name, returned by Name.
func (t *Task) SetName(name string) {
	t.name = name
}

// Cancel requests cancellation. If the Task is currently blocked awaiting
// a Future, that Future is cancelled too (so other observers of it also
// see the cancellation), and the next resume raises CancelledError into
// the computation regardless of whether that Future accepted the cancel.
// If the Task hasn't started yet, the next resume never starts its
// computation at all and settles straight to cancelled. Cancel returns
// false if the Task has already finished.
func (t *Task) Cancel() bool {
	if t.Future.Done() {
		return false
	}
	t.cancelRequested = true
	if t.currentAwait != nil {
		t.currentAwait.Cancel()
	}
	return true
}

// step is the Task's driver: it runs on the Loop's goroutine, one
// strictly-alternating handoff at a time with the computation's own
// goroutine, so the two logically never run concurrently.
func (t *Task) step() {
	if t.Future.Done() {
		return
	}
	prevTask := t.loop.currentTask
	t.loop.currentTask = t
	t.state = TaskRunning
	defer func() { t.loop.currentTask = prevTask }()

	if !t.started {
		if t.cancelRequested {
			t.finish(nil, &CancelledError{})
			return
		}
		t.started = true
		go t.run()
	} else {
		sig := resumeSignal{forceCancel: t.cancelRequested}
		t.cancelRequested = false
		t.toComputation <- sig
	}

	out := <-t.toDriver
	if out.done {
		t.finish(out.value, out.err)
		return
	}

	t.state = TaskPending
	t.currentAwait = out.await
	if t.cancelRequested {
		out.await.Cancel()
	}
	out.await.AddDoneCallback(func(*Future) {
		t.currentAwait = nil
		t.step()
	})
}

func (t *Task) run() {
	y := &Yielder{task: t}
	value, err := t.comp(y)
	t.toDriver <- yieldMsg{done: true, value: value, err: err}
}

// finish settles the Task's own Future directly (rather than through
// SetResult/SetException/Cancel) so it can distinguish a computation that
// returned CancelledError from one that simply returned a regular error.
func (t *Task) finish(value any, err error) {
	delete(t.loop.liveTasks, t)
	if err != nil {
		var cancelled *CancelledError
		if errors.As(err, &cancelled) {
			t.state = TaskCancelled
			t.err = err
			t.done = true
			t.cancelled = true
			t.scheduleCallbacks()
			return
		}
		t.state = TaskDone
		t.err = err
		t.done = true
		t.scheduleCallbacks()
		return
	}
	t.state = TaskDone
	t.value = value
	t.done = true
	t.scheduleCallbacks()
}
