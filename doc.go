// Package aio provides a single-threaded cooperative concurrency runtime: a
// [Loop] that schedules callbacks in time order, [Future] values that carry
// a single result to completion callbacks, and [Task] values that drive a
// suspendable computation to completion by awaiting Futures.
//
// # Architecture
//
// The [Loop] is a total-order scheduler over (level, when, insertion
// index) triples, where level is soon or delayed: [Loop.CallSoon] callbacks run ahead of any [Loop.CallAt]
// or [Loop.CallLater] callback due at the same time, and callbacks
// scheduled during a tick's drain never run until the following tick —
// every tick promotes its due callbacks into a FIFO buffer before draining
// it, which bounds how much work one tick can do and keeps drain fair.
//
// A [Future] is a single-assignment result cell: [Future.SetResult],
// [Future.SetException], and [Future.Cancel] each settle it at most once,
// and [Future.AddDoneCallback] callbacks are always scheduled through the
// owning Loop, never invoked synchronously.
//
// A [Task] wraps a [ComputationFunc] on its own goroutine, but the two
// never run concurrently: the computation blocks on [Yielder.Await] until
// the Task's driver resumes it, and the driver blocks until the
// computation either awaits again or returns — a strict, single-threaded
// handoff in both directions.
//
// # Usage
//
//	result, err := aio.Run(func(y *aio.Yielder) (any, error) {
//	    loop, _ := aio.GetRunningLoop()
//	    f := aio.NewFuture(loop)
//	    loop.CallLater(0.1, func(args ...any) {
//	        f.SetResult("done")
//	    })
//	    return y.Await(f)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result)
//
// # Error Types
//
// The package provides a small error taxonomy distinguishing the ways an
// operation can fail:
//   - [InvalidStateError]: a Future/Task method called at the wrong point
//     in its lifecycle.
//   - [CancelledError]: the awaited operation was cancelled.
//   - [TypeError]: an argument was the wrong shape.
//   - [RuntimeError]: the Loop itself refused the operation (closed,
//     already running, stopped early).
//
// All error types implement the standard [error] interface and
// [errors.Unwrap]/[errors.Is]-compatible matching.
//
// # Logging
//
// The Loop routes uncaught callback failures through a structured
// [Logger] (it logs no lifecycle events), built on
// github.com/joeycumines/logiface and github.com/joeycumines/stumpy. The
// default Logger is disabled, so an unconfigured Loop pays no logging
// overhead beyond a level check; pass [WithLogger] to enable it.
package aio
