package aio

// Sleep returns a ComputationFunc that resumes after delay seconds,
// yielding nil. Grounded on the original project's sleep helper: a timer
// dressed up as a Computation. A ComputationFunc is not itself an
// Awaitable; wrap it with NewTask to pass it to Gather or WaitFor.
func Sleep(delay float64) ComputationFunc {
	return func(y *Yielder) (any, error) {
		loop := y.Loop()
		f := NewFuture(loop)
		if _, err := loop.CallLater(delay, func(args ...any) {
			_ = f.SetResult(nil)
		}); err != nil {
			return nil, err
		}
		return y.Await(f)
	}
}

// Gather waits for every Awaitable in aws to settle, returning their
// results in the same order, or the first failure encountered (by
// settlement order, not argument order — matching how a single combinator
// Future can only carry one failure). Each argument is reduced to a
// *Future via EnsureFuture, the same normalization RunUntilComplete uses,
// so a plain Awaitable (not just a *Future or *Task) gathers cleanly.
// Implemented as one combinator Future fed by N AddDoneCallback
// registrations, so a Gather call itself still only ever awaits a single
// Future at a time, preserving the "a computation yields one Future"
// contract.
func Gather(loop *Loop, aws ...Awaitable) ComputationFunc {
	return func(y *Yielder) (any, error) {
		if loop == nil {
			loop = y.Loop()
		}
		if len(aws) == 0 {
			return []any{}, nil
		}

		futures := make([]*Future, len(aws))
		for i, a := range aws {
			f, err := EnsureFuture(loop, a)
			if err != nil {
				return nil, err
			}
			futures[i] = f
		}

		combinator := NewFuture(loop)
		remaining := len(futures)
		results := make([]any, len(futures))

		for i, f := range futures {
			i, f := i, f
			f.AddDoneCallback(func(*Future) {
				if combinator.Done() {
					return
				}
				v, err := f.Result()
				if err != nil {
					_ = combinator.SetException(err)
					return
				}
				results[i] = v
				remaining--
				if remaining == 0 {
					_ = combinator.SetResult(results)
				}
			})
		}

		return y.Await(combinator)
	}
}

// WaitFor runs aw under a deadline: if it hasn't settled within timeout
// seconds, it's cancelled and WaitFor returns CancelledError. aw is
// reduced to a *Future via EnsureFuture, so any Awaitable works, not just
// a *Future or *Task. Composed per the pattern of scheduling the Future's
// own Cancel via CallLater, rather than any new primitive.
func WaitFor(loop *Loop, aw Awaitable, timeout float64) ComputationFunc {
	return func(y *Yielder) (any, error) {
		if loop == nil {
			loop = y.Loop()
		}
		f, err := EnsureFuture(loop, aw)
		if err != nil {
			return nil, err
		}

		timer, err := loop.CallLater(timeout, func(args ...any) {
			f.Cancel()
		})
		if err != nil {
			return nil, err
		}
		f.AddDoneCallback(func(*Future) { timer.Cancel() })

		return y.Await(f)
	}
}
