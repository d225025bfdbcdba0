package aio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// Scenario S1 — Ordering: call_later(-1e-4, a), call_later(2e-4, b),
// call_later(3e-4, stop). Expected list ["first", "second"].
func TestScenario_S1_Ordering(t *testing.T) {
	loop := NewLoop()
	var list []string

	_, err := loop.CallLater(-1e-4, func(args ...any) { list = append(list, "first") })
	require.NoError(t, err)
	_, err = loop.CallLater(2e-4, func(args ...any) { list = append(list, "second") })
	require.NoError(t, err)
	_, err = loop.CallLater(3e-4, func(args ...any) { loop.Stop() })
	require.NoError(t, err)

	require.NoError(t, loop.RunForever())
	require.Equal(t, []string{"first", "second"}, list)
}

// Scenario S2 — Callback args: call_soon(list.append, L, 'first'),
// call_soon(stop) yields L == ['first'].
func TestScenario_S2_CallbackArgs(t *testing.T) {
	loop := NewLoop()
	var list []any
	appendArg := func(args ...any) { list = append(list, args[0]) }

	_, err := loop.CallSoon(appendArg, "first")
	require.NoError(t, err)
	_, err = loop.CallSoon(func(args ...any) { loop.Stop() })
	require.NoError(t, err)

	require.NoError(t, loop.RunForever())
	require.Equal(t, []any{"first"}, list)
}

// Scenario S3 — Run-until-complete: schedule call_soon(F.set_result, 9),
// then run_until_complete(F) == 9.
func TestScenario_S3_RunUntilComplete(t *testing.T) {
	loop := NewLoop()
	f := NewFuture(loop)

	_, err := loop.CallSoon(func(args ...any) { _ = f.SetResult(9) })
	require.NoError(t, err)

	result, err := loop.RunUntilComplete(f)
	require.NoError(t, err)
	require.Equal(t, 9, result)
}

// Scenario S4 — Exception propagation: a computation that fails with a
// division-by-zero-shaped error; run_until_complete(Task(c)) raises it.
func TestScenario_S4_ExceptionPropagation(t *testing.T) {
	loop := NewLoop()
	divByZero := errors.New("division by zero")
	task := NewTask(loop, func(y *Yielder) (any, error) {
		return nil, divByZero
	})

	_, err := loop.RunUntilComplete(task)
	require.ErrorIs(t, err, divByZero)
}

// Scenario S5 — Cancellation of a task blocking on a future: call_soon
// (T.cancel); run_until_complete(T) raises Cancelled; the inner Future is
// cancelled.
func TestScenario_S5_CancelTaskBlockingOnFuture(t *testing.T) {
	loop := NewLoop()
	var inner *Future
	task := NewTask(loop, func(y *Yielder) (any, error) {
		inner = NewFuture(loop)
		return y.Await(inner)
	})

	_, err := loop.CallSoon(func(args ...any) { task.Cancel() })
	require.NoError(t, err)

	_, err = loop.RunUntilComplete(task)
	require.ErrorIs(t, err, &CancelledError{})
	require.True(t, inner.Cancelled())
}

// Scenario S6 — Stop drains: call_soon(stop), call_soon(L.append,'first'),
// call_later(0, L.append,'second'); after run_forever, L == ['first','second'].
func TestScenario_S6_StopDrainsCurrentTick(t *testing.T) {
	loop := NewLoop()
	var list []string

	_, err := loop.CallSoon(func(args ...any) { loop.Stop() })
	require.NoError(t, err)
	_, err = loop.CallSoon(func(args ...any) { list = append(list, "first") })
	require.NoError(t, err)
	_, err = loop.CallLater(0, func(args ...any) { list = append(list, "second") })
	require.NoError(t, err)

	require.NoError(t, loop.RunForever())
	require.Equal(t, []string{"first", "second"}, list)
}

// Scenario S7 — Closed loop rejects scheduling: after close(), call_soon
// raises RuntimeError.
func TestScenario_S7_ClosedLoopRejectsScheduling(t *testing.T) {
	loop := NewLoop()
	require.NoError(t, loop.Close())

	_, err := loop.CallSoon(func(args ...any) {})
	var rte *RuntimeError
	require.ErrorAs(t, err, &rte)
}
