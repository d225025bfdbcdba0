package aio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFuture_SetResult_ThenResult(t *testing.T) {
	loop := NewLoop()
	f := NewFuture(loop)

	require.False(t, f.Done())
	require.NoError(t, f.SetResult(42))
	require.True(t, f.Done())

	v, err := f.Result()
	require.NoError(t, err)
	require.Equal(t, 42, v)

	err = f.SetResult(43)
	var ise *InvalidStateError
	require.ErrorAs(t, err, &ise)
}

func TestFuture_Result_BeforeDone(t *testing.T) {
	f := NewFuture(NewLoop())
	_, err := f.Result()
	var ise *InvalidStateError
	require.ErrorAs(t, err, &ise)
}

func TestFuture_SetException(t *testing.T) {
	f := NewFuture(NewLoop())
	sentinel := errors.New("boom")

	require.NoError(t, f.SetException(sentinel))

	exc, err := f.Exception()
	require.NoError(t, err)
	require.Equal(t, sentinel, exc)

	_, err = f.Result()
	require.ErrorIs(t, err, sentinel)

	err = f.SetException(errors.New("again"))
	var ise *InvalidStateError
	require.ErrorAs(t, err, &ise)
}

func TestFuture_SetException_NilRejected(t *testing.T) {
	f := NewFuture(NewLoop())
	err := f.SetException(nil)
	var te *TypeError
	require.ErrorAs(t, err, &te)
	require.False(t, f.Done())
}

func TestFuture_Cancel(t *testing.T) {
	f := NewFuture(NewLoop())

	require.True(t, f.Cancel())
	require.True(t, f.Done())
	require.True(t, f.Cancelled())

	_, err := f.Result()
	require.ErrorIs(t, err, &CancelledError{})

	require.False(t, f.Cancel())
}

func TestFuture_DoneCallback_ScheduledNotSynchronous(t *testing.T) {
	loop := NewLoop()
	f := NewFuture(loop)

	var fired bool
	f.AddDoneCallback(func(*Future) {
		fired = true
		loop.Stop()
	})

	require.NoError(t, f.SetResult("x"))
	require.False(t, fired, "done callbacks must never run synchronously from SetResult")

	require.NoError(t, loop.RunForever())
	require.True(t, fired)
}

func TestFuture_AddDoneCallback_AlreadyDone(t *testing.T) {
	loop := NewLoop()
	f := NewFuture(loop)
	require.NoError(t, f.SetResult(1))

	var fired bool
	f.AddDoneCallback(func(*Future) {
		fired = true
		loop.Stop()
	})
	require.NoError(t, loop.RunForever())
	require.True(t, fired)
}

func TestFuture_DoneCallbacks_FireInAddOrder(t *testing.T) {
	loop := NewLoop()
	f := NewFuture(loop)

	var order []int
	f.AddDoneCallback(func(*Future) { order = append(order, 1) })
	f.AddDoneCallback(func(*Future) { order = append(order, 2) })
	f.AddDoneCallback(func(*Future) { order = append(order, 3); loop.Stop() })

	require.NoError(t, f.SetResult(nil))
	require.NoError(t, loop.RunForever())
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestFuture_RemoveDoneCallback(t *testing.T) {
	loop := NewLoop()
	f := NewFuture(loop)

	var calls int
	cb := func(*Future) { calls++ }
	f.AddDoneCallback(cb)
	f.AddDoneCallback(cb)
	f.AddDoneCallback(func(*Future) { loop.Stop() })

	removed := f.RemoveDoneCallback(cb)
	require.Equal(t, 2, removed)

	require.NoError(t, f.SetResult(nil))
	require.NoError(t, loop.RunForever())
	require.Equal(t, 0, calls)
}

func TestFuture_GetLoop(t *testing.T) {
	loop := NewLoop()
	f := NewFuture(loop)
	require.Same(t, loop, f.GetLoop())
}
