package aio

import (
	"errors"
	"fmt"
)

// InvalidStateError is raised when a Future or Task operation is called at
// the wrong point in its lifecycle: Result/Exception before done, a second
// SetResult/SetException after done, or an Await on a Future whose loop
// has been closed.
type InvalidStateError struct {
	Message string
}

// Error implements the error interface.
func (e *InvalidStateError) Error() string {
	if e.Message == "" {
		return "aio: invalid state"
	}
	return "aio: invalid state: " + e.Message
}

// Is reports whether target is an *InvalidStateError, regardless of
// Message.
func (e *InvalidStateError) Is(target error) bool {
	var i *InvalidStateError
	return errors.As(target, &i)
}

// CancelledError signals that the awaited operation was cancelled. It is
// returned to computations awaiting a cancelled Future, and stored as the
// failure of a cancelled Future or Task.
type CancelledError struct {
	Message string
}

// Error implements the error interface.
func (e *CancelledError) Error() string {
	if e.Message == "" {
		return "aio: cancelled"
	}
	return "aio: cancelled: " + e.Message
}

// Is reports whether target is a *CancelledError, regardless of Message.
// This lets callers write errors.Is(err, &aio.CancelledError{}).
func (e *CancelledError) Is(target error) bool {
	var c *CancelledError
	return errors.As(target, &c)
}

// TypeError is raised when SetException receives a non-failure value, or
// EnsureFuture/Run receives something that isn't an Awaitable/Computation.
type TypeError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	if e.Message == "" {
		return "aio: type error"
	}
	return "aio: type error: " + e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *TypeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *TypeError, regardless of Message/Cause.
func (e *TypeError) Is(target error) bool {
	var t *TypeError
	return errors.As(target, &t)
}

// RuntimeError is raised for closed-loop rejections, reentrant RunForever
// calls, RunUntilComplete returning before its Future completed, and
// GetRunningLoop with no loop running.
type RuntimeError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Message == "" {
		return "aio: runtime error"
	}
	return "aio: runtime error: " + e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *RuntimeError, regardless of
// Message/Cause.
func (e *RuntimeError) Is(target error) bool {
	var r *RuntimeError
	return errors.As(target, &r)
}

// WrapError wraps an error with a message, preserving it as the cause so
// that errors.Is(result, cause) remains true.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
