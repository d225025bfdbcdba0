package aio

// Structured logging for the runtime: uncaught callback failures are
// routed through github.com/joeycumines/logiface, using
// github.com/joeycumines/stumpy as the concrete JSON writer. A disabled
// Logger (the default) costs nothing beyond a level check.

import (
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logger type used throughout the package.
type Logger = *logiface.Logger[*stumpy.Event]

// NewLogger builds the default Logger: a stumpy-backed writer at Info
// level. Pass stumpy options (e.g. stumpy.WithWriter) to customize the
// destination.
func NewLogger(options ...stumpy.Option) Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(options...),
		stumpy.L.WithLevel(logiface.LevelInformational),
	)
}

// disabledLogger returns a Logger with logging compiled out at the level
// check, used when the caller never configures one.
func disabledLogger() Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(),
		stumpy.L.WithLevel(logiface.LevelDisabled),
	)
}

// ExceptionContext carries the failure routed to a Loop's ExceptionHandler.
type ExceptionContext struct {
	// Message describes what was being done when Err occurred; the Loop
	// reports a panicking callback as "callback panicked".
	Message string
	// Err is the failure itself.
	Err error
}

// ExceptionHandler receives failures from callbacks drained by the Loop
// that aren't otherwise delivered to a caller (i.e. not RunUntilComplete's
// own wrapped Future, which raises directly to its caller instead).
type ExceptionHandler func(l *Loop, ctx ExceptionContext)

// defaultExceptionHandler logs the failure via the Loop's Logger,
// rate-limited per distinct message so a misbehaving callback that fails
// every tick can't flood the log.
func defaultExceptionHandler(l *Loop, ctx ExceptionContext) {
	if _, allow := l.exceptionRate.Allow(ctx.Message); !allow {
		return
	}
	l.logger.Err().
		Err(ctx.Err).
		Str("message", ctx.Message).
		Time("time", time.Now()).
		Log("aio: unhandled exception in callback")
}
