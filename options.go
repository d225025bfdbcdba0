// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package aio

// loopOptions holds configuration options for Loop creation.
type loopOptions struct {
	exceptionHandler ExceptionHandler
	logger           Logger
	now              func() float64
}

// LoopOption configures a Loop instance.
type LoopOption interface {
	applyLoop(*loopOptions)
}

// loopOptionImpl implements LoopOption.
type loopOptionImpl struct {
	applyLoopFunc func(*loopOptions)
}

func (l *loopOptionImpl) applyLoop(opts *loopOptions) {
	l.applyLoopFunc(opts)
}

// WithExceptionHandler installs the hook invoked for failures raised by
// scheduled callbacks drained outside of RunUntilComplete. Defaults to
// defaultExceptionHandler.
func WithExceptionHandler(h ExceptionHandler) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) {
		opts.exceptionHandler = h
	}}
}

// WithLogger installs the structured logger used by the default exception
// handler. Defaults to a disabled Logger (zero overhead).
func WithLogger(l Logger) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) {
		opts.logger = l
	}}
}

// WithClock substitutes the monotonic clock backing Loop.Time, in seconds
// since an arbitrary epoch. Intended for deterministic tests; production
// callers should leave this unset.
func WithClock(now func() float64) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) {
		opts.now = now
	}}
}

// resolveLoopOptions applies LoopOption instances to loopOptions.
func resolveLoopOptions(opts []LoopOption) *loopOptions {
	cfg := &loopOptions{
		exceptionHandler: defaultExceptionHandler,
		logger:           disabledLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue // skip nil options gracefully
		}
		opt.applyLoop(cfg)
	}
	if cfg.now == nil {
		cfg.now = monotonicNow()
	}
	return cfg
}
