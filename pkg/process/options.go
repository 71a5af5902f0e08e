package process

import (
	"io"
	"log/slog"

	"github.com/aretw0/interleave/pkg/domain"
)

// Option configures state space exploration.
type Option func(*explorer)

// WithMaxStates aborts exploration with domain.ErrStateLimit once more than
// n global states have been discovered. Zero means unlimited.
func WithMaxStates(n int) Option {
	return func(e *explorer) {
		e.maxStates = n
	}
}

// WithLogger sets the logger used to report exploration progress.
func WithLogger(logger *slog.Logger) Option {
	return func(e *explorer) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *explorer) {
		e.hooks = hooks
	}
}

// WithProgressInterval logs progress every n discovered states.
func WithProgressInterval(n int) Option {
	return func(e *explorer) {
		e.progress = n
	}
}

func newExplorer(opts []Option) *explorer {
	e := &explorer{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		progress: 10000,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
