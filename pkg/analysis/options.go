package analysis

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/interleave/pkg/domain"
)

// DefaultMaxIterations bounds every fixpoint loop unless overridden.
const DefaultMaxIterations = 1_000_000

// Option configures an analysis.
type Option func(*config)

type config struct {
	maxIterations int
	logger        *slog.Logger
	hooks         domain.LifecycleHooks
}

// WithMaxIterations sets the iteration ceiling of fixpoint loops.
// Zero disables the ceiling.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		c.maxIterations = n
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		maxIterations: DefaultMaxIterations,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// guard counts the iterations of one fixpoint loop.
type guard struct {
	cfg   *config
	loop  string
	count int
}

func (c *config) guard(loop string) *guard {
	return &guard{cfg: c, loop: loop}
}

func (g *guard) next(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.count++
	if g.cfg.maxIterations > 0 && g.count > g.cfg.maxIterations {
		g.cfg.logger.Error("fixpoint did not converge", "loop", g.loop, "iterations", g.count)
		return &domain.NonTerminationError{Loop: g.loop, Iterations: g.cfg.maxIterations}
	}
	return nil
}

func (g *guard) done(ctx context.Context) {
	g.cfg.logger.Debug("fixpoint reached", "loop", g.loop, "iterations", g.count)
	if g.cfg.hooks.OnFixpoint != nil {
		g.cfg.hooks.OnFixpoint(ctx, &domain.FixpointEvent{
			Type:       domain.EventFixpoint,
			Loop:       g.loop,
			Iterations: g.count,
		})
	}
}
