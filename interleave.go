package interleave

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/interleave/internal/metrics"
	"github.com/aretw0/interleave/pkg/analysis"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/process"
	"github.com/prometheus/client_golang/prometheus"
)

// Option defines a functional option for configuring an analysis run.
type Option func(*options)

type options struct {
	name          string
	logger        *slog.Logger
	hooks         domain.LifecycleHooks
	maxStates     int
	maxIterations int
	registerer    prometheus.Registerer
	static        bool
	invariants    bool
}

// WithName labels the report, logs and metrics with a model name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks for exploration and fixpoint loops.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// WithMaxStates bounds the number of explored global states (0 = unbounded).
func WithMaxStates(n int) Option {
	return func(o *options) {
		o.maxStates = n
	}
}

// WithMaxIterations bounds every fixpoint loop of the analyses.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithMetrics records exploration and analysis metrics into reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithStaticAnalysis toggles the graph based concurrent space computation,
// which runs for every local state of every process. Enabled by default.
func WithStaticAnalysis(enabled bool) Option {
	return func(o *options) {
		o.static = enabled
	}
}

// WithInvariants toggles invariant derivation. Enabled by default.
func WithInvariants(enabled bool) Option {
	return func(o *options) {
		o.invariants = enabled
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		maxIterations: analysis.DefaultMaxIterations,
		static:        true,
		invariants:    true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

func (o *options) log() *slog.Logger {
	if o.name != "" {
		return o.logger.With("model", o.name)
	}
	return o.logger
}

func (o *options) analysisOptions(logger *slog.Logger, hooks domain.LifecycleHooks) []analysis.Option {
	return []analysis.Option{
		analysis.WithLogger(logger),
		analysis.WithMaxIterations(o.maxIterations),
		analysis.WithLifecycleHooks(hooks),
	}
}

// Analyze explores the state space of set and runs every analysis on it.
func Analyze(ctx context.Context, set *process.Set, opts ...Option) (report *Report, err error) {
	o := newOptions(opts)
	logger := o.log()

	hooks := o.hooks
	if o.registerer != nil {
		collector, regErr := metrics.New(o.registerer)
		if regErr != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", regErr)
		}
		hooks = collector.Hooks(hooks)
		start := time.Now()
		defer func() {
			states := 0
			if report != nil {
				states = report.States
			}
			collector.ObserveAnalysis(o.name, time.Since(start), states, err)
		}()
	}

	start := time.Now()
	space, err := set.StateSpace(ctx,
		process.WithLogger(logger),
		process.WithMaxStates(o.maxStates),
		process.WithLifecycleHooks(hooks),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to explore state space: %w", err)
	}

	analysisOpts := o.analysisOptions(logger, hooks)

	report = newReport(o.name, space)

	segments, err := analysis.NewMutualExclusion(space, analysisOpts...).Segments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to infer mutual exclusion: %w", err)
	}
	report.addSegments(segments)

	if o.invariants {
		if err := report.addInvariants(space); err != nil {
			return nil, fmt.Errorf("failed to derive invariants: %w", err)
		}
	}

	report.addGroups(analysis.ConcurrencyFromStateSpace(space).ConcurrentGroups())

	if o.static {
		analyzer := analysis.NewAnalyzer(set, analysisOpts...)
		for _, p := range set.Processes() {
			for _, node := range p.Nodes() {
				concurrent, err := analyzer.ConcurrentSpace(ctx, p, node)
				if err != nil {
					return nil, fmt.Errorf("failed to compute concurrent space of %s at %s: %w", p, node.Mnemonic(), err)
				}
				report.addConcurrentSpace(set, p, node, concurrent)
			}
		}
	}

	report.Duration = time.Since(start)
	logger.Info("analysis finished",
		"states", report.States,
		"segments", len(report.Segments),
		"invariants", len(report.Invariants),
		"duration", report.Duration,
	)
	return report, nil
}
