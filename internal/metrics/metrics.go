// Package metrics exposes Prometheus collectors for state space exploration
// and analysis runs.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/interleave/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "interleave"

// Collector groups every metric recorded by an analysis.
type Collector struct {
	StatesDiscovered   prometheus.Counter
	TransitionsTotal   *prometheus.CounterVec
	FixpointIterations *prometheus.HistogramVec
	AnalysisDuration   *prometheus.HistogramVec
	AnalysesTotal      *prometheus.CounterVec
	StateSpaceSize     *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg. Collectors already
// registered with reg are reused, so New is safe to call more than once.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		StatesDiscovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "exploration",
			Name:      "states_total",
			Help:      "Global states discovered during exploration",
		}),
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "exploration",
			Name:      "transitions_total",
			Help:      "Enabled global transitions by process",
		}, []string{"process"}),
		FixpointIterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "fixpoint_iterations",
			Help:      "Iterations needed for a fixpoint loop to converge",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"loop"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Wall time of complete analysis runs",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		}, []string{"model"}),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Analysis runs by model and status",
		}, []string{"model", "status"}),
		StateSpaceSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "state_space_size",
			Help:      "Reachable global states of the last analysis of a model",
		}, []string{"model"}),
	}

	var err error
	if c.StatesDiscovered, err = register(reg, c.StatesDiscovered); err != nil {
		return nil, err
	}
	if c.TransitionsTotal, err = register(reg, c.TransitionsTotal); err != nil {
		return nil, err
	}
	if c.FixpointIterations, err = register(reg, c.FixpointIterations); err != nil {
		return nil, err
	}
	if c.AnalysisDuration, err = register(reg, c.AnalysisDuration); err != nil {
		return nil, err
	}
	if c.AnalysesTotal, err = register(reg, c.AnalysesTotal); err != nil {
		return nil, err
	}
	if c.StateSpaceSize, err = register(reg, c.StateSpaceSize); err != nil {
		return nil, err
	}
	return c, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Hooks returns lifecycle hooks recording into c and then calling next.
func (c *Collector) Hooks(next domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnState: func(ctx context.Context, e *domain.StateEvent) {
			c.StatesDiscovered.Inc()
			if next.OnState != nil {
				next.OnState(ctx, e)
			}
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			c.TransitionsTotal.WithLabelValues(e.Process).Inc()
			if next.OnTransition != nil {
				next.OnTransition(ctx, e)
			}
		},
		OnFixpoint: func(ctx context.Context, e *domain.FixpointEvent) {
			c.FixpointIterations.WithLabelValues(loopKind(e.Loop)).Observe(float64(e.Iterations))
			if next.OnFixpoint != nil {
				next.OnFixpoint(ctx, e)
			}
		},
	}
}

// ObserveAnalysis records the outcome of one analysis run.
func (c *Collector) ObserveAnalysis(model string, elapsed time.Duration, states int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.AnalysesTotal.WithLabelValues(model, status).Inc()
	c.AnalysisDuration.WithLabelValues(model).Observe(elapsed.Seconds())
	if err == nil {
		c.StateSpaceSize.WithLabelValues(model).Set(float64(states))
	}
}

// loopKind strips the per-process suffix from loop names to bound label cardinality.
func loopKind(loop string) string {
	for _, kind := range []string{
		"mutual exclusion propagation",
		"mutual exclusion pruning",
		"concurrent space",
	} {
		if len(loop) >= len(kind) && loop[:len(kind)] == kind {
			return kind
		}
	}
	return loop
}
