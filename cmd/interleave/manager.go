package main

import (
	"context"
	"fmt"

	"github.com/aretw0/interleave"
	"github.com/aretw0/interleave/pkg/adapters/memory"
	"github.com/aretw0/interleave/pkg/adapters/modelfile"
	"github.com/aretw0/interleave/pkg/adapters/redis"
	"github.com/aretw0/interleave/pkg/reports"
	"github.com/prometheus/client_golang/prometheus"
)

// newManager wires the report manager used by the long running commands.
// Reports are cached in Redis when INTERLEAVE_REDIS_ADDR is set, which also
// lets replicas share the analysis lock; otherwise everything stays in memory.
func newManager(reg prometheus.Registerer) (*reports.Manager, func() error, error) {
	loader, err := modelfile.NewLoader(cfg.ModelsDir)
	if err != nil {
		return nil, nil, err
	}
	opts := []reports.Option{
		reports.WithLogger(logger),
		reports.WithAnalyzeOptions(analyzeOptions(interleave.WithMetrics(reg))...),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, reports.WithLockTTL(cfg.Timeout))
	}

	if cfg.RedisAddr == "" {
		opts = append(opts, reports.WithLocker(memory.NewLocker()))
		return reports.NewManager(loader, memory.NewStore(), opts...), func() error { return nil }, nil
	}

	store := redis.New(cfg.RedisAddr, "", 0, redis.WithTTL(cfg.ReportTTL))
	opts = append(opts, reports.WithLocker(redis.NewLocker(store.Client(), "interleave:lock:")))
	logger.Info("caching reports in redis", "addr", cfg.RedisAddr, "ttl", cfg.ReportTTL)
	return reports.NewManager(loader, store, opts...), store.Close, nil
}

// watchModels forgets cached reports as model files change, until ctx is done.
func watchModels(ctx context.Context, mgr *reports.Manager) error {
	forgotten, err := mgr.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch models: %w", err)
	}
	logger.Info("watching models", "dir", cfg.ModelsDir)
	go func() {
		for name := range forgotten {
			logger.Debug("cached reports dropped", "model", name)
		}
	}()
	return nil
}
