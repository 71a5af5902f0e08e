package reports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/interleave"
	"github.com/aretw0/interleave/internal/logging"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serves analysis reports, running Analyze only when no report is
// cached for the current digest of a model. Concurrent requests for the same
// model wait for a single analysis.
type Manager struct {
	loader ports.ModelLoader
	store  ports.ReportStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	opts    []interleave.Option
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL bounds how long a distributed lock survives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithAnalyzeOptions sets the options every analysis runs with.
func WithAnalyzeOptions(opts ...interleave.Option) Option {
	return func(m *Manager) {
		m.opts = append(m.opts, opts...)
	}
}

// NewManager creates a report manager over a model loader and a report store.
func NewManager(loader ports.ModelLoader, store ports.ReportStore, opts ...Option) *Manager {
	m := &Manager{
		loader:  loader,
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 5 * time.Minute,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Models lists the names known to the loader.
func (m *Manager) Models(ctx context.Context) ([]string, error) {
	return m.loader.ListModels(ctx)
}

// Model loads a model by name.
func (m *Manager) Model(ctx context.Context, name string) (*ports.Model, error) {
	return m.loader.LoadModel(ctx, name)
}

// Report returns the report of the named model. A cached report is reused
// unless refresh is set. The boolean reports whether the cache was hit.
func (m *Manager) Report(ctx context.Context, name string, refresh bool) (*interleave.Report, bool, error) {
	model, err := m.loader.LoadModel(ctx, name)
	if err != nil {
		return nil, false, err
	}
	key := reportKey(model)

	var report *interleave.Report
	var cached bool
	err = m.WithLock(ctx, key, func(ctx context.Context) error {
		if !refresh {
			found, err := m.store.Load(ctx, key)
			if err == nil {
				report, cached = found, true
				return nil
			}
			if !errors.Is(err, domain.ErrReportNotFound) {
				return fmt.Errorf("failed to load cached report: %w", err)
			}
		}

		m.logger.Info("analyzing model", "model", model.Name, "digest", model.Digest)
		opts := append([]interleave.Option{interleave.WithName(model.Name)}, m.opts...)
		fresh, err := interleave.Analyze(ctx, model.Set, opts...)
		if err != nil {
			return err
		}
		fresh.Digest = model.Digest

		if err := m.store.Save(ctx, key, fresh); err != nil {
			return fmt.Errorf("failed to cache report: %w", err)
		}
		report = fresh
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return report, cached, nil
}

// Invalidate drops the cached report of the current version of a model.
func (m *Manager) Invalidate(ctx context.Context, name string) error {
	model, err := m.loader.LoadModel(ctx, name)
	if err != nil {
		return err
	}
	key := reportKey(model)
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Delete(ctx, key)
	})
}

// Forget drops every cached report of the named model, whatever the digest
// it was computed for, and returns how many were dropped.
func (m *Manager) Forget(ctx context.Context, name string) (int, error) {
	keys, err := m.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list cached reports: %w", err)
	}
	dropped := 0
	for _, key := range keys {
		if key != name && !strings.HasPrefix(key, name+"@") {
			continue
		}
		err := m.WithLock(ctx, key, func(ctx context.Context) error {
			return m.store.Delete(ctx, key)
		})
		if err != nil {
			return dropped, err
		}
		dropped++
	}
	return dropped, nil
}

// Watch forgets the cached reports of every model the loader reports as
// changed, until ctx is done. The returned channel carries the name of each
// forgotten model and must be drained; it is closed when watching stops.
// Returns domain.ErrNotWatchable if the loader cannot report changes.
func (m *Manager) Watch(ctx context.Context) (<-chan string, error) {
	w, ok := m.loader.(ports.Watchable)
	if !ok {
		return nil, domain.ErrNotWatchable
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}

	forgotten := make(chan string)
	go func() {
		defer close(forgotten)
		for name := range changes {
			dropped, err := m.Forget(ctx, name)
			if err != nil {
				m.logger.Warn("failed to forget changed model", "model", name, "err", err)
				continue
			}
			m.logger.Info("model changed", "model", name, "dropped", dropped)
			select {
			case forgotten <- name:
			case <-ctx.Done():
				return
			}
		}
	}()
	return forgotten, nil
}

// Cached lists the keys of every cached report.
func (m *Manager) Cached(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// WithLock executes a function while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func reportKey(model *ports.Model) string {
	if model.Digest == "" {
		return model.Name
	}
	return model.Name + "@" + model.Digest
}

var _ ports.ReportService = (*Manager)(nil)
