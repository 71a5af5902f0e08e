package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/ports"
	"github.com/aretw0/interleave/pkg/process"
)

// BuildFunc assembles a fresh process set.
type BuildFunc func() (*process.Set, error)

// Loader implements ports.ModelLoader over models registered in code.
type Loader struct {
	mu       sync.RWMutex
	models   map[string]BuildFunc
	versions map[string]int
}

// NewLoader creates an empty loader.
func NewLoader() *Loader {
	return &Loader{
		models:   make(map[string]BuildFunc),
		versions: make(map[string]int),
	}
}

// Register adds or replaces a model. Replacing a model changes its digest.
func (l *Loader) Register(name string, build BuildFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.models[name] = build
	l.versions[name]++
}

// ListModels returns the registered names in lexical order.
func (l *Loader) ListModels(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.models))
	for name := range l.models {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}

// LoadModel builds the named model.
func (l *Loader) LoadModel(ctx context.Context, name string) (*ports.Model, error) {
	l.mu.RLock()
	build, ok := l.models[name]
	version := l.versions[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrModelNotFound, name)
	}

	set, err := build()
	if err != nil {
		return nil, fmt.Errorf("failed to build model %s: %w", name, err)
	}
	return &ports.Model{
		Name:   name,
		Digest: fmt.Sprintf("memory:%s:%d", name, version),
		Set:    set,
	}, nil
}
