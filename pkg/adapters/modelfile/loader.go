package modelfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/ports"
	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
)

// Loader implements ports.ModelLoader over a Loam repository of model
// documents. A model is named after its document id without the extension.
type Loader struct {
	Dir   string
	Repo  core.Repository
	Typed *loam.TypedRepository[modelHeader]
}

// NewLoader opens dir as a read-only Loam repository.
// Extra options are applied after the defaults.
func NewLoader(dir string, opts ...loam.Option) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps JSON and YAML numbers the same type, and the loader
	// never writes, so the repository is opened read-only.
	opts = append([]loam.Option{
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	}, opts...)
	repo, err := loam.Init(absPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return &Loader{
		Dir:   absPath,
		Repo:  repo,
		Typed: loam.NewTypedRepository[modelHeader](repo),
	}, nil
}

// ListModels returns the model names found in the repository, sorted.
// Documents that declare no process, and documents in subdirectories,
// are skipped.
func (l *Loader) ListModels(ctx context.Context) ([]string, error) {
	index, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// index maps model names to the ids of their documents.
func (l *Loader) index(ctx context.Context) (map[string]string, error) {
	docs, err := l.Typed.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	for _, doc := range docs {
		if ext := filepath.Ext(doc.ID); ext != "" && !supported(doc.ID) {
			continue
		}
		if len(doc.Data.Processes) == 0 {
			continue
		}
		name := trimExtension(doc.ID)
		if strings.Contains(name, "/") {
			continue // only top-level documents are addressable by name
		}
		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: collision detected: model '%s' is defined in both '%s' and '%s'",
				domain.ErrModel, name, existing, doc.ID)
		}
		seen[name] = doc.ID
	}
	return seen, nil
}

// LoadModel reads, parses and builds the named model.
func (l *Loader) LoadModel(ctx context.Context, name string) (*ports.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("%w: invalid model name %q", domain.ErrModelNotFound, name)
	}
	index, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := index[name]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrModelNotFound, name)
	}

	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
	}
	model, err := build(doc.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	model.Name = name
	return model, nil
}

// Watch implements ports.Watchable. The channel carries the name of every
// model whose document changed and is closed when ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Typed.Watch(ctx, "**/*.{json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

// LoadFile reads a single model file outside of any repository. The model
// name falls back to the file name when the document does not declare one.
func LoadFile(path string) (*ports.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := unmarshal(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	model, err := build(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if model.Name == "" {
		model.Name = trimExtension(filepath.Base(path))
	}
	return model, nil
}

func build(raw map[string]any) (*ports.Model, error) {
	mf, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	set, err := mf.Build()
	if err != nil {
		return nil, err
	}
	digest, err := Digest(raw)
	if err != nil {
		return nil, err
	}
	return &ports.Model{Name: mf.Name, Digest: digest, Set: set}, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

var (
	_ ports.ModelLoader = (*Loader)(nil)
	_ ports.Watchable   = (*Loader)(nil)
)
