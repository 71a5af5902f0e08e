package ports

import (
	"context"

	"github.com/aretw0/interleave/pkg/process"
)

// Model is a process set ready to be analyzed.
type Model struct {
	Name string
	// Digest changes whenever the definition the model was built from changes.
	Digest string
	Set    *process.Set
}

// ModelLoader retrieves models by name.
type ModelLoader interface {
	// ListModels returns the names of every available model.
	ListModels(ctx context.Context) ([]string, error)

	// LoadModel builds the named model.
	// Returns domain.ErrModelNotFound if there is no such model.
	LoadModel(ctx context.Context, name string) (*Model, error)
}

// Watchable is implemented by loaders that can notify about changed models.
type Watchable interface {
	// Watch returns a channel carrying the name of every model whose
	// definition changed. It is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
