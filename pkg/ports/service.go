package ports

import (
	"context"

	"github.com/aretw0/interleave"
)

// ReportService is what the outer adapters (HTTP, MCP) need from the report
// manager.
type ReportService interface {
	Models(ctx context.Context) ([]string, error)
	Model(ctx context.Context, name string) (*Model, error)
	// Report returns the report of a model and whether it came from the cache.
	Report(ctx context.Context, name string, refresh bool) (*interleave.Report, bool, error)
	Invalidate(ctx context.Context, name string) error
}
