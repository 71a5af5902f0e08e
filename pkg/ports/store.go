package ports

import (
	"context"

	"github.com/aretw0/interleave"
)

// ReportStore persists analysis reports so repeated requests for an unchanged
// model are served without exploring its state space again.
type ReportStore interface {
	// Save persists the report under key (typically the model digest).
	Save(ctx context.Context, key string, report *interleave.Report) error

	// Load retrieves a report.
	// Returns domain.ErrReportNotFound if there is no report under key.
	Load(ctx context.Context, key string) (*interleave.Report, error)

	// Delete removes a report. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys of the stored reports.
	List(ctx context.Context) ([]string, error)
}
