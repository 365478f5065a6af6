package wikidump

import (
	"context"
	"time"
)

// Run records one pass over a dump whose output went to a persistent store.
type Run struct {
	ID         string      `json:"id"`
	Source     string      `json:"source"`
	Terms      FilterTerms `json:"terms"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
	Written    int64       `json:"written"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Source == "" {
		return Errorf(EINVALID, "run source required")
	}
	return nil
}

// RunService reads committed runs and their documents.
type RunService interface {
	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindDocuments retrieves documents matching the filter in sequence order.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Source *string `json:"source"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	RunID *string `json:"runId"`
	Title *string `json:"title"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
