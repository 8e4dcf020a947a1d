package ports

import (
	"context"
	"time"
)

// RunRecord summarizes one compile run for the history surfaces (watch
// status lines, serve API, MCP tools).
type RunRecord struct {
	ID          string        `json:"id"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Files       int           `json:"files"`
	Diagnostics int           `json:"diagnostics"`
	DryRun      bool          `json:"dry_run,omitempty"`
	Err         string        `json:"err,omitempty"`
}

// RunRecorder persists compile-run history. Implementations must keep
// Recent ordered newest-first.
type RunRecorder interface {
	// Record appends one run to the history.
	Record(ctx context.Context, rec RunRecord) error

	// Recent returns up to n of the latest runs, newest first.
	Recent(ctx context.Context, n int) ([]RunRecord, error)
}
