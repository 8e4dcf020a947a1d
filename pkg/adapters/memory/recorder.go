package memory

import (
	"context"
	"sync"

	"github.com/espalier-dev/espalier/pkg/ports"
)

// Recorder implements ports.RunRecorder in memory, keeping the most recent
// runs up to a fixed capacity. Safe for concurrent use.
type Recorder struct {
	mu   sync.RWMutex
	runs []ports.RunRecord
	cap  int
}

// NewRecorder creates a recorder holding up to capacity runs; zero or
// negative means 100.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 100
	}
	return &Recorder{cap: capacity}
}

// Record stores one finished run, evicting the oldest beyond capacity.
func (r *Recorder) Record(ctx context.Context, rec ports.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, rec)
	if len(r.runs) > r.cap {
		r.runs = r.runs[len(r.runs)-r.cap:]
	}
	return nil
}

// Recent returns up to n runs, newest first.
func (r *Recorder) Recent(ctx context.Context, n int) ([]ports.RunRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n <= 0 || n > len(r.runs) {
		n = len(r.runs)
	}
	out := make([]ports.RunRecord, 0, n)
	for i := len(r.runs) - 1; i >= len(r.runs)-n; i-- {
		out = append(out, r.runs[i])
	}
	return out, nil
}
