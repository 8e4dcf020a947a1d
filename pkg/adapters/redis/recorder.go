// Package redis keeps compile run history in Redis, shared between serve
// instances.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/espalier-dev/espalier/pkg/ports"
)

// Recorder implements ports.RunRecorder on a capped Redis list, newest run
// at the head.
type Recorder struct {
	client *backend.Client
	key    string
	limit  int64
}

type Option func(*Recorder)

// WithKey sets the list key.
func WithKey(key string) Option {
	return func(r *Recorder) {
		r.key = key
	}
}

// WithLimit caps how many runs are retained.
func WithLimit(limit int64) Option {
	return func(r *Recorder) {
		r.limit = limit
	}
}

// New creates a recorder with its own client.
func New(address, password string, db int, opts ...Option) *Recorder {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a recorder from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Recorder {
	r := &Recorder{
		client: client,
		key:    "espalier:runs",
		limit:  100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record pushes one finished run and trims the history to the limit.
func (r *Recorder) Record(ctx context.Context, rec ports.RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.LPush(ctx, r.key, data)
	pipe.LTrim(ctx, r.key, 0, r.limit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns up to n runs, newest first. n <= 0 returns the whole
// retained history.
func (r *Recorder) Recent(ctx context.Context, n int) ([]ports.RunRecord, error) {
	stop := int64(n) - 1
	if n <= 0 {
		stop = r.limit - 1
	}
	raw, err := r.client.LRange(ctx, r.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	out := make([]ports.RunRecord, 0, len(raw))
	for _, item := range raw {
		var rec ports.RunRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal run record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close closes the underlying client.
func (r *Recorder) Close() error {
	return r.client.Close()
}
