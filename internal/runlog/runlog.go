// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package runlog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Run status values.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// OutputRecord describes one output table of a run.
type OutputRecord struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Rows    int    `json:"rows"`
	Written bool   `json:"written"`
}

// RunRecord is the summary of one ingestion run.
type RunRecord struct {
	// ID is a UUID assigned when the run starts.
	ID      string `json:"id"`
	Dataset string `json:"dataset"`
	Status  string `json:"status"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`

	// Entities is the number of seed entities; every one of them ends up in
	// exactly one of Succeeded or Failed.
	Entities  int `json:"entities"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	// CacheHits counts (entity, output) lookups served from the response cache.
	CacheHits int `json:"cache_hits"`

	// APICalls counts HTTP requests issued, retries included.
	APICalls int64 `json:"api_calls"`

	Outputs []OutputRecord `json:"outputs"`

	// Error is set when the run aborted.
	Error string `json:"error,omitempty"`
}

// Duration returns the run's wall time.
func (r *RunRecord) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

// RowsWritten sums the rows of every written output.
func (r *RunRecord) RowsWritten() int {
	n := 0
	for _, o := range r.Outputs {
		if o.Written {
			n += o.Rows
		}
	}
	return n
}

// Store persists run records.
type Store interface {
	// Save stores a record. Saving the same run again overwrites it.
	Save(ctx context.Context, rec *RunRecord) error

	// Latest returns the most recent run of a dataset, or nil if none.
	Latest(ctx context.Context, dataset string) (*RunRecord, error)

	// List returns up to limit runs, newest first. An empty dataset lists
	// every dataset. A limit <= 0 means no limit.
	List(ctx context.Context, dataset string, limit int) ([]*RunRecord, error)
}

// MemoryStore keeps run records in memory. Used in tests and when the run
// log is disabled.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]RunRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]RunRecord)}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, rec *RunRecord) error {
	cp := *rec
	cp.Outputs = append([]OutputRecord(nil), rec.Outputs...)

	s.mu.Lock()
	s.runs[rec.ID] = cp
	s.mu.Unlock()
	return nil
}

// Latest implements Store.
func (s *MemoryStore) Latest(ctx context.Context, dataset string) (*RunRecord, error) {
	runs, err := s.List(ctx, dataset, 1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return runs[0], nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, dataset string, limit int) ([]*RunRecord, error) {
	s.mu.RLock()
	out := make([]*RunRecord, 0, len(s.runs))
	for _, r := range s.runs {
		if dataset != "" && r.Dataset != dataset {
			continue
		}
		cp := r
		cp.Outputs = append([]OutputRecord(nil), r.Outputs...)
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortNewestFirst(runs []*RunRecord) {
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].StartTime.Equal(runs[j].StartTime) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].StartTime.After(runs[j].StartTime)
	})
}
