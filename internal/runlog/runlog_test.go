// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func openInMemoryBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRuns(base time.Time) []*RunRecord {
	return []*RunRecord{
		{ID: "a", Dataset: "batsmen", Status: StatusCompleted, StartTime: base, EndTime: base.Add(time.Minute),
			Entities: 3, Succeeded: 2, Failed: 1, APICalls: 7,
			Outputs: []OutputRecord{{Name: "batting", Path: "all_batsmen_stats.csv", Rows: 8, Written: true}}},
		{ID: "b", Dataset: "batsmen", Status: StatusFailed, StartTime: base.Add(time.Hour), Error: "seed file missing"},
		{ID: "c", Dataset: "bowlers", Status: StatusCompleted, StartTime: base.Add(30 * time.Minute)},
	}
}

func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	t.Run("latest is nil before any run", func(t *testing.T) {
		got, err := s.Latest(ctx, "batsmen")
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if got != nil {
			t.Errorf("Latest() = %+v, want nil", got)
		}
	})

	for _, r := range sampleRuns(base) {
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save(%s) error = %v", r.ID, err)
		}
	}

	t.Run("latest per dataset", func(t *testing.T) {
		got, err := s.Latest(ctx, "batsmen")
		if err != nil {
			t.Fatal(err)
		}
		if got == nil || got.ID != "b" || got.Error != "seed file missing" {
			t.Errorf("Latest(batsmen) = %+v", got)
		}
	})

	t.Run("list one dataset newest first", func(t *testing.T) {
		runs, err := s.List(ctx, "batsmen", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 2 || runs[0].ID != "b" || runs[1].ID != "a" {
			t.Fatalf("List(batsmen) = %v", ids(runs))
		}
		if runs[1].RowsWritten() != 8 || runs[1].APICalls != 7 || runs[1].Outputs[0].Path != "all_batsmen_stats.csv" {
			t.Errorf("round-tripped record = %+v", runs[1])
		}
		if runs[1].Duration() != time.Minute {
			t.Errorf("Duration() = %v", runs[1].Duration())
		}
	})

	t.Run("list all datasets with limit", func(t *testing.T) {
		runs, err := s.List(ctx, "", 2)
		if err != nil {
			t.Fatal(err)
		}
		if got := ids(runs); len(got) != 2 || got[0] != "b" || got[1] != "c" {
			t.Errorf("List(all, 2) = %v, want [b c]", got)
		}
	})

	t.Run("unknown dataset", func(t *testing.T) {
		runs, err := s.List(ctx, "venues", 0)
		if err != nil || len(runs) != 0 {
			t.Errorf("List(venues) = %v, %v", ids(runs), err)
		}
	})
}

func ids(runs []*RunRecord) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.ID
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestBadgerStore(t *testing.T) {
	testStore(t, NewBadgerStore(openInMemoryBadger(t)))
}

func TestBadgerStore_PersistsAcrossOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runs")
	ctx := context.Background()

	s, err := OpenBadgerStore(dir)
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	rec := &RunRecord{ID: "x", Dataset: "teams", Status: StatusCompleted, StartTime: time.Now().UTC()}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = OpenBadgerStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	got, err := s.Latest(ctx, "teams")
	if err != nil || got == nil || got.ID != "x" {
		t.Errorf("Latest() after reopen = %+v, %v", got, err)
	}
}

func TestBadgerStore_SaveRequiresIdentity(t *testing.T) {
	s := NewBadgerStore(openInMemoryBadger(t))
	if err := s.Save(context.Background(), &RunRecord{Dataset: "teams"}); err == nil {
		t.Error("Save() without id should fail")
	}
}

func TestMemoryStore_SaveCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	rec := &RunRecord{ID: "a", Dataset: "series", StartTime: time.Now(), Outputs: []OutputRecord{{Rows: 1}}}
	_ = s.Save(ctx, rec)

	rec.Outputs[0].Rows = 99
	got, _ := s.Latest(ctx, "series")
	if got.Outputs[0].Rows != 1 {
		t.Errorf("stored record was mutated through caller's slice")
	}
}
