// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/crease/internal/cache"
	"github.com/tomtom215/crease/internal/ingest"
	"github.com/tomtom215/crease/internal/logging"
	"github.com/tomtom215/crease/internal/runlog"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show response cache sizes and the latest run of each dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.printCacheStatus(cache.NewFileCache(a.cfg.Cache.Dir)); err != nil {
				return err
			}
			a.printf("\n")

			runs := a.openRunLog()
			if runs == nil {
				a.faint.Fprintln(a.out, "Run log disabled or unavailable")
				return nil
			}
			defer func() {
				if err := runs.Close(); err != nil {
					logging.Warn().Err(err).Msg("Error closing run log")
				}
			}()
			return a.printRunStatus(cmd.Context(), runs)
		},
	}
}

func (a *app) printCacheStatus(fc *cache.FileCache) error {
	stats, err := fc.NamespaceStats()
	if err != nil {
		return err
	}
	a.heading.Fprintf(a.out, "Response cache (%s)\n", fc.Dir())
	if len(stats) == 0 {
		a.faint.Fprintln(a.out, "  empty")
		return nil
	}

	t := newTable(a.out, "NAMESPACE", "ENTRIES", "SIZE")
	var entries int
	var bytes int64
	for _, st := range stats {
		t.row(st.Namespace, strconv.Itoa(st.Entries), humanBytes(st.Bytes))
		entries += st.Entries
		bytes += st.Bytes
	}
	t.row("total", strconv.Itoa(entries), humanBytes(bytes))
	return t.flush()
}

func (a *app) printRunStatus(ctx context.Context, runs runlog.Store) error {
	a.heading.Fprintln(a.out, "Latest runs")
	t := newTable(a.out, "DATASET", "STATUS", "FINISHED", "ENTITIES", "FAILED", "ROWS", "API CALLS")
	for _, name := range ingest.Names() {
		rec, err := runs.Latest(ctx, name)
		if err != nil {
			return fmt.Errorf("latest run of %s: %w", name, err)
		}
		if rec == nil {
			t.row(name, "never", "-", "-", "-", "-", "-")
			continue
		}
		t.row(name,
			rec.Status,
			rec.EndTime.Local().Format(time.DateTime),
			strconv.Itoa(rec.Entities),
			strconv.Itoa(rec.Failed),
			strconv.Itoa(rec.RowsWritten()),
			strconv.FormatInt(rec.APICalls, 10),
		)
	}
	return t.flush()
}
