// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package main

import (
	"fmt"
	"time"

	"github.com/tomtom215/crease/internal/ingest"
	"github.com/tomtom215/crease/internal/runlog"
)

// progressReporter prints one colored line per entity and a run summary.
type progressReporter struct {
	a *app
}

var _ ingest.Reporter = progressReporter{}

// RunStarted implements ingest.Reporter.
func (r progressReporter) RunStarted(dataset string, entities int) {
	r.a.heading.Fprintf(r.a.out, "==> %s", dataset)
	r.a.printf(" (%d entities)\n", entities)
}

// EntityDone implements ingest.Reporter.
func (r progressReporter) EntityDone(ev ingest.EntityEvent) {
	label := ev.Entity.Name
	if label == "" {
		label = ev.Entity.ID
	}
	prefix := fmt.Sprintf("  [%d/%d] %s", ev.Index+1, ev.Total, label)

	if ev.Err != nil {
		r.a.bad.Fprintf(r.a.out, "%s: %v\n", prefix, ev.Err)
		return
	}
	r.a.good.Fprint(r.a.out, prefix)
	r.a.printf(" %d rows", ev.Rows)
	if ev.CacheHits > 0 {
		r.a.faint.Fprint(r.a.out, " (cached)")
	}
	r.a.printf("\n")
}

// RunFinished implements ingest.Reporter.
func (r progressReporter) RunFinished(stats *ingest.RunStats) {
	status := r.a.good
	switch stats.Status {
	case runlog.StatusFailed:
		status = r.a.bad
	case runlog.StatusCancelled:
		status = r.a.warn
	}
	status.Fprintf(r.a.out, "  %s", stats.Status)
	r.a.printf(" in %s: %d/%d entities succeeded, %d cache hits, %d API calls\n",
		stats.Duration().Round(time.Millisecond), stats.Succeeded, stats.Entities, stats.CacheHits, stats.APICalls)

	for _, o := range stats.Outputs {
		if o.Written {
			r.a.printf("    %s: %d rows -> %s\n", o.Name, o.Rows, o.Path)
			continue
		}
		r.a.warn.Fprintf(r.a.out, "    %s: not written, existing file kept\n", o.Name)
	}
	if stats.Error != "" {
		r.a.bad.Fprintf(r.a.out, "  error: %s\n", stats.Error)
	}
}
