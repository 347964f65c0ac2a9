// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tomtom215/crease/internal/cache"
	"github.com/tomtom215/crease/internal/config"
	"github.com/tomtom215/crease/internal/cricbuzz"
	"github.com/tomtom215/crease/internal/logging"
	"github.com/tomtom215/crease/internal/metrics"
	"github.com/tomtom215/crease/internal/runlog"
	"github.com/tomtom215/crease/internal/seed"
	"github.com/tomtom215/crease/internal/store"
)

// RunStats summarizes one run. It is the record saved to the run log.
type RunStats = runlog.RunRecord

// Orchestrator runs datasets: seed, cache or fetch, parse, consolidate,
// write. All run state lives on the instance; separate orchestrators share
// nothing but the cache directory.
type Orchestrator struct {
	fetcher   cricbuzz.Fetcher
	responses *cache.FileCache
	reporter  Reporter
	runs      runlog.Store
	workers   int

	// breakerWait is how long an entity waits before trying again after an
	// open-circuit rejection. Zero when the breaker is disabled.
	breakerWait time.Duration

	// apiCalls counts HTTP requests issued by this orchestrator, retries
	// included. Incremented by the retry policy's attempt hook.
	apiCalls atomic.Int64

	reportMu sync.Mutex
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithReporter sets the progress reporter. Default: NopReporter.
func WithReporter(r Reporter) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithRunLog records every run in s.
func WithRunLog(s runlog.Store) Option {
	return func(o *Orchestrator) { o.runs = s }
}

// WithWorkers sets the number of entities processed concurrently.
// Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// New creates an Orchestrator. base performs single HTTP requests (usually a
// *cricbuzz.Client); the orchestrator wraps it in the retry policy and
// circuit breaker configured by api and counts every attempt.
func New(api *config.APIConfig, base cricbuzz.Fetcher, responses *cache.FileCache, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		responses: responses,
		reporter:  NopReporter{},
		workers:   1,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.fetcher = cricbuzz.NewPipeline(api, base, func() { o.apiCalls.Add(1) })
	if api.Breaker.Enabled {
		o.breakerWait = api.Breaker.Timeout
	}
	return o
}

// APICalls returns the number of HTTP requests issued so far.
func (o *Orchestrator) APICalls() int64 {
	return o.apiCalls.Load()
}

// entityResult holds what one entity contributed to each output.
type entityResult struct {
	rows      [][][]string // per output
	cacheHits int
	err       error
}

// Run executes a dataset.
//
// A seed error aborts the run before any request. Per-entity failures are
// logged and counted; the run continues. Outputs with at least one row fully
// replace their CSV file; outputs with none are not written. If ctx is
// cancelled, nothing is written and ctx.Err() is returned.
func (o *Orchestrator) Run(ctx context.Context, ds Dataset) (stats *RunStats, err error) {
	stats = &RunStats{
		ID:        logging.GenerateRunID(),
		Dataset:   ds.Name,
		StartTime: time.Now().UTC(),
	}
	ctx = logging.ContextWithRunID(ctx, stats.ID)
	log := logging.Ctx(ctx).With().Str("dataset", ds.Name).Logger()
	callsAtStart := o.apiCalls.Load()

	defer func() {
		stats.EndTime = time.Now().UTC()
		stats.APICalls = o.apiCalls.Load() - callsAtStart
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			stats.Status = runlog.StatusCancelled
		case err != nil:
			stats.Status = runlog.StatusFailed
		default:
			stats.Status = runlog.StatusCompleted
		}
		if err != nil {
			stats.Error = err.Error()
		}
		metrics.RecordIngestRun(ds.Name, stats.Duration(), err)
		o.record(ctx, stats)
		o.report(func(r Reporter) { r.RunFinished(stats) })
	}()

	entities, err := ds.Seed.Load()
	if err != nil {
		log.Error().Err(err).Str("seed", ds.Seed.String()).Msg("Failed to load seed")
		return stats, fmt.Errorf("load seed for %s: %w", ds.Name, err)
	}
	stats.Entities = len(entities)
	for _, out := range ds.Outputs {
		stats.Outputs = append(stats.Outputs, runlog.OutputRecord{Name: out.Name, Path: out.Path})
	}

	log.Info().Int("entities", len(entities)).Dur("pause", ds.Pause).Int("workers", o.workers).Msg("Starting ingestion run")
	o.report(func(r Reporter) { r.RunStarted(ds.Name, len(entities)) })

	results := o.process(ctx, ds, entities, newPaceLimiter(ds.Pause))

	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Warn().Msg("Run cancelled, discarding accumulated rows")
		return stats, ctxErr
	}

	merged := make([][][]string, len(ds.Outputs))
	for i, res := range results {
		stats.CacheHits += res.cacheHits
		if res.err != nil {
			stats.Failed++
			metrics.IngestEntities.WithLabelValues(ds.Name, "failed").Inc()
			continue
		}
		stats.Succeeded++
		empty := true
		for j := range ds.Outputs {
			merged[j] = append(merged[j], res.rows[j]...)
			if len(res.rows[j]) > 0 {
				empty = false
			}
		}
		if empty {
			metrics.IngestEntities.WithLabelValues(ds.Name, "empty").Inc()
			log.Debug().Str("id", entities[i].ID).Msg("Entity produced no rows")
		} else {
			metrics.IngestEntities.WithLabelValues(ds.Name, "ok").Inc()
		}
	}

	for j, out := range ds.Outputs {
		rows := merged[j]
		stats.Outputs[j].Rows = len(rows)
		if len(rows) == 0 {
			log.Warn().Str("output", out.Name).Str("path", out.Path).Msg("No rows collected, existing file left untouched")
			continue
		}
		if err := store.WriteCSV(out.Path, out.Parser.Columns(), rows); err != nil {
			return stats, fmt.Errorf("write %s: %w", out.Path, err)
		}
		stats.Outputs[j].Written = true
		metrics.IngestRows.WithLabelValues(ds.Name, out.Name).Add(float64(len(rows)))
		log.Info().Str("output", out.Name).Str("path", out.Path).Int("rows", len(rows)).Msg("Wrote consolidated table")
	}

	log.Info().
		Int("succeeded", stats.Succeeded).
		Int("failed", stats.Failed).
		Int("cache_hits", stats.CacheHits).
		Int64("api_calls", o.apiCalls.Load()-callsAtStart).
		Msg("Ingestion run complete")
	return stats, nil
}

// process handles every entity, sequentially or on a bounded worker pool.
// Results are indexed by seed position so the merge order never depends on
// scheduling.
func (o *Orchestrator) process(ctx context.Context, ds Dataset, entities []seed.Entity, pace *rate.Limiter) []entityResult {
	results := make([]entityResult, len(entities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range entities {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := o.processEntity(gctx, ds, entities[i], pace)
			results[i] = res
			o.report(func(r Reporter) {
				r.EntityDone(EntityEvent{
					Dataset:   ds.Name,
					Index:     i,
					Total:     len(entities),
					Entity:    entities[i],
					Rows:      countRows(res.rows),
					CacheHits: res.cacheHits,
					Err:       res.err,
				})
			})
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// processEntity resolves every output of one entity. The entity waits for a
// pace token only before its first network request; cache hits are free.
func (o *Orchestrator) processEntity(ctx context.Context, ds Dataset, e seed.Entity, pace *rate.Limiter) entityResult {
	res := entityResult{rows: make([][][]string, len(ds.Outputs))}
	log := logging.Ctx(ctx).With().Str("dataset", ds.Name).Str("id", e.ID).Logger()
	paced := false

	for j, out := range ds.Outputs {
		ns := o.responses.Namespace(out.Endpoint.Name)

		raw, hit, err := ns.Lookup(e.ID)
		if err != nil {
			log.Warn().Err(err).Str("output", out.Name).Msg("Cache lookup failed")
		}
		if hit {
			res.cacheHits++
		} else {
			if !paced {
				if err := pace.Wait(ctx); err != nil {
					res.err = err
					return res
				}
				paced = true
			}
			raw, err = o.fetch(ctx, out.Endpoint.Path(e.ID))
			if err != nil {
				log.Warn().Err(err).Str("output", out.Name).Msg("Fetch failed, skipping entity")
				res.err = err
				continue
			}
			if err := ns.Store(e.ID, raw); err != nil {
				log.Warn().Err(err).Str("output", out.Name).Msg("Failed to cache response")
			}
		}

		rows, err := out.Parser.Parse(raw, e)
		if err != nil {
			log.Warn().Err(err).Str("output", out.Name).Msg("Parse failed, skipping entity")
			res.err = err
			continue
		}
		res.rows[j] = rows
	}

	if res.err != nil {
		res.rows = make([][][]string, len(ds.Outputs))
	}
	return res
}

// fetch requests path. An open circuit does not fail the entity: it waits
// out the breaker timeout and tries again until a request goes through or ctx
// ends.
func (o *Orchestrator) fetch(ctx context.Context, path string) ([]byte, error) {
	for {
		raw, err := o.fetcher.Fetch(ctx, path)
		if err == nil || !cricbuzz.IsBreakerOpen(err) || o.breakerWait <= 0 {
			return raw, err
		}
		logging.Ctx(ctx).Info().Str("path", path).Dur("wait", o.breakerWait).Msg("Circuit open, pausing before retry")
		t := time.NewTimer(o.breakerWait)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		}
	}
}

func (o *Orchestrator) record(ctx context.Context, stats *RunStats) {
	if o.runs == nil {
		return
	}
	// Cancelled runs are recorded too.
	if err := o.runs.Save(context.WithoutCancel(ctx), stats); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("dataset", stats.Dataset).Msg("Failed to record run")
	}
}

// report serializes reporter calls so reporters need no locking.
func (o *Orchestrator) report(fn func(Reporter)) {
	o.reportMu.Lock()
	defer o.reportMu.Unlock()
	fn(o.reporter)
}

func newPaceLimiter(pause time.Duration) *rate.Limiter {
	if pause <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(pause), 1)
}

func countRows(perOutput [][][]string) int {
	n := 0
	for _, rows := range perOutput {
		n += len(rows)
	}
	return n
}
