// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package ingest

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/crease/internal/seed"
)

// EntityEvent reports the outcome of one entity as it completes.
type EntityEvent struct {
	Dataset string
	// Index is the entity's position in the seed; Total is the seed size.
	Index  int
	Total  int
	Entity seed.Entity
	// Rows is the number of rows the entity contributed across outputs.
	Rows      int
	CacheHits int
	Err       error
}

// Reporter receives run progress. Calls are serialized by the orchestrator.
type Reporter interface {
	RunStarted(dataset string, entities int)
	EntityDone(ev EntityEvent)
	RunFinished(stats *RunStats)
}

// NopReporter discards progress.
type NopReporter struct{}

func (NopReporter) RunStarted(string, int) {}
func (NopReporter) EntityDone(EntityEvent) {}
func (NopReporter) RunFinished(*RunStats)  {}

// LogReporter writes progress as structured log events.
type LogReporter struct {
	Logger zerolog.Logger
}

// RunStarted implements Reporter.
func (r LogReporter) RunStarted(dataset string, entities int) {
	r.Logger.Debug().Str("dataset", dataset).Int("entities", entities).Msg("Run started")
}

// EntityDone implements Reporter.
func (r LogReporter) EntityDone(ev EntityEvent) {
	e := r.Logger.Debug()
	if ev.Err != nil {
		e = r.Logger.Warn().Err(ev.Err)
	}
	e.Str("dataset", ev.Dataset).
		Str("id", ev.Entity.ID).
		Str("name", ev.Entity.Name).
		Int("index", ev.Index+1).
		Int("total", ev.Total).
		Int("rows", ev.Rows).
		Bool("cached", ev.CacheHits > 0).
		Msg("Entity processed")
}

// RunFinished implements Reporter.
func (r LogReporter) RunFinished(stats *RunStats) {
	r.Logger.Debug().Str("dataset", stats.Dataset).Str("status", stats.Status).Msg("Run finished")
}
