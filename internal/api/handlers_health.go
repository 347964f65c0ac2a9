// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package api

import (
	"net/http"
	"os"
	"time"

	"github.com/tomtom215/crease/internal/ingest"
	"github.com/tomtom215/crease/internal/models"
)

// Health reports service status and which consolidated tables exist.
// Status is "degraded" while no table has been ingested yet.
//
// GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	health := models.ServiceHealth{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		OutputDir: h.cfg.Output.Dir,
		Tables:    make(map[string]bool),
		Checks:    make(map[string]string),
	}

	present := 0
	for _, file := range ingest.OutputFiles() {
		_, err := os.Stat(h.cfg.OutputPath(file))
		health.Tables[file] = err == nil
		if err == nil {
			present++
		}
	}
	if present == 0 {
		health.Status = "degraded"
		health.Checks["tables"] = "no consolidated tables found"
	} else {
		health.Checks["tables"] = "ok"
	}

	health.Checks["report_engine"] = "ok"
	if len(h.reports.Tables()) == 0 {
		health.Checks["report_engine"] = "no views loaded"
	}

	health.Checks["run_log"] = "disabled"
	if h.runs != nil {
		health.Checks["run_log"] = "ok"
	}

	stats := h.cache.GetStats()
	health.ResultCache = &models.ResultCacheInfo{
		Entries:    stats.TotalKeys,
		HitRate:    h.cache.HitRate(),
		Generation: stats.Generation,
	}

	respondSuccess(w, health, start, false)
}
