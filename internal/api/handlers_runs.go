// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/crease/internal/ingest"
	"github.com/tomtom215/crease/internal/runlog"
)

// Runs lists recorded ingestion runs, newest first.
//
// GET /api/v1/runs?dataset=&limit=
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.runs == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "Run log is disabled", nil)
		return
	}

	limit, ok := getIntParam(r, "limit", defaultRunsLimit)
	if !ok {
		invalidIntParam(w, "limit")
		return
	}
	req := RunsRequest{Dataset: r.URL.Query().Get("dataset"), Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	if req.Dataset != "" {
		if _, err := ingest.Lookup(h.cfg, req.Dataset); err != nil {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Unknown dataset: "+req.Dataset, nil)
			return
		}
	}

	runs, err := h.runs.List(r.Context(), req.Dataset, req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeRead, "Failed to read run log", err)
		return
	}
	if runs == nil {
		runs = []*runlog.RunRecord{}
	}
	respondSuccess(w, runs, start, false)
}
