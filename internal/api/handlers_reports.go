// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/crease/internal/cache"
	"github.com/tomtom215/crease/internal/models"
	"github.com/tomtom215/crease/internal/report"
	"github.com/tomtom215/crease/internal/validation"
)

// Reports lists the named queries.
//
// GET /api/v1/reports
func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	queries := report.Queries()
	infos := make([]models.ReportInfo, 0, len(queries))
	for _, q := range queries {
		infos = append(infos, models.ReportInfo{Name: q.Name, Description: q.Description, Tables: q.Tables})
	}
	respondSuccess(w, infos, start, false)
}

// Report runs one named query. Results are cached until the next refresh
// or TTL expiry.
//
// GET /api/v1/reports/{name}
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := ReportRequest{Name: chi.URLParam(r, "name")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	key := cache.GenerateKey("report", req)
	gen := h.cache.Generation()
	if cached, ok := h.cache.Get(key); ok {
		respondSuccess(w, cached, start, true)
		return
	}

	result, err := h.reports.Run(r.Context(), req.Name)
	if err != nil {
		h.respondReportError(w, err)
		return
	}
	h.cache.SetForGeneration(key, result, gen)
	respondSuccess(w, result, start, false)
}

// Leaderboard ranks players by one stat. side is batting or bowling and may
// be omitted when the field names only one of them.
//
// GET /api/v1/leaderboard?side=batting&field=runs&format=ODI&limit=10
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, ok := getIntParam(r, "limit", report.DefaultLeaderboardLimit)
	if !ok {
		invalidIntParam(w, "limit")
		return
	}
	q := r.URL.Query()
	req := report.LeaderboardRequest{
		Side:   q.Get("side"),
		Field:  q.Get("field"),
		Format: q.Get("format"),
		Limit:  limit,
	}

	key := cache.GenerateKey("leaderboard", req)
	gen := h.cache.Generation()
	if cached, ok := h.cache.Get(key); ok {
		respondSuccess(w, cached, start, true)
		return
	}

	result, err := h.reports.Leaderboard(r.Context(), req)
	if err != nil {
		h.respondReportError(w, err)
		return
	}
	h.cache.SetForGeneration(key, result, gen)
	respondSuccess(w, result, start, false)
}

// PlayerProfile returns a player's squad details and stats by format.
//
// GET /api/v1/players/{key}
func (h *Handler) PlayerProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid player key", nil)
		return
	}
	req := PlayerRequest{Key: strings.TrimSpace(key)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	cacheKey := cache.GenerateKey("profile", req)
	gen := h.cache.Generation()
	if cached, ok := h.cache.Get(cacheKey); ok {
		respondSuccess(w, cached, start, true)
		return
	}

	profile, err := h.reports.Profile(r.Context(), req.Key)
	if err != nil {
		h.respondReportError(w, err)
		return
	}
	h.cache.SetForGeneration(cacheKey, profile, gen)
	respondSuccess(w, profile, start, false)
}

func (h *Handler) respondReportError(w http.ResponseWriter, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		respondAPIError(w, http.StatusBadRequest, toAPIError(verr))
	case errors.Is(err, report.ErrUnknownField):
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeValidation,
			Message: err.Error(),
			Details: map[string]interface{}{
				"field":   "field",
				"batting": report.Fields(report.SideBatting),
				"bowling": report.Fields(report.SideBowling),
			},
		})
	case errors.Is(err, report.ErrUnknownReport), errors.Is(err, report.ErrMissingTable), errors.Is(err, report.ErrPlayerNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeQuery, "Report query failed", err)
	}
}
