// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package api

import (
	"context"
	"time"

	"github.com/tomtom215/crease/internal/cache"
	"github.com/tomtom215/crease/internal/config"
	"github.com/tomtom215/crease/internal/logging"
	"github.com/tomtom215/crease/internal/models"
	"github.com/tomtom215/crease/internal/report"
	"github.com/tomtom215/crease/internal/runlog"
)

// ReportEngine runs analytical queries over the consolidated tables.
// *report.Engine implements it.
type ReportEngine interface {
	Run(ctx context.Context, name string) (*models.ReportResult, error)
	Leaderboard(ctx context.Context, req report.LeaderboardRequest) (*models.ReportResult, error)
	Profile(ctx context.Context, key string) (*models.PlayerProfile, error)
	Tables() []string
	Refresh(ctx context.Context) error
}

// Handler serves the reporting API.
type Handler struct {
	cfg       *config.Config
	reports   ReportEngine
	runs      runlog.Store
	cache     *cache.Cache
	version   string
	startTime time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRunLog enables GET /runs.
func WithRunLog(s runlog.Store) HandlerOption {
	return func(h *Handler) { h.runs = s }
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(v string) HandlerOption {
	return func(h *Handler) { h.version = v }
}

// WithResultCacheTTL sets how long report results are cached. Default: 1 minute.
func WithResultCacheTTL(ttl time.Duration) HandlerOption {
	return func(h *Handler) {
		h.cache.Close()
		h.cache = cache.New(ttl)
	}
}

// NewHandler creates a Handler over the output directory configured in cfg.
func NewHandler(cfg *config.Config, reports ReportEngine, opts ...HandlerOption) *Handler {
	h := &Handler{
		cfg:       cfg,
		reports:   reports,
		cache:     cache.New(time.Minute),
		version:   "dev",
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Refresh reloads the report views and drops cached results. Called after
// consolidated tables are rewritten.
func (h *Handler) Refresh(ctx context.Context) error {
	if err := h.reports.Refresh(ctx); err != nil {
		return err
	}
	h.cache.Clear()
	logging.Ctx(ctx).Debug().Strs("tables", h.reports.Tables()).Msg("Report cache cleared")
	return nil
}

// Close stops the result cache's cleanup goroutine.
func (h *Handler) Close() {
	h.cache.Close()
}
