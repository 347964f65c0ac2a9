// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package models

import "time"

// DatasetInfo describes one ingestion dataset and the state of its outputs.
type DatasetInfo struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Seed        string       `json:"seed,omitempty"`
	Outputs     []OutputInfo `json:"outputs"`
}

// OutputInfo describes a consolidated table file on disk.
type OutputInfo struct {
	File       string     `json:"file"`
	Exists     bool       `json:"exists"`
	Rows       int        `json:"rows"`
	SizeBytes  int64      `json:"size_bytes"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}

// TablePage is one page of a consolidated table.
type TablePage struct {
	Dataset    string              `json:"dataset"`
	File       string              `json:"file"`
	Columns    []string            `json:"columns"`
	Rows       []map[string]string `json:"rows"`
	Pagination PaginationInfo      `json:"pagination"`
}

// ReportInfo describes a named analytical query.
type ReportInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tables      []string `json:"tables"`
}

// ReportResult is the tabular result of a report or leaderboard query.
type ReportResult struct {
	Name    string                   `json:"name"`
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// PlayerProfile is a player's squad details and their stat tables, one row
// per format.
type PlayerProfile struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Role         string         `json:"role,omitempty"`
	BattingStyle string         `json:"batting_style,omitempty"`
	BowlingStyle string         `json:"bowling_style,omitempty"`
	Teams        []string       `json:"teams,omitempty"`
	Stats        []ReportResult `json:"stats"`
}

// ServiceHealth is the payload of the health endpoint.
type ServiceHealth struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	OutputDir string            `json:"output_dir"`
	Tables    map[string]bool   `json:"tables"`
	Checks    map[string]string `json:"checks,omitempty"`
	// ResultCache describes the in-memory report result cache.
	ResultCache *ResultCacheInfo `json:"result_cache,omitempty"`
}

// ResultCacheInfo summarizes the report result cache.
type ResultCacheInfo struct {
	Entries    int64   `json:"entries"`
	HitRate    float64 `json:"hit_rate"`
	Generation uint64  `json:"generation"`
}
