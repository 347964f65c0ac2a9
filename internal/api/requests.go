// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package api

// TablePageRequest is the validated input of GET /datasets/{name}.
type TablePageRequest struct {
	Name   string `validate:"required,entityid,max=64"`
	Output string `validate:"omitempty,sqlident,max=64"`
	Limit  int    `validate:"min=1,max=1000"`
	Offset int    `validate:"min=0"`
}

// ReportRequest is the validated input of GET /reports/{name}.
type ReportRequest struct {
	Name string `validate:"required,entityid,max=64"`
}

// PlayerRequest is the validated input of GET /players/{key}. Key is a
// player id or name.
type PlayerRequest struct {
	Key string `validate:"required,max=128"`
}

// RunsRequest is the validated input of GET /runs.
type RunsRequest struct {
	Dataset string `validate:"omitempty,entityid,max=64"`
	Limit   int    `validate:"min=1,max=500"`
}

const (
	defaultPageLimit = 100
	defaultRunsLimit = 20
)
