// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

/*
Package parser turns raw Cricbuzz JSON responses into flat stat rows.

Every parser is pure: the same bytes and entity always give the same rows.
A response that is valid JSON but lacks the expected top-level keys yields
zero rows and no error; only a body that cannot be decoded is an error
(*cricbuzz.MalformedResponseError).

Parsers:
  - TableParser: header/value stat tables (batting, bowling) via a declarative Schema
  - RosterParser: role-grouped team player lists
  - TeamListParser: team listings by category
  - SeriesParser: series listings with epoch-millisecond dates
  - SeriesVenueParser: venues of a series
  - VenueParser: a single venue's details
  - LiveParser: live match summaries
*/
package parser

import (
	"errors"

	"github.com/tidwall/gjson"

	"github.com/tomtom215/crease/internal/cricbuzz"
	"github.com/tomtom215/crease/internal/seed"
)

// Parser converts one raw response into rows matching Columns().
type Parser interface {
	Columns() []string
	Parse(raw []byte, e seed.Entity) ([][]string, error)
}

var errInvalidJSON = errors.New("invalid JSON")

// document validates raw and returns its root. gjson does not allocate for
// the lookups, so list-shaped responses are walked in place.
func document(raw []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, &cricbuzz.MalformedResponseError{Err: errInvalidJSON}
	}
	return gjson.ParseBytes(raw), nil
}

// str returns the value at path as a string, or "" when absent or null.
func str(r gjson.Result, path string) string {
	v := r.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return v.String()
}

// strOr returns the value at path, or def when absent or null.
func strOr(r gjson.Result, path, def string) string {
	v := r.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return def
	}
	return v.String()
}
