// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package parser

import (
	"github.com/tidwall/gjson"

	"github.com/tomtom215/crease/internal/seed"
)

var (
	seriesVenueColumns = []string{"id", "ground", "city", "country"}
	venueColumns       = []string{"id", "ground", "city", "country", "timezone", "capacity", "ends", "homeTeam"}
)

// SeriesVenueParser reads the venues hosting a series.
type SeriesVenueParser struct{}

// Columns implements Parser.
func (SeriesVenueParser) Columns() []string { return seriesVenueColumns }

// Parse implements Parser.
func (SeriesVenueParser) Parse(raw []byte, _ seed.Entity) ([][]string, error) {
	doc, err := document(raw)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	doc.Get("seriesVenue").ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		rows = append(rows, []string{str(v, "id"), str(v, "ground"), str(v, "city"), str(v, "country")})
		return true
	})
	return rows, nil
}

// VenueParser reads one venue's detail object. The response carries no id
// of its own, so the entity id is used.
type VenueParser struct{}

// Columns implements Parser.
func (VenueParser) Columns() []string { return venueColumns }

// Parse implements Parser. A body without a ground yields no rows.
func (VenueParser) Parse(raw []byte, e seed.Entity) ([][]string, error) {
	doc, err := document(raw)
	if err != nil {
		return nil, err
	}
	if !doc.IsObject() || !doc.Get("ground").Exists() {
		return nil, nil
	}

	return [][]string{{
		e.ID,
		str(doc, "ground"),
		str(doc, "city"),
		str(doc, "country"),
		str(doc, "timezone"),
		str(doc, "capacity"),
		str(doc, "ends"),
		str(doc, "homeTeam"),
	}}, nil
}
