// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package parser

import (
	"github.com/tidwall/gjson"

	"github.com/tomtom215/crease/internal/seed"
)

// cellString renders a string, number, bool or null cell. Non-string
// scalars keep their JSON text.
func cellString(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	default:
		return v.Raw
	}
}

// TableParser flattens a header/value stat table into one row per format:
//
//	{"headers": ["ROWHEADER", "Test", "ODI"],
//	 "values":  [{"values": ["Matches", "113", "292"]}, ...]}
type TableParser struct {
	schema  Schema
	columns []string
}

// NewTableParser creates a parser for the given schema.
func NewTableParser(schema Schema) *TableParser {
	cols := append([]string{"player_id", "player_name", "format"}, schema.Columns()...)
	return &TableParser{schema: schema, columns: cols}
}

// Columns implements Parser.
func (p *TableParser) Columns() []string {
	return p.columns
}

// Parse implements Parser. The first header is the row label column; each
// remaining header is a format and yields one row. A metric missing from
// the response, or a value list too short to reach a format, takes the
// field default. "headers" or "values" of the wrong JSON type mean the table
// is absent and yield zero rows; only undecodable JSON is an error.
func (p *TableParser) Parse(raw []byte, e seed.Entity) ([][]string, error) {
	doc, err := document(raw)
	if err != nil {
		return nil, err
	}
	headers, values := doc.Get("headers"), doc.Get("values")
	if !headers.IsArray() || !values.IsArray() {
		return nil, nil
	}
	hdr := headers.Array()
	if len(hdr) < 2 || len(values.Array()) == 0 {
		return nil, nil
	}

	stats := make(map[string][]gjson.Result)
	values.ForEach(func(_, v gjson.Result) bool {
		cells := v.Get("values")
		if !cells.IsArray() {
			return true
		}
		list := cells.Array()
		if len(list) == 0 {
			return true
		}
		stats[cellString(list[0])] = list[1:]
		return true
	})

	formats := hdr[1:]
	rows := make([][]string, 0, len(formats))
	for i, format := range formats {
		row := make([]string, 0, len(p.columns))
		row = append(row, e.ID, e.Name, cellString(format))
		for _, f := range p.schema {
			vals, ok := stats[f.Metric]
			if !ok || i >= len(vals) {
				row = append(row, f.Default)
				continue
			}
			row = append(row, cellString(vals[i]))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
