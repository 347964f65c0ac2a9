// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/tomtom215/crease/internal/seed"
)

var seriesColumns = []string{"id", "name", "start_date", "end_date", "series_type"}

// SeriesParser reads a series listing grouped by month. The entity id is
// the series category and is written as series_type.
type SeriesParser struct{}

// Columns implements Parser.
func (SeriesParser) Columns() []string { return seriesColumns }

// Parse implements Parser.
func (SeriesParser) Parse(raw []byte, e seed.Entity) ([][]string, error) {
	doc, err := document(raw)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	doc.Get("seriesMapProto").ForEach(func(_, month gjson.Result) bool {
		month.Get("series").ForEach(func(_, s gjson.Result) bool {
			if !s.IsObject() {
				return true
			}
			rows = append(rows, []string{
				str(s, "id"),
				str(s, "name"),
				epochMillisDate(str(s, "startDt")),
				epochMillisDate(str(s, "endDt")),
				e.ID,
			})
			return true
		})
		return true
	})
	return rows, nil
}

// epochMillisDate converts an epoch-millisecond string to YYYY-MM-DD in UTC.
// Empty or unparseable input gives "".
func epochMillisDate(ms string) string {
	ms = strings.TrimSpace(ms)
	if ms == "" {
		return ""
	}
	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(ms, 64)
		if ferr != nil {
			return ""
		}
		n = int64(f)
	}
	return time.UnixMilli(n).UTC().Format("2006-01-02")
}
