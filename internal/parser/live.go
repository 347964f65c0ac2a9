// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package parser

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/tomtom215/crease/internal/seed"
)

var liveColumns = []string{
	"match_type", "series_name", "match_desc", "team1", "team2",
	"status", "ground", "city", "team1_score", "team2_score",
}

// LiveParser reads the live matches feed. Advertisement entries between
// series carry no seriesAdWrapper and are skipped.
type LiveParser struct{}

// Columns implements Parser.
func (LiveParser) Columns() []string { return liveColumns }

// Parse implements Parser. The entity is unused.
func (LiveParser) Parse(raw []byte, _ seed.Entity) ([][]string, error) {
	doc, err := document(raw)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	doc.Get("typeMatches").ForEach(func(_, tm gjson.Result) bool {
		matchType := str(tm, "matchType")
		tm.Get("seriesMatches").ForEach(func(_, sm gjson.Result) bool {
			wrapper := sm.Get("seriesAdWrapper")
			if !wrapper.Exists() {
				return true
			}
			seriesName := str(wrapper, "seriesName")
			wrapper.Get("matches").ForEach(func(_, m gjson.Result) bool {
				info := m.Get("matchInfo")
				score := m.Get("matchScore")
				rows = append(rows, []string{
					matchType,
					seriesName,
					str(info, "matchDesc"),
					str(info, "team1.teamName"),
					str(info, "team2.teamName"),
					str(info, "status"),
					str(info, "venueInfo.ground"),
					str(info, "venueInfo.city"),
					inningsScore(score.Get("team1Score.inngs1")),
					inningsScore(score.Get("team2Score.inngs1")),
				})
				return true
			})
			return true
		})
		return true
	})
	return rows, nil
}

// inningsScore renders "runs/wickets (overs ov)", or "" when the innings has
// not started. Missing parts render as "-".
func inningsScore(inn gjson.Result) string {
	if !inn.Exists() || !inn.IsObject() {
		return ""
	}
	return fmt.Sprintf("%s/%s (%s ov)",
		strOr(inn, "runs", "-"),
		strOr(inn, "wickets", "-"),
		strOr(inn, "overs", "-"))
}
