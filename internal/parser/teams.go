// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package parser

import (
	"github.com/tidwall/gjson"

	"github.com/tomtom215/crease/internal/seed"
)

var teamColumns = []string{"teamId", "teamName", "teamSName", "team_type"}

// TeamListParser reads a team listing. The entity id is the team category
// (international, league, domestic, women) and is written as team_type.
// Items missing any of the three team fields are section headings and are
// skipped.
type TeamListParser struct{}

// Columns implements Parser.
func (TeamListParser) Columns() []string { return teamColumns }

// Parse implements Parser.
func (TeamListParser) Parse(raw []byte, e seed.Entity) ([][]string, error) {
	doc, err := document(raw)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	doc.Get("list").ForEach(func(_, item gjson.Result) bool {
		id, name, short := item.Get("teamId"), item.Get("teamName"), item.Get("teamSName")
		if !id.Exists() || !name.Exists() || !short.Exists() {
			return true
		}
		rows = append(rows, []string{id.String(), name.String(), short.String(), e.ID})
		return true
	})
	return rows, nil
}
