// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package parser

import (
	"github.com/tidwall/gjson"

	"github.com/tomtom215/crease/internal/seed"
)

var rosterColumns = []string{"id", "name", "battingStyle", "bowlingStyle", "role", "team_name"}

// RosterParser reads a team's player list. The list interleaves role
// headings (items with a name and no id) with the players under them.
type RosterParser struct{}

// Columns implements Parser.
func (RosterParser) Columns() []string { return rosterColumns }

// Parse implements Parser. team_name comes from the seed entity.
func (RosterParser) Parse(raw []byte, e seed.Entity) ([][]string, error) {
	doc, err := document(raw)
	if err != nil {
		return nil, err
	}

	var (
		rows [][]string
		role string
	)
	doc.Get("player").ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		id := item.Get("id")
		if !id.Exists() {
			if name := item.Get("name"); name.Exists() {
				role = name.String()
			}
			return true
		}
		rows = append(rows, []string{
			id.String(),
			str(item, "name"),
			str(item, "battingStyle"),
			str(item, "bowlingStyle"),
			role,
			e.Name,
		})
		return true
	})
	return rows, nil
}
