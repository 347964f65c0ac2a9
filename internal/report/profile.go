// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package report

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tomtom215/crease/internal/models"
	"github.com/tomtom215/crease/internal/store"
	"github.com/tomtom215/crease/internal/validation"
)

// ErrPlayerNotFound is returned by Profile when no table mentions the player.
var ErrPlayerNotFound = errors.New("player not found")

var (
	rosterTables = []string{"cricket_player_data", "cricket_player_league_data"}
	statTables   = []string{"all_batsmen_stats", "all_rounders_batting_stats", "all_bowlers_stats", "all_rounders_bowling_stats"}
)

// formatOrder sorts stat rows Test, ODI, T20, IPL, then anything else.
const formatOrder = `CASE format WHEN 'Test' THEN 0 WHEN 'ODI' THEN 1 WHEN 'T20' THEN 2 WHEN 'IPL' THEN 3 ELSE 4 END, format`

// Profile returns a player's squad details and every stat table row that
// belongs to them. key is a player id or a name (case-insensitive).
func (e *Engine) Profile(ctx context.Context, key string) (*models.PlayerProfile, error) {
	key = strings.TrimSpace(key)
	if verr := validation.ValidateVar(key, "required,max=128"); verr != nil {
		return nil, verr
	}

	all := slices.Concat(rosterTables, statTables)
	if !slices.ContainsFunc(all, e.Has) {
		return nil, fmt.Errorf("%w: %s", ErrMissingTable, strings.Join(all, ", "))
	}

	profile := &models.PlayerProfile{Stats: []models.ReportResult{}}
	for _, table := range rosterTables {
		if !e.Has(table) {
			continue
		}
		if err := e.rosterEntry(ctx, table, key, profile); err != nil {
			return nil, err
		}
	}
	id, name := key, key
	if profile.ID != "" {
		id, name = profile.ID, profile.Name
	}

	for _, table := range statTables {
		if !e.Has(table) {
			continue
		}
		res, err := e.query(ctx, "profile:"+table, fmt.Sprintf(
			`SELECT * FROM %s WHERE player_id = ? OR lower(player_name) = lower(?) ORDER BY %s`,
			store.QuoteIdent(table), formatOrder), id, name)
		if err != nil {
			return nil, err
		}
		if len(res.Rows) == 0 {
			continue
		}
		if profile.ID == "" {
			profile.ID, _ = res.Rows[0]["player_id"].(string)
			profile.Name, _ = res.Rows[0]["player_name"].(string)
			id, name = profile.ID, profile.Name
		}
		res.Name = table
		res.Columns = dropColumns(res.Columns, "player_id", "player_name")
		for _, row := range res.Rows {
			delete(row, "player_id")
			delete(row, "player_name")
		}
		profile.Stats = append(profile.Stats, *res)
	}

	if profile.ID == "" {
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, key)
	}
	return profile, nil
}

// rosterEntry adds one squad table's rows for the player to profile. The
// first table that matches sets the player; an exact id match wins over a
// name match. Later tables only add the teams of that same id.
func (e *Engine) rosterEntry(ctx context.Context, table, key string, profile *models.PlayerProfile) error {
	if profile.ID != "" {
		key = profile.ID
	}
	res, err := e.query(ctx, "profile:"+table, fmt.Sprintf(`
		SELECT id, name, role, battingStyle, bowlingStyle, team_name
		FROM %s
		WHERE id = ? OR lower(name) = lower(?)
		ORDER BY CASE WHEN id = ? THEN 0 ELSE 1 END, id, team_name`, store.QuoteIdent(table)), key, key, key)
	if err != nil {
		return err
	}
	if len(res.Rows) == 0 {
		return nil
	}

	if profile.ID == "" {
		first := res.Rows[0]
		profile.ID = cellText(first["id"])
		profile.Name = cellText(first["name"])
		profile.Role = cellText(first["role"])
		profile.BattingStyle = cellText(first["battingStyle"])
		profile.BowlingStyle = cellText(first["bowlingStyle"])
	}
	for _, row := range res.Rows {
		if cellText(row["id"]) != profile.ID {
			continue
		}
		if team := cellText(row["team_name"]); team != "" && !slices.Contains(profile.Teams, team) {
			profile.Teams = append(profile.Teams, team)
		}
	}
	return nil
}

func cellText(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func dropColumns(cols []string, drop ...string) []string {
	out := cols[:0:0]
	for _, c := range cols {
		if !slices.Contains(drop, c) {
			out = append(out, c)
		}
	}
	return out
}
