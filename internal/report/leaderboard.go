// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/crease/internal/models"
	"github.com/tomtom215/crease/internal/store"
	"github.com/tomtom215/crease/internal/validation"
)

// ErrUnknownField is returned for a leaderboard field outside the allowlist.
var ErrUnknownField = errors.New("unknown leaderboard field")

// DefaultLeaderboardLimit is used when a request leaves Limit at zero.
const DefaultLeaderboardLimit = 10

// Leaderboard sides. Each side ranks the specialist table and the
// all-rounder table together.
const (
	SideBatting = "batting"
	SideBowling = "bowling"
)

var sideTables = map[string][]string{
	SideBatting: {"all_batsmen_stats", "all_rounders_batting_stats"},
	SideBowling: {"all_bowlers_stats", "all_rounders_bowling_stats"},
}

// LeaderboardRequest selects a ranked stat. An empty Side is inferred from
// the field, preferring batting when both sides have it.
type LeaderboardRequest struct {
	Side   string `validate:"omitempty,oneof=batting bowling"`
	Field  string `validate:"required,sqlident,max=32"`
	Format string `validate:"omitempty,max=16"`
	Limit  int    `validate:"min=0,max=100"`
}

type aggregate int

const (
	aggSum aggregate = iota
	aggMax
	aggMean
)

// leaderboardField maps a public field onto the column of each source table.
// A table missing from columns does not record the stat.
type leaderboardField struct {
	columns map[string]string
	agg     aggregate
	// ascending ranks low values first (economy, bowling average).
	ascending bool
	// notOut strips the "*" marker of an unbeaten score before casting.
	notOut bool
}

func both(side, column string, agg aggregate) leaderboardField {
	t := sideTables[side]
	return leaderboardField{columns: map[string]string{t[0]: column, t[1]: column}, agg: agg}
}

var leaderboardFields = map[string]map[string]leaderboardField{
	SideBatting: {
		"matches":         both(SideBatting, "matches", aggSum),
		"innings":         both(SideBatting, "innings", aggSum),
		"runs":            both(SideBatting, "runs", aggSum),
		"balls_faced":     {columns: map[string]string{"all_batsmen_stats": "balls_faced"}},
		"not_out":         both(SideBatting, "not_out", aggSum),
		"fours":           both(SideBatting, "fours", aggSum),
		"sixes":           both(SideBatting, "sixes", aggSum),
		"hundreds":        both(SideBatting, "hundreds", aggSum),
		"double_hundreds": {columns: map[string]string{"all_batsmen_stats": "double_hundreds"}},
		"fifty_plus": {columns: map[string]string{
			"all_batsmen_stats": "fifty_plus", "all_rounders_batting_stats": "fifties",
		}},
		"highest_score": {columns: map[string]string{
			"all_batsmen_stats": "highest_score", "all_rounders_batting_stats": "high_score",
		}, agg: aggMax, notOut: true},
		"avg": {columns: map[string]string{
			"all_batsmen_stats": "average", "all_rounders_batting_stats": "avg",
		}, agg: aggMean},
		"strike_rate": both(SideBatting, "strike_rate", aggMean),
	},
	SideBowling: {
		"matches":      both(SideBowling, "matches", aggSum),
		"innings":      both(SideBowling, "innings", aggSum),
		"balls":        both(SideBowling, "balls", aggSum),
		"runs":         both(SideBowling, "runs", aggSum),
		"maidens":      both(SideBowling, "maidens", aggSum),
		"wickets":      both(SideBowling, "wickets", aggSum),
		"four_wickets": both(SideBowling, "4w", aggSum),
		"five_wickets": both(SideBowling, "5w", aggSum),
		"ten_wickets":  both(SideBowling, "10w", aggSum),
		"avg":          ascending(both(SideBowling, "avg", aggMean)),
		"eco":          ascending(both(SideBowling, "eco", aggMean)),
		"sr":           ascending(both(SideBowling, "sr", aggMean)),
	},
}

func ascending(f leaderboardField) leaderboardField {
	f.ascending = true
	return f
}

// Fields returns the leaderboard fields of one side, sorted.
func Fields(side string) []string {
	names := make([]string, 0, len(leaderboardFields[side]))
	for name := range leaderboardFields[side] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveField returns the side and definition for req.
func resolveField(req LeaderboardRequest) (string, leaderboardField, error) {
	sides := []string{SideBatting, SideBowling}
	if req.Side != "" {
		sides = []string{req.Side}
	}
	for _, side := range sides {
		if f, ok := leaderboardFields[side][req.Field]; ok {
			return side, f, nil
		}
	}
	return "", leaderboardField{}, fmt.Errorf("%w: %q (batting: %v; bowling: %v)",
		ErrUnknownField, req.Field, Fields(SideBatting), Fields(SideBowling))
}

// Leaderboard ranks players by one stat. Specialist and all-rounder tables
// of the side are combined and grouped by player name, so without a format
// a player's formats are aggregated: counting stats are summed, the highest
// score is the maximum and rates are averaged over the formats that record
// them. Fields where lower is better rank ascending and skip zero values.
func (e *Engine) Leaderboard(ctx context.Context, req LeaderboardRequest) (*models.ReportResult, error) {
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	side, field, err := resolveField(req)
	if err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit == 0 {
		limit = DefaultLeaderboardLimit
	}

	var (
		branches []string
		args     []interface{}
		wanted   []string
	)
	for _, table := range sideTables[side] {
		column, ok := field.columns[table]
		if !ok {
			continue
		}
		wanted = append(wanted, table)
		if !e.Has(table) {
			continue
		}
		expr := store.QuoteIdent(column)
		if field.notOut {
			expr = fmt.Sprintf("replace(%s, '*', '')", expr)
		}
		// Table and column come from the allowlist; user input is bound.
		branches = append(branches, fmt.Sprintf(
			"SELECT player_id, player_name, format, TRY_CAST(%s AS DOUBLE) AS v FROM %s WHERE (? = '' OR format = ?)",
			expr, store.QuoteIdent(table)))
		args = append(args, req.Format, req.Format)
	}
	if len(branches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingTable, strings.Join(wanted, ", "))
	}

	var agg string
	switch field.agg {
	case aggMax:
		agg = "MAX(v)"
	case aggMean:
		agg = "round(AVG(NULLIF(v, 0)), 2)"
	default:
		agg = "SUM(v)"
	}
	order, filter := "DESC", ""
	if field.ascending {
		order, filter = "ASC", " AND value > 0"
	}

	query := fmt.Sprintf(`
		SELECT player_id, player_name, formats, value FROM (
			SELECT min(player_id) AS player_id, player_name,
			       array_to_string(list_sort(list_distinct(list(format))), ',') AS formats,
			       %s AS value
			FROM (%s)
			WHERE v IS NOT NULL
			GROUP BY player_name
		)
		WHERE value IS NOT NULL%s
		ORDER BY value %s, player_name
		LIMIT ?`,
		agg, strings.Join(branches, "\n\t\t\t\tUNION ALL\n\t\t\t\t"), filter, order)
	args = append(args, limit)

	name := side + "_" + req.Field
	res, err := e.query(ctx, "leaderboard:"+name, query, args...)
	if err != nil {
		return nil, err
	}
	res.Name = name
	return res, nil
}
