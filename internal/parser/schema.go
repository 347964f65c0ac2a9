// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package parser

// FieldSpec maps an upstream metric name to an output column.
type FieldSpec struct {
	Column  string
	Metric  string
	Default string
}

// Schema is the closed, ordered list of stat columns of a table.
type Schema []FieldSpec

// Columns returns the schema's output column names in order.
func (s Schema) Columns() []string {
	cols := make([]string, len(s))
	for i, f := range s {
		cols[i] = f.Column
	}
	return cols
}

// BattingSchema is the batting career table.
var BattingSchema = Schema{
	{Column: "matches", Metric: "Matches", Default: "0"},
	{Column: "innings", Metric: "Innings", Default: "0"},
	{Column: "runs", Metric: "Runs", Default: "0"},
	{Column: "balls_faced", Metric: "Balls", Default: "0"},
	{Column: "highest_score", Metric: "Highest", Default: "0"},
	{Column: "average", Metric: "Average", Default: "0.0"},
	{Column: "strike_rate", Metric: "SR", Default: "0.0"},
	{Column: "not_out", Metric: "Not Out", Default: "0"},
	{Column: "fours", Metric: "Fours", Default: "0"},
	{Column: "sixes", Metric: "Sixes", Default: "0"},
	{Column: "fifty_plus", Metric: "50s", Default: "0"},
	{Column: "hundreds", Metric: "100s", Default: "0"},
	{Column: "double_hundreds", Metric: "200s", Default: "0"},
}

// BowlingSchema is the bowling career table.
var BowlingSchema = Schema{
	{Column: "matches", Metric: "Matches", Default: "0"},
	{Column: "innings", Metric: "Innings", Default: "0"},
	{Column: "balls", Metric: "Balls", Default: "0"},
	{Column: "runs", Metric: "Runs", Default: "0"},
	{Column: "maidens", Metric: "Maidens", Default: "0"},
	{Column: "wickets", Metric: "Wickets", Default: "0"},
	{Column: "avg", Metric: "Avg", Default: "0.0"},
	{Column: "eco", Metric: "Eco", Default: "0.0"},
	{Column: "sr", Metric: "SR", Default: "0.0"},
	{Column: "bbi", Metric: "BBI", Default: "-/-"},
	{Column: "bbm", Metric: "BBM", Default: "-/-"},
	{Column: "4w", Metric: "4w", Default: "0"},
	{Column: "5w", Metric: "5w", Default: "0"},
	{Column: "10w", Metric: "10w", Default: "0"},
}

// AllRounderBattingSchema is the batting table written for all-rounders.
// It uses the metric labels of the all-rounder batting response.
var AllRounderBattingSchema = Schema{
	{Column: "matches", Metric: "Matches", Default: "0"},
	{Column: "innings", Metric: "Innings", Default: "0"},
	{Column: "not_out", Metric: "Not Outs", Default: "0"},
	{Column: "runs", Metric: "Runs", Default: "0"},
	{Column: "high_score", Metric: "Highest Score", Default: "0"},
	{Column: "avg", Metric: "Avg", Default: "0.0"},
	{Column: "strike_rate", Metric: "Strike Rate", Default: "0.0"},
	{Column: "hundreds", Metric: "100s", Default: "0"},
	{Column: "fifties", Metric: "50s", Default: "0"},
	{Column: "fours", Metric: "4s", Default: "0"},
	{Column: "sixes", Metric: "6s", Default: "0"},
	{Column: "ducks", Metric: "Ducks", Default: "0"},
}
