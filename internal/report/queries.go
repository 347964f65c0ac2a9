// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package report

// Query is a named analytical query over the consolidated tables.
// Every view is loaded as VARCHAR, so queries cast explicitly.
type Query struct {
	Name        string
	Description string
	// Tables lists the views the query reads; all must be loaded.
	Tables []string
	SQL    string
}

var queries = []Query{
	{
		Name:        "indian-players",
		Description: "Players in India's squad with their role and styles",
		Tables:      []string{"cricket_player_data"},
		SQL: `
			SELECT name, role, battingStyle, bowlingStyle
			FROM cricket_player_data
			WHERE team_name = 'India'
			ORDER BY role, name`,
	},
	{
		Name:        "top-odi-run-scorers",
		Description: "Ten highest ODI run scorers among batsmen and all-rounders",
		Tables:      []string{"all_batsmen_stats", "all_rounders_batting_stats"},
		SQL: `
			SELECT player_name,
			       TRY_CAST(runs AS BIGINT) AS total_runs,
			       TRY_CAST(average AS DOUBLE) AS batting_average,
			       TRY_CAST(hundreds AS BIGINT) AS number_of_centuries
			FROM (
				SELECT player_name, format, runs, average, hundreds FROM all_batsmen_stats
				UNION ALL
				SELECT player_name, format, runs, avg AS average, hundreds FROM all_rounders_batting_stats
			)
			WHERE format = 'ODI'
			ORDER BY total_runs DESC NULLS LAST, player_name
			LIMIT 10`,
	},
	{
		Name:        "venues-capacity-50000",
		Description: "Venues seating more than 50,000",
		Tables:      []string{"venue_info"},
		SQL: `
			SELECT ground AS venue_name, city, country,
			       TRY_CAST(replace(capacity, ',', '') AS BIGINT) AS seats
			FROM venue_info
			WHERE TRY_CAST(replace(capacity, ',', '') AS BIGINT) > 50000
			ORDER BY seats DESC, venue_name`,
	},
	{
		Name:        "role-distribution",
		Description: "Number of squad players per role",
		Tables:      []string{"cricket_player_data"},
		SQL: `
			SELECT role, COUNT(id) AS player_count
			FROM cricket_player_data
			GROUP BY role
			ORDER BY player_count DESC, role`,
	},
	{
		Name:        "highest-score-per-format",
		Description: "Highest individual score recorded in each format",
		Tables:      []string{"all_batsmen_stats", "all_rounders_batting_stats"},
		SQL: `
			SELECT format, MAX(score) AS highest_score
			FROM (
				SELECT format, TRY_CAST(replace(highest_score, '*', '') AS BIGINT) AS score FROM all_batsmen_stats
				UNION ALL
				SELECT format, TRY_CAST(replace(high_score, '*', '') AS BIGINT) AS score FROM all_rounders_batting_stats
			)
			WHERE format IN ('Test', 'ODI', 'T20', 'IPL')
			GROUP BY format
			ORDER BY format`,
	},
	{
		Name:        "series-2024",
		Description: "Series starting in 2024",
		Tables:      []string{"all_cricket_series"},
		SQL: `
			SELECT name AS series_name, series_type AS match_type, start_date
			FROM all_cricket_series
			WHERE year(TRY_CAST(start_date AS DATE)) = 2024
			ORDER BY start_date, series_name`,
	},
	{
		Name:        "good-allrounders",
		Description: "All-rounders with more than 1000 runs and 50 wickets in a format",
		Tables:      []string{"all_rounders_batting_stats", "all_rounders_bowling_stats"},
		SQL: `
			SELECT b.player_name,
			       TRY_CAST(b.runs AS BIGINT) AS total_runs,
			       TRY_CAST(w.wickets AS BIGINT) AS total_wickets,
			       b.format
			FROM all_rounders_batting_stats b
			JOIN all_rounders_bowling_stats w
			  ON b.player_id = w.player_id AND b.format = w.format
			WHERE TRY_CAST(b.runs AS BIGINT) > 1000 AND TRY_CAST(w.wickets AS BIGINT) > 50
			ORDER BY total_runs DESC, b.player_name`,
	},
	{
		Name:        "comprehensive-ranking",
		Description: "All-rounders ranked by combined batting and bowling points",
		Tables:      []string{"all_rounders_batting_stats", "all_rounders_bowling_stats"},
		SQL: `
			WITH batting AS (
				SELECT player_id, any_value(player_name) AS player_name,
				       SUM(TRY_CAST(runs AS DOUBLE)) AS total_runs,
				       AVG(TRY_CAST(avg AS DOUBLE)) AS batting_avg,
				       AVG(TRY_CAST(strike_rate AS DOUBLE)) AS strike_rate
				FROM all_rounders_batting_stats
				GROUP BY player_id
			),
			bowling AS (
				SELECT player_id, any_value(player_name) AS player_name,
				       SUM(TRY_CAST(wickets AS DOUBLE)) AS total_wickets,
				       AVG(TRY_CAST(avg AS DOUBLE)) AS bowling_avg,
				       AVG(TRY_CAST(eco AS DOUBLE)) AS economy
				FROM all_rounders_bowling_stats
				GROUP BY player_id
			),
			scored AS (
				SELECT COALESCE(b.player_id, bo.player_id) AS player_id,
				       COALESCE(b.player_name, bo.player_name) AS player_name,
				       b.total_runs, b.batting_avg, b.strike_rate,
				       bo.total_wickets, bo.bowling_avg, bo.economy,
				       COALESCE(b.total_runs * 0.01 + b.batting_avg * 0.5 + b.strike_rate * 0.3, 0) AS batting_points,
				       COALESCE(bo.total_wickets * 2 + (50 - bo.bowling_avg) * 0.5 + (6 - bo.economy) * 2, 0) AS bowling_points
				FROM batting b
				FULL OUTER JOIN bowling bo ON b.player_id = bo.player_id
			)
			SELECT *, round(batting_points + bowling_points, 2) AS total_points
			FROM scored
			ORDER BY total_points DESC, player_name`,
	},
}

// Queries returns the named queries in display order.
func Queries() []Query {
	out := make([]Query, len(queries))
	copy(out, queries)
	return out
}

// Lookup returns the named query.
func Lookup(name string) (Query, bool) {
	for _, q := range queries {
		if q.Name == name {
			return q, true
		}
	}
	return Query{}, false
}
