// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package cricbuzz

import (
	"net/url"
	"strings"
)

// Endpoint is a Cricbuzz API path template with at most one {id} placeholder.
type Endpoint struct {
	Name     string
	Template string
}

// Cricbuzz endpoints used by the ingestion datasets.
var (
	PlayerBatting = Endpoint{Name: "player_batting", Template: "/stats/v1/player/{id}/batting"}
	PlayerBowling = Endpoint{Name: "player_bowling", Template: "/stats/v1/player/{id}/bowling"}
	TeamPlayers   = Endpoint{Name: "team_players", Template: "/teams/v1/{id}/players"}
	TeamsByType   = Endpoint{Name: "teams", Template: "/teams/v1/{id}"}
	SeriesByType  = Endpoint{Name: "series", Template: "/series/v1/{id}"}
	SeriesVenues  = Endpoint{Name: "series_venues", Template: "/series/v1/{id}/venues"}
	Venue         = Endpoint{Name: "venue", Template: "/venues/v1/{id}"}
	LiveMatches   = Endpoint{Name: "live_matches", Template: "/matches/v1/live"}
)

// Path expands the template with a path-escaped identifier.
func (e Endpoint) Path(id string) string {
	return strings.Replace(e.Template, "{id}", url.PathEscape(id), 1)
}

// endpointLabel reduces a request path to a low-cardinality metrics label by
// replacing numeric segments with {id}.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if s != "" && strings.Trim(s, "0123456789") == "" {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}
