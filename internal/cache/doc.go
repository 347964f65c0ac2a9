// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

/*
Package cache provides the two caches Crease uses.

# FileCache

FileCache is the permanent response cache of the ingestion pipeline. Each raw
API response is stored verbatim as <dir>/<namespace>/<id>.json:

	api_cache/
	  player_batting/1413.json
	  player_bowling/1413.json
	  team_players/2.json

Properties:
  - one file per identifier, written atomically (temp file + rename)
  - the directory is created on the first Store
  - no TTL, no eviction, no versioning
  - identifiers containing path separators or ".." are rejected with ErrInvalidID
  - hits and misses are counted in response_cache_hits_total and
    response_cache_misses_total

# Cache

Cache is a thread-safe in-memory TTL cache. The reporting API keeps DuckDB
query results in it and clears it when the CSV directory changes.

	c := cache.New(time.Minute)
	defer c.Close()
	key := cache.GenerateKey("leaderboard", params)
	if v, ok := c.Get(key); ok {
	    return v.(*models.ReportResult), nil
	}
*/
package cache
