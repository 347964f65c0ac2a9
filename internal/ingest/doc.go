// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

/*
Package ingest runs the Cricbuzz ingestion datasets.

A Dataset names a seed (a CSV table produced by an earlier dataset, or a
fixed list of categories) and one or more outputs. For every seed entity
and output the Orchestrator:

 1. looks the identifier up in the response cache,
 2. on a miss waits for the pace limiter, fetches through the circuit
    breaker and retry policy, and caches the raw body,
 3. parses the body into rows.

Failed entities are logged and skipped. Rows are merged in seed order and
each non-empty output fully replaces its CSV file.

Dataset chain for a full refresh:

	teams -> players-international, players-league -> batsmen, bowlers, allrounders
	series -> venues -> venue-info
*/
package ingest
