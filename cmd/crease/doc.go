// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

/*
Crease ingests player, team, series and venue statistics from the Cricbuzz
RapidAPI into consolidated CSV tables and reports on them.

# Commands

	crease ingest <dataset>...|all   fetch, parse and write consolidated tables
	crease live [--out file.csv]     print the current live matches
	crease datasets                  list datasets and their output files
	crease status                    cache sizes and the latest run per dataset
	crease mirror                    copy the CSV tables into SQLite
	crease export                    write the CSV tables to an Excel workbook
	crease report list               list the named report queries
	crease report run <name>         run a named report
	crease report leaderboard        rank players by a batting or bowling field
	crease report profile <id|name>  a player's squad details and stats by format
	crease report ranking            shorthand for report run comprehensive-ranking
	crease serve                     start the reporting HTTP API

# Configuration

Settings are layered: built-in defaults, then a YAML file (--config,
CONFIG_PATH, or crease.yaml in the working directory), then environment
variables. The RapidAPI key is only needed by ingest and live:

	export RAPIDAPI_KEY=...
	crease ingest teams players-international batsmen

--log-level and --log-format override the logging section of the file.

# Cancellation

SIGINT and SIGTERM cancel the command's context. An interrupted ingest run
writes nothing, so existing tables stay as they were.
*/
package main
