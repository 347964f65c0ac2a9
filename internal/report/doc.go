// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

/*
Package report answers analytical questions over the consolidated tables.

The engine opens an in-memory DuckDB database and registers one view per
CSV file written by ingestion, reading every column as VARCHAR. Queries cast
explicitly with TRY_CAST, so a stray "-" or "*" in upstream data yields NULL
instead of failing the whole query.

Two kinds of query are available:

  - Named reports: fixed SQL listed by Queries, run with Engine.Run.
  - Leaderboards: one stat ranked across players, optionally filtered by
    format. The stat must come from a fixed allowlist (see Fields); the
    format and limit are bound as parameters.

Views are refreshed with Engine.Refresh after an ingestion run rewrites a
file. A query that needs a table not yet on disk fails with ErrMissingTable.
*/
package report
