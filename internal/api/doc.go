// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

/*
Package api provides the read-only HTTP reporting API.

Endpoints (all GET):

	/api/v1/health              service status and which tables exist
	/api/v1/datasets            datasets with row counts of their outputs
	/api/v1/datasets/{name}     one page of a consolidated table
	/api/v1/reports             named analytical queries
	/api/v1/reports/{name}      run a named query
	/api/v1/leaderboard         rank players by one stat (side, field, format, limit)
	/api/v1/players/{key}       a player's squad details and stats by format (id or name)
	/api/v1/runs                ingestion run history (dataset, limit)
	/metrics                    Prometheus metrics

Every /api/v1 response uses the models.APIResponse envelope:

	{"status": "success", "data": ..., "metadata": {"timestamp": ..., "query_time_ms": 3}}
	{"status": "error", "data": null, "error": {"code": "VALIDATION_ERROR", "message": ...}}

Query parameters are validated with go-playground/validator; failures
return 400 with code VALIDATION_ERROR and the offending field in details.
Report, leaderboard and profile results are cached in memory until Handler.Refresh
is called or the TTL expires; cached responses set metadata.cached.

The router is built on chi with go-chi/cors and go-chi/httprate. Request
IDs, access logging, Prometheus instrumentation and gzip come from the
internal/middleware package.
*/
package api
