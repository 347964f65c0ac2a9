// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

/*
Package metrics provides Prometheus metrics for the ingestion pipeline and the
reporting API.

Metrics are registered with promauto on the default registry and exposed at
/metrics by the serve command:

	curl http://localhost:8080/metrics

# Available Metrics

Cricbuzz client:
  - cricbuzz_requests_total: requests sent (counter), labels endpoint, outcome
  - cricbuzz_request_duration_seconds: request latency (histogram), label endpoint
  - cricbuzz_retries_total: retries after HTTP 429 (counter), label endpoint

Response cache:
  - response_cache_hits_total / response_cache_misses_total, label namespace

Ingestion:
  - ingest_rows_total: rows written, labels dataset, output
  - ingest_entities_total: entities processed, labels dataset, outcome
  - ingest_run_duration_seconds: run duration, labels dataset, status

Circuit breaker:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total, circuit_breaker_consecutive_failures,
    circuit_breaker_state_transitions_total

Reporting API:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - report_query_duration_seconds, report_query_errors_total

# Example Alert

	- alert: CricbuzzRateLimited
	  expr: rate(cricbuzz_requests_total{outcome="rate_limited"}[5m]) > 0.5
	  for: 10m
*/
package metrics
