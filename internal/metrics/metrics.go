// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cricbuzz API client metrics
	CricbuzzRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricbuzz_requests_total",
			Help: "Total number of requests sent to the Cricbuzz API",
		},
		[]string{"endpoint", "outcome"}, // outcome: "ok", "http_error", "rate_limited", "network_error", "malformed"
	)

	CricbuzzRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cricbuzz_request_duration_seconds",
			Help:    "Duration of Cricbuzz API requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	CricbuzzRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricbuzz_retries_total",
			Help: "Total number of retries after HTTP 429 responses",
		},
		[]string{"endpoint"},
	)

	// Response cache metrics
	ResponseCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"namespace"},
	)

	ResponseCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_misses_total",
			Help: "Total number of response cache misses",
		},
		[]string{"namespace"},
	)

	// Report result cache metrics
	ResultCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_cache_lookups_total",
			Help: "Total number of report result cache lookups",
		},
		[]string{"kind", "result"}, // result: "hit", "miss"
	)

	// Ingestion metrics
	IngestRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_rows_total",
			Help: "Total number of rows written to consolidated tables",
		},
		[]string{"dataset", "output"},
	)

	IngestEntities = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_entities_total",
			Help: "Total number of seed entities processed",
		},
		[]string{"dataset", "outcome"}, // outcome: "ok", "failed", "empty"
	)

	IngestRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_run_duration_seconds",
			Help:    "Duration of ingestion runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600, 7200},
		},
		[]string{"dataset", "status"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Reporting API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Report query metrics
	ReportQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_query_duration_seconds",
			Help:    "Duration of DuckDB report queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	ReportQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_query_errors_total",
			Help: "Total number of failed report queries",
		},
		[]string{"query"},
	)
)

// RecordCricbuzzRequest records one request to the Cricbuzz API.
func RecordCricbuzzRequest(endpoint, outcome string, duration time.Duration) {
	CricbuzzRequests.WithLabelValues(endpoint, outcome).Inc()
	CricbuzzRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordCacheLookup records a response cache hit or miss.
func RecordCacheLookup(namespace string, hit bool) {
	if hit {
		ResponseCacheHits.WithLabelValues(namespace).Inc()
	} else {
		ResponseCacheMisses.WithLabelValues(namespace).Inc()
	}
}

// RecordResultCacheLookup records a report result cache hit or miss.
func RecordResultCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ResultCacheLookups.WithLabelValues(kind, result).Inc()
}

// RecordIngestRun records the outcome of an ingestion run.
func RecordIngestRun(dataset string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	IngestRunDuration.WithLabelValues(dataset, status).Observe(duration.Seconds())
}

// RecordReportQuery records a named report query execution.
func RecordReportQuery(query string, duration time.Duration, err error) {
	ReportQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
	if err != nil {
		ReportQueryErrors.WithLabelValues(query).Inc()
	}
}

func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
