// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package cricbuzz

import "github.com/tomtom215/crease/internal/config"

// BreakerName labels the Cricbuzz circuit breaker in logs and metrics.
const BreakerName = "cricbuzz-api"

// NewPipeline stacks Breaker -> RetryPolicy -> base according to cfg.
// onAttempt, if non-nil, is called before every request that reaches base.
func NewPipeline(cfg *config.APIConfig, base Fetcher, onAttempt func()) Fetcher {
	var f Fetcher = NewRetryPolicy(base,
		WithMaxAttempts(cfg.MaxAttempts),
		WithBaseDelay(cfg.RetryBaseDelay),
		WithMaxDelay(cfg.RetryMaxDelay),
		WithAttemptHook(onAttempt),
	)
	if cfg.Breaker.Enabled {
		f = NewBreaker(BreakerName, f, &cfg.Breaker)
	}
	return f
}
