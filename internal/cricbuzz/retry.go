// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package cricbuzz

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/crease/internal/logging"
	"github.com/tomtom215/crease/internal/metrics"
)

const (
	// DefaultMaxAttempts is the total number of requests made for one path
	// while the API keeps answering HTTP 429.
	DefaultMaxAttempts = 5

	// DefaultRetryBaseDelay is the backoff unit. Waits are 1s, 2s, 4s, 8s.
	DefaultRetryBaseDelay = time.Second

	// DefaultRetryMaxDelay bounds any single wait, Retry-After included.
	DefaultRetryMaxDelay = time.Minute
)

// RetryPolicy retries HTTP 429 responses with exponential backoff.
// Every other error is returned after a single request.
type RetryPolicy struct {
	next        Fetcher
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration

	// onAttempt is called before every request, including the first.
	onAttempt func()
}

// RetryOption configures a RetryPolicy.
type RetryOption func(*RetryPolicy)

// WithMaxAttempts sets the total attempt cap. Values < 1 are ignored.
func WithMaxAttempts(n int) RetryOption {
	return func(p *RetryPolicy) {
		if n >= 1 {
			p.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the backoff unit.
func WithBaseDelay(d time.Duration) RetryOption {
	return func(p *RetryPolicy) {
		if d >= 0 {
			p.baseDelay = d
		}
	}
}

// WithMaxDelay caps a single backoff wait. Values <= 0 are ignored.
func WithMaxDelay(d time.Duration) RetryOption {
	return func(p *RetryPolicy) {
		if d > 0 {
			p.maxDelay = d
		}
	}
}

// WithAttemptHook registers a function called before each request. The
// orchestrator uses it to count API calls.
func WithAttemptHook(fn func()) RetryOption {
	return func(p *RetryPolicy) {
		p.onAttempt = fn
	}
}

// NewRetryPolicy wraps next with the 429 retry loop.
func NewRetryPolicy(next Fetcher, opts ...RetryOption) *RetryPolicy {
	p := &RetryPolicy{
		next:        next,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultRetryBaseDelay,
		maxDelay:    DefaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fetch implements Fetcher.
func (p *RetryPolicy) Fetch(ctx context.Context, path string) ([]byte, error) {
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if p.onAttempt != nil {
			p.onAttempt()
		}

		body, err := p.next.Fetch(ctx, path)
		if err == nil {
			return body, nil
		}

		var httpErr *HTTPError
		if !errors.As(err, &httpErr) || httpErr.Status != http.StatusTooManyRequests {
			return nil, err
		}

		if attempt == p.maxAttempts-1 {
			break
		}

		delay := p.baseDelay * time.Duration(1<<uint(attempt))
		if httpErr.RetryAfter > 0 {
			delay = httpErr.RetryAfter
		}
		if delay > p.maxDelay {
			delay = p.maxDelay
		}

		metrics.CricbuzzRetries.WithLabelValues(endpointLabel(path)).Inc()
		logging.Ctx(ctx).Warn().
			Str("path", path).
			Int("attempt", attempt+1).
			Int("max_attempts", p.maxAttempts).
			Dur("delay", delay).
			Msg("rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, &RateLimitedError{Path: path, Attempts: p.maxAttempts}
}
