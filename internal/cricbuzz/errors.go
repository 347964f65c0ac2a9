// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package cricbuzz

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// NetworkError is a transport failure: DNS, connection refused, TLS or timeout.
type NetworkError struct {
	Path string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response. Body holds at most 64KB of the response.
type HTTPError struct {
	Path   string
	Status int
	Body   []byte

	// RetryAfter is the parsed Retry-After header of a 429 response, or 0.
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d %s fetching %s", e.Status, http.StatusText(e.Status), e.Path)
}

// RateLimitedError is returned once every attempt was answered with HTTP 429.
type RateLimitedError struct {
	Path     string
	Attempts int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded after %d attempts (HTTP 429) fetching %s", e.Attempts, e.Path)
}

// MalformedResponseError is a 200 response whose body is not valid JSON.
type MalformedResponseError struct {
	Path string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed response: %v", e.Err)
	}
	return fmt.Sprintf("malformed response from %s: %v", e.Path, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsRateLimited reports whether err is an HTTP 429 from a single attempt.
func IsRateLimited(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusTooManyRequests
}

// outcome classifies err for metrics labels.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var (
		netErr   *NetworkError
		httpErr  *HTTPError
		limitErr *RateLimitedError
		badErr   *MalformedResponseError
	)
	switch {
	case errors.As(err, &limitErr):
		return "rate_limited"
	case errors.As(err, &httpErr):
		if httpErr.Status == http.StatusTooManyRequests {
			return "rate_limited"
		}
		return "http_error"
	case errors.As(err, &badErr):
		return "malformed"
	case errors.As(err, &netErr):
		return "network_error"
	default:
		return "error"
	}
}
