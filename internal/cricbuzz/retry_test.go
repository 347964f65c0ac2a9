// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package cricbuzz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestRetryPolicy_HTTP429_ExponentialBackoff tests that the policy retries
// with exponential backoff when receiving HTTP 429 responses
func TestRetryPolicy_HTTP429_ExponentialBackoff(t *testing.T) {
	attemptCount := atomic.Int32{}
	var mu sync.Mutex
	var attemptTimes []time.Time

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := attemptCount.Add(1)
		mu.Lock()
		attemptTimes = append(attemptTimes, time.Now())
		mu.Unlock()

		if count <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	policy := NewRetryPolicy(newTestClient(server.URL), WithBaseDelay(100*time.Millisecond))

	if _, err := policy.Fetch(context.Background(), "/x"); err != nil {
		t.Fatalf("Expected fetch to succeed after retries, got error: %v", err)
	}

	if got := attemptCount.Load(); got != 3 {
		t.Errorf("Expected 3 attempts (2 failures + 1 success), got %d", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(attemptTimes) == 3 {
		if d := attemptTimes[1].Sub(attemptTimes[0]); d < 90*time.Millisecond {
			t.Errorf("Expected first retry delay ~100ms, got %v", d)
		}
		if d := attemptTimes[2].Sub(attemptTimes[1]); d < 190*time.Millisecond {
			t.Errorf("Expected second retry delay ~200ms, got %v", d)
		}
	}
}

// TestRetryPolicy_HTTP429_MaxAttemptsExceeded checks that a persistently
// rate-limited path is requested exactly five times.
func TestRetryPolicy_HTTP429_MaxAttemptsExceeded(t *testing.T) {
	attemptCount := atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attemptCount.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	hookCalls := 0
	policy := NewRetryPolicy(newTestClient(server.URL),
		WithBaseDelay(time.Millisecond),
		WithAttemptHook(func() { hookCalls++ }),
	)

	_, err := policy.Fetch(context.Background(), "/x")

	var limited *RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("Expected *RateLimitedError, got %T: %v", err, err)
	}
	if limited.Attempts != 5 {
		t.Errorf("Attempts = %d, want 5", limited.Attempts)
	}
	if got := attemptCount.Load(); got != 5 {
		t.Errorf("Expected exactly 5 requests, got %d", got)
	}
	if hookCalls != 5 {
		t.Errorf("attempt hook called %d times, want 5", hookCalls)
	}
}

// TestRetryPolicy_RetryAfterHeader tests that Retry-After overrides the
// computed backoff.
func TestRetryPolicy_RetryAfterHeader(t *testing.T) {
	attemptCount := atomic.Int32{}
	var mu sync.Mutex
	var attemptTimes []time.Time

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := attemptCount.Add(1)
		mu.Lock()
		attemptTimes = append(attemptTimes, time.Now())
		mu.Unlock()

		if count == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	policy := NewRetryPolicy(newTestClient(server.URL), WithBaseDelay(time.Millisecond))

	if _, err := policy.Fetch(context.Background(), "/x"); err != nil {
		t.Fatalf("Expected success after retry, got error: %v", err)
	}
	if got := attemptCount.Load(); got != 2 {
		t.Errorf("Expected 2 attempts, got %d", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(attemptTimes) == 2 {
		if d := attemptTimes[1].Sub(attemptTimes[0]); d < 900*time.Millisecond {
			t.Errorf("Expected retry delay ~1s (from Retry-After header), got %v", d)
		}
	}
}

// TestRetryPolicy_OtherErrors_NoRetry tests that non-429 failures are not
// retried (fail fast)
func TestRetryPolicy_OtherErrors_NoRetry(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"HTTP 500", http.StatusInternalServerError, "boom"},
		{"HTTP 503", http.StatusServiceUnavailable, "down"},
		{"HTTP 404", http.StatusNotFound, "missing"},
		{"HTTP 401", http.StatusUnauthorized, "key"},
		{"malformed 200", http.StatusOK, "not json"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			attemptCount := atomic.Int32{}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attemptCount.Add(1)
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			policy := NewRetryPolicy(newTestClient(server.URL), WithBaseDelay(time.Millisecond))
			if _, err := policy.Fetch(context.Background(), "/x"); err == nil {
				t.Fatal("Expected error")
			}
			if got := attemptCount.Load(); got != 1 {
				t.Errorf("Expected exactly 1 request, got %d", got)
			}
		})
	}
}

// TestRetryPolicy_ContextCancelledDuringBackoff tests that a cancelled
// context interrupts the backoff wait.
func TestRetryPolicy_ContextCancelledDuringBackoff(t *testing.T) {
	attemptCount := atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attemptCount.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	policy := NewRetryPolicy(newTestClient(server.URL), WithBaseDelay(10*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := policy.Fetch(ctx, "/x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected context.DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Fetch took %v, expected cancellation to interrupt backoff", elapsed)
	}
	if got := attemptCount.Load(); got != 1 {
		t.Errorf("Expected 1 request before cancellation, got %d", got)
	}
}

func TestRetryPolicy_FetcherFunc(t *testing.T) {
	calls := 0
	inner := FetcherFunc(func(ctx context.Context, path string) ([]byte, error) {
		calls++
		if calls < 4 {
			return nil, &HTTPError{Path: path, Status: http.StatusTooManyRequests}
		}
		return []byte(`{}`), nil
	})

	body, err := NewRetryPolicy(inner, WithBaseDelay(0)).Fetch(context.Background(), "/y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{}` || calls != 4 {
		t.Errorf("body=%s calls=%d", body, calls)
	}
}

// TestRetryPolicy_RetryAfterIsCapped tests that an oversized Retry-After is
// clamped to the policy's maximum delay.
func TestRetryPolicy_RetryAfterIsCapped(t *testing.T) {
	attemptCount := atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attemptCount.Add(1) == 1 {
			w.Header().Set("Retry-After", "86400")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	policy := NewRetryPolicy(newTestClient(server.URL),
		WithBaseDelay(time.Millisecond),
		WithMaxDelay(20*time.Millisecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	if _, err := policy.Fetch(ctx, "/x"); err != nil {
		t.Fatalf("Expected success after capped wait, got error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Fetch took %v, expected Retry-After to be capped at 20ms", elapsed)
	}
	if got := attemptCount.Load(); got != 2 {
		t.Errorf("Expected 2 attempts, got %d", got)
	}
}
