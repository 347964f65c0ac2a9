// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package cricbuzz

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/crease/internal/config"
)

func testBreakerConfig() *config.BreakerConfig {
	return &config.BreakerConfig{
		Enabled:      true,
		MinRequests:  3,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		Timeout:      time.Minute,
	}
}

func TestBreaker_OpensOnUpstreamFailures(t *testing.T) {
	calls := 0
	inner := FetcherFunc(func(ctx context.Context, path string) ([]byte, error) {
		calls++
		return nil, &HTTPError{Path: path, Status: http.StatusBadGateway}
	})

	b := NewBreaker("test-open", inner, testBreakerConfig())
	for i := 0; i < 3; i++ {
		if _, err := b.Fetch(context.Background(), "/x"); err == nil {
			t.Fatal("expected error")
		}
	}
	if b.State() != "open" {
		t.Fatalf("State() = %q, want open", b.State())
	}

	_, err := b.Fetch(context.Background(), "/x")
	if !errors.Is(err, gobreaker.ErrOpenState) || !IsBreakerOpen(err) {
		t.Errorf("expected open-state rejection, got %v", err)
	}
	if calls != 3 {
		t.Errorf("inner called %d times, want 3 (rejected call must not reach upstream)", calls)
	}
}

func TestBreaker_NotFoundDoesNotTrip(t *testing.T) {
	inner := FetcherFunc(func(ctx context.Context, path string) ([]byte, error) {
		return nil, &HTTPError{Path: path, Status: http.StatusNotFound}
	})

	b := NewBreaker("test-404", inner, testBreakerConfig())
	for i := 0; i < 10; i++ {
		_, err := b.Fetch(context.Background(), "/x")
		var httpErr *HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("call %d: expected *HTTPError, got %v", i, err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	inner := FetcherFunc(func(ctx context.Context, path string) ([]byte, error) {
		return []byte(`{"path":"` + path + `"}`), nil
	})

	body, err := NewBreaker("test-ok", inner, testBreakerConfig()).Fetch(context.Background(), "/teams/v1/international")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"path":"/teams/v1/international"}` {
		t.Errorf("body = %s", body)
	}
}

func TestNewPipeline_RetriesInsideBreaker(t *testing.T) {
	requests := 0
	base := FetcherFunc(func(ctx context.Context, path string) ([]byte, error) {
		requests++
		return nil, &HTTPError{Path: path, Status: http.StatusTooManyRequests}
	})

	attempts := 0
	cfg := &config.APIConfig{
		MaxAttempts:    5,
		RetryBaseDelay: 0,
		Breaker:        *testBreakerConfig(),
	}
	f := NewPipeline(cfg, base, func() { attempts++ })

	_, err := f.Fetch(context.Background(), "/x")
	var limited *RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("expected *RateLimitedError, got %v", err)
	}
	if requests != 5 || attempts != 5 {
		t.Errorf("requests=%d attempts=%d, want 5/5", requests, attempts)
	}
	if _, ok := f.(*Breaker); !ok {
		t.Errorf("expected outermost layer to be *Breaker, got %T", f)
	}
}
