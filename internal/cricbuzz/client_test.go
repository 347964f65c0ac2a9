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
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/crease/internal/config"
)

func newTestClient(url string) *Client {
	return NewClient(&config.APIConfig{
		BaseURL: url,
		Key:     "test-key",
		Host:    "cricbuzz-cricket.p.rapidapi.com",
		Timeout: 2 * time.Second,
	})
}

func TestClient_Get_SendsHeadersAndReturnsBody(t *testing.T) {
	var gotKey, gotHost, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-rapidapi-key")
		gotHost = r.Header.Get("x-rapidapi-host")
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"headers":["ROWHEADER","Test"],"values":[]}`))
	}))
	defer server.Close()

	body, err := newTestClient(server.URL).Get(context.Background(), PlayerBatting.Path("1413"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !strings.Contains(string(body), "ROWHEADER") {
		t.Errorf("unexpected body %s", body)
	}
	if gotKey != "test-key" {
		t.Errorf("x-rapidapi-key = %q", gotKey)
	}
	if gotHost != "cricbuzz-cricket.p.rapidapi.com" {
		t.Errorf("x-rapidapi-host = %q", gotHost)
	}
	if gotPath != "/stats/v1/player/1413/batting" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestClient_Get_HTTPError(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
	}{
		{"HTTP 404", http.StatusNotFound},
		{"HTTP 429", http.StatusTooManyRequests},
		{"HTTP 500", http.StatusInternalServerError},
		{"HTTP 401", http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(`{"message":"nope"}`))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Get(context.Background(), "/venues/v1/1")
			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *HTTPError, got %T: %v", err, err)
			}
			if httpErr.Status != tc.statusCode {
				t.Errorf("Status = %d, want %d", httpErr.Status, tc.statusCode)
			}
			if !strings.Contains(string(httpErr.Body), "nope") {
				t.Errorf("Body = %q", httpErr.Body)
			}
		})
	}
}

func TestClient_Get_ErrorBodyIsBounded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(strings.Repeat("x", 200*1024)))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Get(context.Background(), "/x")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if len(httpErr.Body) != maxErrorBodySize {
		t.Errorf("len(Body) = %d, want %d", len(httpErr.Body), maxErrorBodySize)
	}
}

func TestClient_Get_Malformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Get(context.Background(), "/x")
	var badErr *MalformedResponseError
	if !errors.As(err, &badErr) {
		t.Fatalf("expected *MalformedResponseError, got %T: %v", err, err)
	}
}

func TestClient_Get_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Get(context.Background(), "/x")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %T: %v", err, err)
	}
}

func TestClient_Get_RetryAfterParsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Get(context.Background(), "/x")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.RetryAfter != 3*time.Second {
		t.Errorf("RetryAfter = %v, want 3s", httpErr.RetryAfter)
	}
	if !IsRateLimited(err) {
		t.Error("IsRateLimited should be true for 429")
	}
}

func TestEndpointPath(t *testing.T) {
	tests := []struct {
		endpoint Endpoint
		id       string
		want     string
	}{
		{PlayerBowling, "8733", "/stats/v1/player/8733/bowling"},
		{TeamPlayers, "2", "/teams/v1/2/players"},
		{TeamsByType, "international", "/teams/v1/international"},
		{SeriesVenues, "7607", "/series/v1/7607/venues"},
		{Venue, "a b/c", "/venues/v1/a%20b%2Fc"},
		{LiveMatches, "", "/matches/v1/live"},
	}
	for _, tt := range tests {
		if got := tt.endpoint.Path(tt.id); got != tt.want {
			t.Errorf("%s.Path(%q) = %q, want %q", tt.endpoint.Name, tt.id, got, tt.want)
		}
	}
}

func TestEndpointLabel(t *testing.T) {
	if got := endpointLabel("/stats/v1/player/1413/batting"); got != "/stats/v1/player/{id}/batting" {
		t.Errorf("endpointLabel = %q", got)
	}
	if got := endpointLabel("/teams/v1/international"); got != "/teams/v1/international" {
		t.Errorf("endpointLabel = %q", got)
	}
}
