// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

/*
client.go - Cricbuzz RapidAPI fetch client

Client issues exactly one authenticated GET per call and classifies the
outcome. It never retries; RetryPolicy and Breaker wrap it.

Error kinds:
  - *NetworkError: transport failure or timeout
  - *HTTPError: any non-2xx status, including 429
  - *MalformedResponseError: 200 with a body that is not valid JSON
*/

//nolint:staticcheck // File documentation, not package doc
package cricbuzz

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/crease/internal/config"
	"github.com/tomtom215/crease/internal/logging"
	"github.com/tomtom215/crease/internal/metrics"
)

// maxErrorBodySize limits the amount of response body kept on an HTTPError.
const maxErrorBodySize = 64 * 1024 // 64KB

// maxBodySize bounds successful response bodies.
const maxBodySize = 32 << 20 // 32MB

// Fetcher retrieves the raw JSON body for an API path.
//
// Client, RetryPolicy and Breaker all implement Fetcher so they can be
// stacked: Breaker -> RetryPolicy -> Client.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, path string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// readBodyForError reads the response body for error reporting (max 64KB).
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}

// Client handles communication with the Cricbuzz RapidAPI.
//
// Thread Safety: Safe for concurrent use. Each request creates its own HTTP request.
type Client struct {
	baseURL string
	apiKey  string
	apiHost string
	client  *http.Client
}

// NewClient creates a Cricbuzz client from the API configuration.
func NewClient(cfg *config.APIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.Key,
		apiHost: cfg.Host,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch implements Fetcher. See Get.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, error) {
	return c.Get(ctx, path)
}

// Get performs a single GET of baseURL+path and returns the raw body when the
// status is 200 and the body is valid JSON.
func (c *Client) Get(ctx context.Context, path string) (body []byte, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordCricbuzzRequest(endpointLabel(path), outcome(err), time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)
	req.Header.Set("Accept", "application/json")

	logging.Ctx(ctx).Debug().
		Str("path", path).
		Str("api_key", logging.Redact(c.apiKey)).
		Msg("cricbuzz request")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			Path:       path,
			Status:     resp.StatusCode,
			Body:       readBodyForError(resp.Body),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &NetworkError{Path: path, Err: fmt.Errorf("read body: %w", err)}
	}

	if !json.Valid(body) {
		return nil, &MalformedResponseError{Path: path, Err: fmt.Errorf("body is not valid JSON (%d bytes)", len(body))}
	}

	return body, nil
}

// parseRetryAfter parses a Retry-After header given in seconds (RFC 6585).
// HTTP-date values are ignored.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
