// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/crease/internal/logging"
)

// ErrMissingAPIKey is returned by RequireAPIKey when RAPIDAPI_KEY is unset.
var ErrMissingAPIKey = errors.New("RAPIDAPI_KEY is required to call the Cricbuzz API")

// Validate checks that required configuration is present and valid.
// The API key is not required here; commands that only read local data
// (report, mirror, serve) run without it. See RequireAPIKey.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateIngest(); err != nil {
		return err
	}

	if err := c.validatePaths(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return c.validateLogging()
}

// RequireAPIKey reports ErrMissingAPIKey when no RapidAPI key is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.API.Key) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (c *Config) validateAPI() error {
	if err := validateHTTPURL(c.API.BaseURL, "CRICBUZZ_BASE_URL"); err != nil {
		return fmt.Errorf("CRICBUZZ_BASE_URL is invalid: %w", err)
	}
	if c.API.Host == "" {
		return fmt.Errorf("RAPIDAPI_HOST must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %v", c.API.Timeout)
	}
	if c.API.MaxAttempts < 1 || c.API.MaxAttempts > 10 {
		return fmt.Errorf("API_MAX_ATTEMPTS must be between 1 and 10, got %d", c.API.MaxAttempts)
	}
	if c.API.RetryBaseDelay < 0 {
		return fmt.Errorf("API_RETRY_BASE_DELAY must not be negative")
	}
	if c.API.RetryMaxDelay <= 0 {
		return fmt.Errorf("API_RETRY_MAX_DELAY must be positive")
	}
	if c.API.Breaker.Enabled {
		if c.API.Breaker.FailureRatio <= 0 || c.API.Breaker.FailureRatio > 1 {
			return fmt.Errorf("api.breaker.failure_ratio must be in (0, 1], got %v", c.API.Breaker.FailureRatio)
		}
		if c.API.Breaker.MinRequests == 0 {
			return fmt.Errorf("api.breaker.min_requests must be at least 1")
		}
		if c.API.Breaker.Timeout <= 0 {
			return fmt.Errorf("api.breaker.timeout must be positive when the breaker is enabled")
		}
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.Workers < 1 || c.Ingest.Workers > 32 {
		return fmt.Errorf("INGEST_WORKERS must be between 1 and 32, got %d", c.Ingest.Workers)
	}
	if c.Ingest.Pause < 0 {
		return fmt.Errorf("INGEST_PAUSE must not be negative")
	}
	for name, d := range c.Ingest.Pauses {
		if d < 0 {
			return fmt.Errorf("ingest.pauses.%s must not be negative", name)
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Cache.Dir == "" {
		return fmt.Errorf("CACHE_DIR must not be empty")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	if c.Store.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH must not be empty")
	}
	if c.RunLog.Enabled && c.RunLog.Path == "" {
		return fmt.Errorf("RUNLOG_PATH is required when the run log is enabled")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQS must be positive when rate limiting is enabled")
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
