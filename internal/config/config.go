// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package config

import (
	"net"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
type Config struct {
	API     APIConfig     `koanf:"api"`
	Ingest  IngestConfig  `koanf:"ingest"`
	Cache   CacheConfig   `koanf:"cache"`
	Output  OutputConfig  `koanf:"output"`
	Store   StoreConfig   `koanf:"store"`
	RunLog  RunLogConfig  `koanf:"runlog"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// APIConfig holds Cricbuzz RapidAPI connection settings.
//
// Environment Variables:
//   - RAPIDAPI_KEY: API key sent as x-rapidapi-key
//   - RAPIDAPI_HOST: host sent as x-rapidapi-host
//   - CRICBUZZ_BASE_URL: base URL (default https://cricbuzz-cricket.p.rapidapi.com)
type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Key     string        `koanf:"key"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`

	// MaxAttempts caps the total number of requests per identifier when the
	// API keeps answering HTTP 429. Default: 5
	MaxAttempts int `koanf:"max_attempts"`

	// RetryBaseDelay is the backoff unit; attempt n waits RetryBaseDelay * 2^n.
	// Default: 1s
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// RetryMaxDelay caps a single backoff wait, including one requested by a
	// Retry-After header. Default: 1m
	RetryMaxDelay time.Duration `koanf:"retry_max_delay"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig holds circuit breaker settings for the API client.
//
// The breaker is off by default. When enabled, an ingestion run pauses while
// the circuit is open and resumes with the next half-open request; it never
// skips an identifier without fetching it.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MinRequests is the number of requests in a window before the failure
	// ratio is evaluated.
	MinRequests uint32 `koanf:"min_requests"`

	// FailureRatio opens the circuit when failures/requests reaches it.
	FailureRatio float64 `koanf:"failure_ratio"`

	Interval time.Duration `koanf:"interval"`

	// Timeout is how long the circuit stays open before a half-open request.
	Timeout time.Duration `koanf:"timeout"`
}

// IngestConfig holds orchestrator settings.
type IngestConfig struct {
	// Workers is the number of entities processed concurrently. 1 keeps runs
	// strictly sequential.
	Workers int `koanf:"workers"`

	// Pause overrides the default inter-entity pause of every dataset when > 0.
	Pause time.Duration `koanf:"pause"`

	// Pauses overrides the pause of individual datasets by name.
	Pauses map[string]time.Duration `koanf:"pauses"`

	// Seed file names, resolved relative to Output.Dir when not absolute.
	PlayersSeed string `koanf:"players_seed"`
	TeamsSeed   string `koanf:"teams_seed"`
	SeriesSeed  string `koanf:"series_seed"`
	VenuesSeed  string `koanf:"venues_seed"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Dir string `koanf:"dir"`
}

// OutputConfig holds consolidated table output settings.
type OutputConfig struct {
	Dir string `koanf:"dir"`
}

// StoreConfig holds secondary store paths (SQLite mirror, Excel export).
type StoreConfig struct {
	SQLitePath string `koanf:"sqlite_path"`
	XLSXPath   string `koanf:"xlsx_path"`
}

// RunLogConfig holds BadgerDB run history settings.
type RunLogConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// ServerConfig holds reporting API server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// PauseFor returns the inter-entity pause for a dataset: an explicit per-dataset
// override wins, then the global override, then fallback.
func (c *IngestConfig) PauseFor(dataset string, fallback time.Duration) time.Duration {
	if d, ok := c.Pauses[dataset]; ok && d >= 0 {
		return d
	}
	if c.Pause > 0 {
		return c.Pause
	}
	return fallback
}

// OutputPath resolves a file name inside the output directory.
func (c *Config) OutputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Output.Dir, name)
}

// Addr returns the listen address for the reporting API.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Default returns the built-in configuration without reading a file or the
// environment.
func Default() *Config {
	return defaultConfig()
}

// Load loads configuration from the default config file locations and the
// environment. See LoadFile.
func Load() (*Config, error) {
	return LoadFile("")
}
