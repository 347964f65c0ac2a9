// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"crease.yaml",
	"crease.yml",
	"config.yaml",
	"/etc/crease/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultBaseURL is the Cricbuzz RapidAPI endpoint.
const DefaultBaseURL = "https://cricbuzz-cricket.p.rapidapi.com"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			Key:            "",
			Host:           "cricbuzz-cricket.p.rapidapi.com",
			Timeout:        10 * time.Second,
			MaxAttempts:    5,
			RetryBaseDelay: time.Second,
			RetryMaxDelay:  time.Minute,
			Breaker: BreakerConfig{
				Enabled:      false,
				MinRequests:  10,
				FailureRatio: 0.6,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
			},
		},
		Ingest: IngestConfig{
			Workers:     1,
			Pause:       0, // 0 = use each dataset's default pause
			Pauses:      map[string]time.Duration{},
			PlayersSeed: "cricket_player_data.csv",
			TeamsSeed:   "all_teams.csv",
			SeriesSeed:  "all_cricket_series.csv",
			VenuesSeed:  "venue_details.csv",
		},
		Cache: CacheConfig{
			Dir: "api_cache",
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Store: StoreConfig{
			SQLitePath: "CricBuzz_database.db",
			XLSXPath:   "crease.xlsx",
		},
		RunLog: RunLogConfig{
			Enabled: true,
			Path:    ".crease/runs",
		},
		Server: ServerConfig{
			Host:              "127.0.0.1",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadFile loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: path if non-empty, otherwise the first of CONFIG_PATH and DefaultConfigPaths
//  3. Environment Variables: Override any mapped setting
//
// An explicit path that does not exist is an error; a missing default file is not.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"rapidapi_key":              "api.key",
	"rapidapi_host":             "api.host",
	"cricbuzz_base_url":         "api.base_url",
	"api_timeout":               "api.timeout",
	"api_max_attempts":          "api.max_attempts",
	"api_retry_base_delay":      "api.retry_base_delay",
	"api_retry_max_delay":       "api.retry_max_delay",
	"api_breaker_enabled":       "api.breaker.enabled",
	"api_breaker_min_requests":  "api.breaker.min_requests",
	"api_breaker_failure_ratio": "api.breaker.failure_ratio",
	"api_breaker_timeout":       "api.breaker.timeout",

	"ingest_workers":      "ingest.workers",
	"ingest_pause":        "ingest.pause",
	"ingest_players_seed": "ingest.players_seed",
	"ingest_teams_seed":   "ingest.teams_seed",
	"ingest_series_seed":  "ingest.series_seed",
	"ingest_venues_seed":  "ingest.venues_seed",

	"cache_dir":   "cache.dir",
	"output_dir":  "output.dir",
	"sqlite_path": "store.sqlite_path",
	"xlsx_path":   "store.xlsx_path",

	"runlog_enabled": "runlog.enabled",
	"runlog_path":    "runlog.path",

	"http_host":           "server.host",
	"http_port":           "server.port",
	"cors_origins":        "server.cors_origins",
	"rate_limit_reqs":     "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",
	"http_shutdown_grace": "server.shutdown_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - RAPIDAPI_KEY -> api.key
//   - INGEST_WORKERS -> ingest.workers
//   - HTTP_PORT -> server.port
//
// Unmapped variables return "" and are skipped, so unrelated environment
// variables never leak into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
