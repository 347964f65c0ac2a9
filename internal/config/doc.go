// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

/*
Package config provides centralized configuration management for Crease.

Configuration is loaded with Koanf v2 from three layers, highest priority last:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (--config flag, CONFIG_PATH, or DefaultConfigPaths)
 3. Environment variables, mapped explicitly by envTransformFunc

# Configuration Structure

  - APIConfig: Cricbuzz RapidAPI base URL, credentials, timeout, retry and breaker
  - IngestConfig: worker count, pause overrides and seed file names
  - CacheConfig: response cache directory
  - OutputConfig: directory for consolidated CSV tables
  - StoreConfig: SQLite mirror and Excel workbook paths
  - RunLogConfig: BadgerDB run history
  - ServerConfig: read-only reporting API
  - LoggingConfig: zerolog level and format

# Environment Variables

	RAPIDAPI_KEY        api.key (required for commands that call the API)
	RAPIDAPI_HOST       api.host (default cricbuzz-cricket.p.rapidapi.com)
	CRICBUZZ_BASE_URL   api.base_url
	API_TIMEOUT         api.timeout
	API_MAX_ATTEMPTS    api.max_attempts (default 5)
	CACHE_DIR           cache.dir (default api_cache)
	OUTPUT_DIR          output.dir (default .)
	INGEST_WORKERS      ingest.workers (default 1)
	INGEST_PAUSE        ingest.pause (overrides every dataset's default pause)
	SQLITE_PATH         store.sqlite_path
	HTTP_PORT           server.port
	CORS_ORIGINS        server.cors_origins (comma-separated)
	LOG_LEVEL           logging.level
	LOG_FORMAT          logging.format

# Example

	cfg, err := config.Load()
	if err != nil {
	    return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
	    return err
	}
*/
package config
