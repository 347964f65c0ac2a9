// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

// Package logging provides centralized zerolog-based structured logging for Crease.
//
// Every package logs through the global logger configured here instead of
// the standard library's log package. JSON output is the default so that
// ingestion runs can be post-processed; console output is available for
// interactive CLI use.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output format (machine-parseable) and console format (human-readable)
//   - Context-aware logging with run and request ID propagation
//   - slog adapter for Suture v4 integration
//   - Secret redaction for the RapidAPI key
//
// # Quick Start
//
//	import "github.com/tomtom215/crease/internal/logging"
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	logging.Info().Str("dataset", "batsmen").Msg("Run started")
//	logging.Warn().Err(err).Str("id", id).Msg("Skipping entity")
//
//	// Context-aware logging (run_id / request_id fields added automatically)
//	ctx = logging.ContextWithRunID(ctx, runID)
//	logging.Ctx(ctx).Info().Int("rows", n).Msg("Output written")
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
//
// Never log the API key directly; use Redact:
//
//	logging.Debug().Str("key", logging.Redact(cfg.API.Key)).Msg("Client configured")
package logging
