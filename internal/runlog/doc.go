// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

// Package runlog records the outcome of ingestion runs so status and the
// HTTP API can report the latest run per dataset. BadgerStore persists
// records in BadgerDB; MemoryStore is its in-process twin.
package runlog
