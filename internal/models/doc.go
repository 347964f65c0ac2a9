// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

/*
Package models defines the payloads of the reporting API.

  - APIResponse, Metadata, APIError: the response envelope shared by every endpoint
  - PaginationInfo: offset pagination for table pages
  - DatasetInfo, OutputInfo: dataset catalogue with on-disk output state
  - TablePage: a page of a consolidated CSV table
  - ReportInfo, ReportResult: named DuckDB reports and their results
  - ServiceHealth: health endpoint payload

Ingestion types (seed entities, parsed rows, run records) live with the
packages that produce them.
*/
package models
