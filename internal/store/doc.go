// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

/*
Package store persists consolidated tables.

CSV files are the primary output. Each write fully replaces its file via a
temporary sibling and a rename, and an empty table is never written, so a
failed or empty run leaves the previous file readable.

Secondary copies are derived from the CSVs:
  - MirrorTables loads tables into a SQLite database (mattn/go-sqlite3),
    one table per CSV, with INTEGER/REAL/TEXT columns inferred from values.
  - ExportXLSX writes an Excel workbook (xuri/excelize) with one sheet per table.
*/
package store
