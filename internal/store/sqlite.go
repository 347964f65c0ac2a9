// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3" // database/sql driver

	"github.com/tomtom215/crease/internal/logging"
)

// Column affinities inferred for the SQLite mirror.
const (
	TypeInteger = "INTEGER"
	TypeReal    = "REAL"
	TypeText    = "TEXT"
)

// InferTypes picks a SQLite type per column: INTEGER when every non-empty
// cell parses as an integer, REAL when every non-empty cell parses as a
// number, TEXT otherwise. A column with no values is TEXT.
func InferTypes(t *Table) []string {
	types := make([]string, len(t.Columns))
	for c := range t.Columns {
		isInt, isReal, seen := true, true, false
		for _, row := range t.Rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if v == "" {
				continue
			}
			seen = true
			if isInt {
				if _, err := strconv.ParseInt(v, 10, 64); err != nil {
					isInt = false
				}
			}
			if !isInt {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					isReal = false
					break
				}
			}
		}
		switch {
		case !seen:
			types[c] = TypeText
		case isInt:
			types[c] = TypeInteger
		case isReal:
			types[c] = TypeReal
		default:
			types[c] = TypeText
		}
	}
	return types
}

// QuoteIdent quotes a SQL identifier. Stat columns such as 4w are not valid
// bare identifiers.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Mirror is a SQLite copy of the consolidated tables.
type Mirror struct {
	db *sql.DB
}

// OpenMirror opens (creating if needed) the SQLite database at path.
func OpenMirror(path string) (*Mirror, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set SQLite pragmas: %w", err)
	}
	return &Mirror{db: db}, nil
}

// DB exposes the underlying handle for queries.
func (m *Mirror) DB() *sql.DB { return m.db }

// Close closes the database.
func (m *Mirror) Close() error { return m.db.Close() }

// ReplaceTable drops and recreates the table named t.Name and loads every
// row in one transaction. Empty cells in numeric columns become NULL.
func (m *Mirror) ReplaceTable(ctx context.Context, t *Table) (err error) {
	if t.Name == "" || len(t.Columns) == 0 {
		return fmt.Errorf("table %q has no columns", t.Name)
	}
	types := InferTypes(t)

	cols := make([]string, len(t.Columns))
	defs := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = QuoteIdent(c)
		defs[i] = cols[i] + " " + types[i]
		marks[i] = "?"
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
			}
		}
	}()

	name := QuoteIdent(t.Name)
	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return fmt.Errorf("drop %s: %w", t.Name, err)
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create %s: %w", t.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name, strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Failed to close prepared statement")
		}
	}()

	args := make([]interface{}, len(t.Columns))
	for r, row := range t.Rows {
		for i := range t.Columns {
			var v string
			if i < len(row) {
				v = row[i]
			}
			args[i] = typedValue(v, types[i])
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", t.Name, r, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", t.Name, err)
	}
	return nil
}

func typedValue(v, typ string) interface{} {
	v = strings.TrimSpace(v)
	switch typ {
	case TypeInteger:
		if v == "" {
			return nil
		}
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case TypeReal:
		if v == "" {
			return nil
		}
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return v
	}
}

// MirrorTables replaces each table in the SQLite database at path.
func MirrorTables(ctx context.Context, path string, tables []*Table) error {
	m, err := OpenMirror(path)
	if err != nil {
		return err
	}
	defer m.Close()

	for _, t := range tables {
		if err := m.ReplaceTable(ctx, t); err != nil {
			return err
		}
		logging.Info().Str("table", t.Name).Int("rows", len(t.Rows)).Str("db", path).Msg("Mirrored table")
	}
	return nil
}
