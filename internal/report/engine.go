// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/crease/internal/logging"
	"github.com/tomtom215/crease/internal/metrics"
	"github.com/tomtom215/crease/internal/models"
	"github.com/tomtom215/crease/internal/store"
	"github.com/tomtom215/crease/internal/validation"
)

var (
	// ErrUnknownReport is returned by Run for a name with no query.
	ErrUnknownReport = errors.New("unknown report")
	// ErrMissingTable is returned when a query needs a table that has not
	// been ingested yet.
	ErrMissingTable = errors.New("table not available")
)

// Engine runs analytical queries over the consolidated CSV tables using an
// in-memory DuckDB database. Each CSV file is exposed as a view, so queries
// always see the file contents as of the last Refresh.
type Engine struct {
	dir   string
	files []string
	db    *sql.DB

	mu     sync.RWMutex
	tables map[string]string // view name -> file path
}

// Open creates an engine over the given CSV files in dir and loads views for
// the ones that exist.
func Open(ctx context.Context, dir string, files []string) (*Engine, error) {
	// Disable auto-install/auto-load: read_csv is built in, and extension
	// downloads hang in restricted network environments.
	db, err := sql.Open("duckdb", ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	e := &Engine{
		dir:    dir,
		files:  append([]string(nil), files...),
		db:     db,
		tables: make(map[string]string),
	}
	if err := e.Refresh(ctx); err != nil {
		closeQuietly(db)
		return nil, err
	}
	return e, nil
}

// Close releases the database.
func (e *Engine) Close() error {
	return e.db.Close()
}

// Refresh re-creates the view of every CSV file currently on disk and drops
// views whose file has disappeared.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	loaded := make(map[string]string, len(e.files))
	for _, file := range e.files {
		path := filepath.Join(e.dir, file)
		name := store.TableName(path)
		if verr := validation.ValidateVar(name, "sqlident"); verr != nil {
			return fmt.Errorf("invalid table name %q: %w", name, verr)
		}

		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				if _, had := e.tables[name]; had {
					if _, err := e.db.ExecContext(ctx, "DROP VIEW IF EXISTS "+store.QuoteIdent(name)); err != nil {
						return fmt.Errorf("drop view %s: %w", name, err)
					}
				}
				continue
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}

		query := fmt.Sprintf(
			"CREATE OR REPLACE VIEW %s AS SELECT * FROM read_csv_auto('%s', header=true, all_varchar=true)",
			store.QuoteIdent(name), strings.ReplaceAll(path, "'", "''"))
		if _, err := e.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create view %s: %w", name, err)
		}
		loaded[name] = path
	}

	e.tables = loaded
	logging.Debug().Int("tables", len(loaded)).Str("dir", e.dir).Msg("Report views refreshed")
	return nil
}

// Tables returns the names of the loaded views, sorted.
func (e *Engine) Tables() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.tables))
	for name := range e.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the named view is loaded.
func (e *Engine) Has(table string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.tables[table]
	return ok
}

func (e *Engine) require(tables []string) error {
	var missing []string
	for _, t := range tables {
		if !e.Has(t) {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingTable, strings.Join(missing, ", "))
	}
	return nil
}

// Run executes the named query.
func (e *Engine) Run(ctx context.Context, name string) (*models.ReportResult, error) {
	q, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, name)
	}
	if err := e.require(q.Tables); err != nil {
		return nil, err
	}
	return e.query(ctx, q.Name, q.SQL)
}

func (e *Engine) query(ctx context.Context, name, query string, args ...interface{}) (result *models.ReportResult, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordReportQuery(name, time.Since(start), err)
	}()

	e.mu.RLock()
	defer e.mu.RUnlock()

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Str("query", name).Msg("Failed to close rows")
		}
	}()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", name, err)
	}

	result = &models.ReportResult{Name: name, Columns: cols, Rows: []map[string]interface{}{}}
	values := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			row[col] = normalize(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", name, err)
	}

	logging.Ctx(ctx).Debug().Str("query", name).Int("rows", len(result.Rows)).Dur("took", time.Since(start)).Msg("Report query complete")
	return result, nil
}

// normalize converts driver values into JSON-friendly ones.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case duckdb.Decimal:
		return val.Float64()
	case *big.Int:
		if val.IsInt64() {
			return val.Int64()
		}
		return val.String()
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return val
	}
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close duckdb")
	}
}
