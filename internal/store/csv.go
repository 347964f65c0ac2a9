// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tomtom215/crease/internal/logging"
)

// ErrEmptyTable is returned when asked to write a table with no rows.
// Callers treat it as "nothing to write" and keep any existing file.
var ErrEmptyTable = errors.New("table has no rows")

// Table is a consolidated table: a header and rows of string cells.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// TableName returns the table name for a CSV path (its file stem).
func TableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WriteCSV fully replaces path with the header and rows. The file is written
// to a temporary sibling and renamed into place, so readers never observe a
// partial table and a failed write leaves the previous file intact.
//
// A table with no rows is never written; ErrEmptyTable is returned instead.
func WriteCSV(path string, columns []string, rows [][]string) (err error) {
	if len(rows) == 0 {
		return ErrEmptyTable
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				logging.Warn().Err(rmErr).Str("path", tmpName).Msg("Failed to remove temp file")
			}
		}
	}()

	w := csv.NewWriter(tmp)
	if err = w.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			err = fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(columns))
			return err
		}
		if err = w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ReadCSV reads a table written by WriteCSV (or any headed CSV). Short rows
// are padded with empty cells.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := readTable(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	t.Name = TableName(path)
	return t, nil
}

func readTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{Columns: header}
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < len(header) {
			rec = append(rec, make([]string, len(header)-len(rec))...)
		} else if len(rec) > len(header) {
			rec = rec[:len(header)]
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// CountRows returns the number of data rows in a CSV file, excluding the
// header. A missing file returns os.ErrNotExist.
func CountRows(path string) (int, error) {
	t, err := ReadCSV(path)
	if err != nil {
		return 0, err
	}
	return len(t.Rows), nil
}

// LoadTables reads every named CSV in dir that exists, in the given order.
// Missing files are skipped.
func LoadTables(dir string, files []string) ([]*Table, error) {
	var tables []*Table
	for _, name := range files {
		t, err := ReadCSV(filepath.Join(dir, name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}
