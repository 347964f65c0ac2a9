// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/tomtom215/crease/internal/logging"
)

// maxSheetName is Excel's limit on worksheet name length.
const maxSheetName = 31

// SheetName returns a worksheet name for a table, truncated to Excel's limit.
func SheetName(table string) string {
	r := []rune(table)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}

// ExportXLSX writes one worksheet per table to path, replacing any existing
// workbook. Numeric cells are stored as numbers so spreadsheets can sort and
// sum them.
func ExportXLSX(path string, tables []*Table) (err error) {
	if len(tables) == 0 {
		return ErrEmptyTable
	}

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Failed to close workbook")
		}
	}()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	used := make(map[string]bool, len(tables))
	for i, t := range tables {
		sheet := SheetName(t.Name)
		if used[sheet] {
			return fmt.Errorf("duplicate sheet name %q", sheet)
		}
		used[sheet] = true

		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename first sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}

		if err := writeSheet(f, sheet, t, header); err != nil {
			return err
		}
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

	if err = f.Write(tmp); err != nil {
		return fmt.Errorf("error saving Excel file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *Table, headerStyle int) error {
	types := InferTypes(t)

	head := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		head[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style %s header: %w", sheet, err)
		}
	}

	values := make([]interface{}, len(t.Columns))
	for r, row := range t.Rows {
		for i := range t.Columns {
			var v string
			if i < len(row) {
				v = row[i]
			}
			values[i] = cellValue(v, types[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, r, err)
		}
	}
	return nil
}

func cellValue(v, typ string) interface{} {
	switch typ {
	case TypeInteger:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case TypeReal:
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			return x
		}
	}
	return v
}
