// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/crease/internal/ingest"
	"github.com/tomtom215/crease/internal/store"
)

var errNoTables = errors.New("no consolidated tables found; run crease ingest first")

func newMirrorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mirror",
		Short: "Copy the consolidated tables into the SQLite database",
		Long: `Load every consolidated CSV in the output directory into SQLite. Each
table is named after its file and replaced on every run; column types are
inferred from the values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMirror(cmd.Context())
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the consolidated tables to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.runExport()
		},
	}
}

// loadTables reads every consolidated CSV that exists.
func (a *app) loadTables() ([]*store.Table, error) {
	tables, err := store.LoadTables(a.cfg.Output.Dir, ingest.OutputFiles())
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w in %s", errNoTables, a.cfg.Output.Dir)
	}
	return tables, nil
}

func (a *app) runMirror(ctx context.Context) error {
	tables, err := a.loadTables()
	if err != nil {
		return err
	}
	path := a.cfg.OutputPath(a.cfg.Store.SQLitePath)
	if err := store.MirrorTables(ctx, path, tables); err != nil {
		return err
	}
	a.printTablesDone(tables, path)
	return nil
}

func (a *app) runExport() error {
	tables, err := a.loadTables()
	if err != nil {
		return err
	}
	path := a.cfg.OutputPath(a.cfg.Store.XLSXPath)
	if err := store.ExportXLSX(path, tables); err != nil {
		return err
	}
	a.printTablesDone(tables, path)
	return nil
}

func (a *app) printTablesDone(tables []*store.Table, path string) {
	for _, t := range tables {
		a.printf("  %-32s %d rows\n", t.Name, len(t.Rows))
	}
	a.good.Fprintf(a.out, "%d tables written to %s\n", len(tables), path)
}
