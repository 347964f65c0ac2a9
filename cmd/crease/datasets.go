// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/crease/internal/ingest"
	"github.com/tomtom215/crease/internal/store"
)

func newDatasetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List datasets, their output files and current row counts",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.printDatasets()
		},
	}
}

func (a *app) printDatasets() error {
	t := newTable(a.out, "DATASET", "OUTPUT", "FILE", "ROWS", "DESCRIPTION")
	for _, ds := range ingest.Datasets(a.cfg) {
		for i, out := range ds.Outputs {
			rows := "-"
			n, err := store.CountRows(out.Path)
			switch {
			case err == nil:
				rows = strconv.Itoa(n)
			case !errors.Is(err, os.ErrNotExist):
				rows = "error"
			}
			name, desc := ds.Name, ds.Description
			if i > 0 {
				name, desc = "", ""
			}
			t.row(name, out.Name, filepath.Base(out.Path), rows, desc)
		}
	}
	return t.flush()
}
