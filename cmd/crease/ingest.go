// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/crease/internal/cache"
	"github.com/tomtom215/crease/internal/cricbuzz"
	"github.com/tomtom215/crease/internal/ingest"
	"github.com/tomtom215/crease/internal/logging"
	"github.com/tomtom215/crease/internal/runlog"
)

const allDatasets = "all"

func newIngestCmd(a *app) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "ingest <dataset>...|all",
		Short: "Fetch datasets from Cricbuzz into consolidated CSV tables",
		Long: `Fetch, parse and consolidate one or more datasets. Responses are cached
under the cache directory, so a rerun only requests what is missing.

"all" runs every dataset in dependency order: teams first, then the player
rosters the stats datasets are seeded from.`,
		Example: `  crease ingest teams
  crease ingest players-international batsmen bowlers
  crease ingest all --workers 4`,
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: append(ingest.Names(), allDatasets),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runIngest(cmd.Context(), args, workers)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "entities processed concurrently (default: ingest.workers)")
	return cmd
}

// resolveDatasets maps command arguments to datasets, preserving argument
// order. "all" expands to every dataset.
func (a *app) resolveDatasets(args []string) ([]ingest.Dataset, error) {
	for _, arg := range args {
		if arg == allDatasets {
			if len(args) > 1 {
				return nil, fmt.Errorf("%q cannot be combined with other datasets", allDatasets)
			}
			return ingest.Datasets(a.cfg), nil
		}
	}

	out := make([]ingest.Dataset, 0, len(args))
	for _, arg := range args {
		ds, err := ingest.Lookup(a.cfg, arg)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

func (a *app) runIngest(ctx context.Context, args []string, workers int) error {
	datasets, err := a.resolveDatasets(args)
	if err != nil {
		return err
	}
	if err := a.cfg.RequireAPIKey(); err != nil {
		return err
	}
	if workers <= 0 {
		workers = a.cfg.Ingest.Workers
	}

	opts := []ingest.Option{
		ingest.WithReporter(progressReporter{a: a}),
		ingest.WithWorkers(workers),
	}
	if runs := a.openRunLog(); runs != nil {
		defer func() {
			if err := runs.Close(); err != nil {
				logging.Warn().Err(err).Msg("Error closing run log")
			}
		}()
		opts = append(opts, ingest.WithRunLog(runs))
	}

	orch := ingest.New(&a.cfg.API, cricbuzz.NewClient(&a.cfg.API), cache.NewFileCache(a.cfg.Cache.Dir), opts...)
	for _, ds := range datasets {
		if _, err := orch.Run(ctx, ds); err != nil {
			return fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
	}
	return nil
}

// openRunLog opens the Badger run history when enabled. Badger allows one
// process per directory, so while `crease serve` holds it the run is not
// recorded rather than refused.
func (a *app) openRunLog() *runlog.BadgerStore {
	if !a.cfg.RunLog.Enabled {
		return nil
	}
	runs, err := runlog.OpenBadgerStore(a.cfg.RunLog.Path)
	if err != nil {
		logging.Warn().Err(err).Str("path", a.cfg.RunLog.Path).Msg("Run log unavailable, runs will not be recorded")
		return nil
	}
	return runs
}
