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

	"github.com/tomtom215/crease/internal/cricbuzz"
	"github.com/tomtom215/crease/internal/parser"
	"github.com/tomtom215/crease/internal/seed"
	"github.com/tomtom215/crease/internal/store"
)

func newLiveCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Show live matches",
		Long:  "Fetch the live matches feed. Responses are never cached.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.RequireAPIKey(); err != nil {
				return err
			}
			fetcher := cricbuzz.NewPipeline(&a.cfg.API, cricbuzz.NewClient(&a.cfg.API), nil)
			return a.runLive(cmd.Context(), fetcher, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "also write the matches to this CSV file")
	return cmd
}

func (a *app) runLive(ctx context.Context, fetcher cricbuzz.Fetcher, out string) error {
	raw, err := fetcher.Fetch(ctx, cricbuzz.LiveMatches.Path(""))
	if err != nil {
		return fmt.Errorf("fetch live matches: %w", err)
	}

	p := parser.LiveParser{}
	rows, err := p.Parse(raw, seed.Entity{})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		a.warn.Fprintln(a.out, "No live matches")
		return nil
	}

	for _, row := range rows {
		a.printLiveMatch(row)
	}

	if out == "" {
		return nil
	}
	if err := store.WriteCSV(out, p.Columns(), rows); err != nil && !errors.Is(err, store.ErrEmptyTable) {
		return fmt.Errorf("write %s: %w", out, err)
	}
	a.faint.Fprintf(a.out, "%d matches written to %s\n", len(rows), out)
	return nil
}

// printLiveMatch prints one row in LiveParser column order.
func (a *app) printLiveMatch(row []string) {
	matchType, series, desc := row[0], row[1], row[2]
	team1, team2, status := row[3], row[4], row[5]
	ground, city := row[6], row[7]
	score1, score2 := row[8], row[9]

	a.heading.Fprintf(a.out, "[%s] ", matchType)
	a.printf("%s, %s\n", series, desc)
	a.printf("    %s %s  v  %s %s\n", team1, score1, team2, score2)
	a.faint.Fprintf(a.out, "    %s, %s: ", ground, city)
	a.good.Fprintln(a.out, status)
}
