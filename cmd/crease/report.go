// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/crease/internal/ingest"
	"github.com/tomtom215/crease/internal/logging"
	"github.com/tomtom215/crease/internal/models"
	"github.com/tomtom215/crease/internal/report"
)

const rankingReport = "comprehensive-ranking"

func newReportCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run analytics over the consolidated tables",
		Long: `Run named SQL reports and leaderboards over the consolidated CSV tables.
Queries run in an in-memory DuckDB database with one view per table.`,
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print results as JSON")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the named reports",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.listReports()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "run <name>",
		Short:     "Run a named report",
		Args:      cobra.ExactArgs(1),
		ValidArgs: reportNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withReports(cmd.Context(), func(e *report.Engine) (*models.ReportResult, error) {
				return e.Run(cmd.Context(), args[0])
			}, asJSON)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ranking",
		Short: "Rank all-rounders by combined batting and bowling output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withReports(cmd.Context(), func(e *report.Engine) (*models.ReportResult, error) {
				return e.Run(cmd.Context(), rankingReport)
			}, asJSON)
		},
	})

	var req report.LeaderboardRequest
	leaderboard := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank players by one batting or bowling stat",
		Long: `Rank players by one batting or bowling stat. Specialist and all-rounder
tables are combined. Without --format, a player's formats are aggregated:
counts are summed, the highest score is the maximum and rates are averaged.`,
		Example: `  crease report leaderboard --field runs --format ODI
  crease report leaderboard --side bowling --field eco --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withReports(cmd.Context(), func(e *report.Engine) (*models.ReportResult, error) {
				return e.Leaderboard(cmd.Context(), req)
			}, asJSON)
		},
	}
	leaderboard.Flags().StringVar(&req.Side, "side", "", "batting or bowling (inferred from --field when omitted)")
	leaderboard.Flags().StringVar(&req.Field, "field", "runs", fmt.Sprintf("stat to rank by; batting: %s; bowling: %s",
		strings.Join(report.Fields(report.SideBatting), ", "), strings.Join(report.Fields(report.SideBowling), ", ")))
	leaderboard.Flags().StringVar(&req.Format, "format", "", "restrict to one format (Test, ODI, T20, IPL)")
	leaderboard.Flags().IntVar(&req.Limit, "limit", report.DefaultLeaderboardLimit, "number of players")
	cmd.AddCommand(leaderboard)

	cmd.AddCommand(&cobra.Command{
		Use:     "profile <id|name>",
		Short:   "Show a player's squad details and stats by format",
		Example: `  crease report profile 1413
  crease report profile "Virat Kohli"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showProfile(cmd.Context(), args[0], asJSON)
		},
	})

	return cmd
}

func reportNames() []string {
	queries := report.Queries()
	names := make([]string, 0, len(queries))
	for _, q := range queries {
		names = append(names, q.Name)
	}
	return names
}

func (a *app) listReports() error {
	t := newTable(a.out, "NAME", "TABLES", "DESCRIPTION")
	for _, q := range report.Queries() {
		t.row(q.Name, strings.Join(q.Tables, ","), q.Description)
	}
	return t.flush()
}

func (a *app) showProfile(ctx context.Context, key string, asJSON bool) error {
	engine, err := a.openReports(ctx)
	if err != nil {
		return err
	}
	defer a.closeReports(engine)

	p, err := engine.Profile(ctx, key)
	if err != nil {
		return err
	}
	if asJSON {
		return a.printJSON(p)
	}

	a.heading.Fprintf(a.out, "%s (%s)\n", p.Name, p.ID)
	t := newTable(a.out)
	t.row("Role", dash(p.Role))
	t.row("Teams", dash(strings.Join(p.Teams, ", ")))
	t.row("Batting", dash(p.BattingStyle))
	t.row("Bowling", dash(p.BowlingStyle))
	if err := t.flush(); err != nil {
		return err
	}
	if len(p.Stats) == 0 {
		a.faint.Fprintln(a.out, "No stats recorded")
		return nil
	}
	for i := range p.Stats {
		fmt.Fprintln(a.out)
		if err := a.printResult(&p.Stats[i]); err != nil {
			return err
		}
	}
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (a *app) openReports(ctx context.Context) (*report.Engine, error) {
	return report.Open(ctx, a.cfg.Output.Dir, ingest.OutputFiles())
}

func (a *app) closeReports(engine *report.Engine) {
	if err := engine.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing report engine")
	}
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// withReports opens the report engine over the output directory, runs fn and
// prints its result.
func (a *app) withReports(ctx context.Context, fn func(*report.Engine) (*models.ReportResult, error), asJSON bool) error {
	engine, err := a.openReports(ctx)
	if err != nil {
		return err
	}
	defer a.closeReports(engine)

	res, err := fn(engine)
	if err != nil {
		return err
	}
	if asJSON {
		return a.printJSON(res)
	}
	return a.printResult(res)
}

func (a *app) printResult(res *models.ReportResult) error {
	a.heading.Fprintln(a.out, res.Name)
	t := newTable(a.out)
	header := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = strings.ToUpper(c)
	}
	t.row(header...)
	for _, row := range res.Rows {
		cells := make([]string, len(res.Columns))
		for i, c := range res.Columns {
			cells[i] = formatCell(row[c])
		}
		t.row(cells...)
	}
	if err := t.flush(); err != nil {
		return err
	}
	a.faint.Fprintf(a.out, "(%d rows)\n", len(res.Rows))
	return nil
}

// formatCell renders a normalized report value.
func formatCell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
