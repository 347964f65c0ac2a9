// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"github.com/tomtom215/crease/internal/cache"
	"github.com/tomtom215/crease/internal/config"
	"github.com/tomtom215/crease/internal/cricbuzz"
	"github.com/tomtom215/crease/internal/ingest"
	"github.com/tomtom215/crease/internal/models"
	"github.com/tomtom215/crease/internal/report"
	"github.com/tomtom215/crease/internal/runlog"
	"github.com/tomtom215/crease/internal/seed"
	"github.com/tomtom215/crease/internal/store"
)

func testApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	a := newApp(&out)
	a.logOut = io.Discard
	a.cfg = config.Default()
	a.cfg.Output.Dir = t.TempDir()
	return a, &out
}

// writeConfig writes a config file that keeps every path inside dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "crease.yaml")
	body := fmt.Sprintf("output:\n  dir: %s\ncache:\n  dir: %s\nrunlog:\n  enabled: false\n",
		dir, filepath.Join(dir, "api_cache"))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	a := newApp(&out)
	a.logOut = io.Discard
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTable(t *testing.T, dir, file string, columns []string, rows ...[]string) {
	t.Helper()
	if err := store.WriteCSV(filepath.Join(dir, file), columns, rows); err != nil {
		t.Fatal(err)
	}
}

func writePlayers(t *testing.T, dir string) {
	writeTable(t, dir, ingest.FilePlayers,
		[]string{"id", "name", "role", "battingStyle", "bowlingStyle", "team_name"},
		[]string{"1413", "Virat Kohli", "BATSMEN", "Right-hand bat", "Right-arm medium", "India"},
		[]string{"576", "Rohit Sharma", "BATSMEN", "Right-hand bat", "Right-arm offbreak", "India"},
		[]string{"9311", "Jasprit Bumrah", "BOWLER", "Right-hand bat", "Right-arm fast", "India"},
	)
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd(newApp(io.Discard))
	want := []string{"ingest", "live", "datasets", "status", "mirror", "export", "report", "serve"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, name := range []string{"list", "run", "leaderboard", "ranking", "profile"} {
		if cmd, _, err := root.Find([]string{"report", name}); err != nil || cmd.Name() != name {
			t.Errorf("report subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "log-level", "log-format"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestRootCmd_RejectsBadLoggingFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	if _, err := execute(t, "--config", cfgPath, "--log-level", "loud", "datasets"); err == nil {
		t.Error("expected error for invalid --log-level")
	}
	if _, err := execute(t, "--config", cfgPath, "--log-format", "xml", "datasets"); err == nil {
		t.Error("expected error for invalid --log-format")
	}
	if _, err := execute(t, "--config", filepath.Join(dir, "missing.yaml"), "datasets"); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestResolveDatasets(t *testing.T) {
	a, _ := testApp(t)

	all, err := a.resolveDatasets([]string{"all"})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(ingest.Datasets(a.cfg)) || all[0].Name != "teams" {
		t.Errorf("all resolved to %d datasets starting with %q", len(all), all[0].Name)
	}

	got, err := a.resolveDatasets([]string{"bowlers", "batsmen"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "bowlers" || got[1].Name != "batsmen" {
		t.Errorf("argument order not preserved: %v", got)
	}

	if _, err := a.resolveDatasets([]string{"all", "teams"}); err == nil {
		t.Error("expected error combining all with a dataset")
	}
	if _, err := a.resolveDatasets([]string{"teams", "umpires"}); !errors.Is(err, ingest.ErrUnknownDataset) {
		t.Errorf("err = %v, want ErrUnknownDataset", err)
	}
}

func TestIngest_RequiresAPIKey(t *testing.T) {
	t.Setenv("RAPIDAPI_KEY", "")
	cfgPath := writeConfig(t, t.TempDir())

	_, err := execute(t, "--config", cfgPath, "ingest", "teams")
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}

	// Unknown datasets are reported before the key is checked.
	_, err = execute(t, "--config", cfgPath, "ingest", "umpires")
	if !errors.Is(err, ingest.ErrUnknownDataset) {
		t.Errorf("err = %v, want ErrUnknownDataset", err)
	}
}

func TestProgressReporter(t *testing.T) {
	a, out := testApp(t)
	r := progressReporter{a: a}

	r.RunStarted("teams", 2)
	r.EntityDone(ingest.EntityEvent{
		Dataset: "teams", Index: 0, Total: 2,
		Entity: seed.Entity{ID: "international", Name: "international"}, Rows: 12, CacheHits: 1,
	})
	r.EntityDone(ingest.EntityEvent{
		Dataset: "teams", Index: 1, Total: 2,
		Entity: seed.Entity{ID: "league"}, Err: &cricbuzz.HTTPError{Status: 500},
	})
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r.RunFinished(&ingest.RunStats{
		Dataset: "teams", Status: runlog.StatusCompleted,
		StartTime: start, EndTime: start.Add(1500 * time.Millisecond),
		Entities: 2, Succeeded: 1, Failed: 1, CacheHits: 1, APICalls: 1,
		Outputs: []runlog.OutputRecord{
			{Name: "teams", Path: "all_teams.csv", Rows: 12, Written: true},
			{Name: "extra", Path: "extra.csv"},
		},
	})

	got := out.String()
	for _, want := range []string{
		"==> teams (2 entities)",
		"[1/2] international 12 rows (cached)",
		"[2/2] league: ",
		"completed in 1.5s: 1/2 entities succeeded, 1 cache hits, 1 API calls",
		"teams: 12 rows -> all_teams.csv",
		"extra: not written, existing file kept",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

const liveFeed = `{"typeMatches":[{"matchType":"International","seriesMatches":[
	{"seriesAdWrapper":{"seriesName":"India tour of Australia","matches":[
		{"matchInfo":{"matchDesc":"1st Test","team1":{"teamName":"Australia"},"team2":{"teamName":"India"},
			"status":"Day 2: Stumps","venueInfo":{"ground":"Optus Stadium","city":"Perth"}},
		 "matchScore":{"team1Score":{"inngs1":{"runs":104,"wickets":10,"overs":51.2}},
			"team2Score":{"inngs1":{"runs":150,"overs":49.4}}}}
	]}},
	{"adDetail":{"name":"ad"}}
]}]}`

func TestRunLive(t *testing.T) {
	a, out := testApp(t)
	csvPath := filepath.Join(t.TempDir(), "live.csv")

	var paths []string
	fetcher := cricbuzz.FetcherFunc(func(_ context.Context, path string) ([]byte, error) {
		paths = append(paths, path)
		return []byte(liveFeed), nil
	})
	if err := a.runLive(context.Background(), fetcher, csvPath); err != nil {
		t.Fatal(err)
	}

	if len(paths) != 1 || paths[0] != "/matches/v1/live" {
		t.Errorf("fetched %v", paths)
	}
	got := out.String()
	for _, want := range []string{
		"[International] India tour of Australia, 1st Test",
		"Australia 104/10 (51.2 ov)  v  India 150/- (49.4 ov)",
		"Optus Stadium, Perth: Day 2: Stumps",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if n, err := store.CountRows(csvPath); err != nil || n != 1 {
		t.Errorf("CountRows = %d, %v; want 1", n, err)
	}
}

func TestRunLive_NoMatchesAndErrors(t *testing.T) {
	a, out := testApp(t)
	csvPath := filepath.Join(t.TempDir(), "live.csv")

	empty := cricbuzz.FetcherFunc(func(context.Context, string) ([]byte, error) {
		return []byte(`{"typeMatches":[]}`), nil
	})
	if err := a.runLive(context.Background(), empty, csvPath); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No live matches") {
		t.Errorf("output = %q", out.String())
	}
	if _, err := os.Stat(csvPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("empty feed should not write a CSV")
	}

	failing := cricbuzz.FetcherFunc(func(context.Context, string) ([]byte, error) {
		return nil, &cricbuzz.HTTPError{Status: 503}
	})
	err := a.runLive(context.Background(), failing, "")
	var httpErr *cricbuzz.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != 503 {
		t.Errorf("err = %v, want wrapped HTTPError 503", err)
	}
}

func TestDatasetsCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	writeTable(t, dir, ingest.FileTeams, []string{"teamId", "teamName", "team_type"},
		[]string{"2", "India", "international"},
		[]string{"4", "Australia", "international"},
	)

	out, err := execute(t, "--config", cfgPath, "datasets")
	if err != nil {
		t.Fatal(err)
	}

	fields := lineFields(out, ingest.FileTeams)
	if len(fields) < 4 || fields[0] != "teams" || fields[3] != "2" {
		t.Errorf("teams line = %v", fields)
	}
	if fields := lineFields(out, ingest.FileBatsmen); len(fields) < 4 || fields[3] != "-" {
		t.Errorf("missing table should show '-', got %v", fields)
	}
}

// lineFields returns the whitespace-separated fields of the first output line
// containing substr.
func lineFields(out, substr string) []string {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, substr) {
			return strings.Fields(line)
		}
	}
	return nil
}

func TestMirrorAndExport(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	if _, err := execute(t, "--config", cfgPath, "mirror"); !errors.Is(err, errNoTables) {
		t.Errorf("mirror without tables: err = %v, want errNoTables", err)
	}

	writePlayers(t, dir)

	out, err := execute(t, "--config", cfgPath, "mirror")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "CricBuzz_database.db")); err != nil {
		t.Errorf("sqlite database not written: %v", err)
	}
	if !strings.Contains(out, "1 tables written") {
		t.Errorf("mirror output = %q", out)
	}

	if _, err := execute(t, "--config", cfgPath, "export"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "crease.xlsx")); err != nil {
		t.Errorf("workbook not written: %v", err)
	}
}

func TestReportCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	writePlayers(t, dir)

	out, err := execute(t, "--config", cfgPath, "report", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range report.Queries() {
		if !strings.Contains(out, q.Name) {
			t.Errorf("report list missing %s", q.Name)
		}
	}

	out, err = execute(t, "--config", cfgPath, "report", "run", "role-distribution")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "BATSMEN") || !strings.Contains(out, "(2 rows)") {
		t.Errorf("role-distribution output:\n%s", out)
	}

	out, err = execute(t, "--config", cfgPath, "report", "run", "role-distribution", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var res models.ReportResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode JSON output: %v\n%s", err, out)
	}
	if res.Name != "role-distribution" || len(res.Rows) != 2 {
		t.Errorf("JSON result = %+v", res)
	}

	_, err = execute(t, "--config", cfgPath, "report", "leaderboard", "--field", "runs")
	if !errors.Is(err, report.ErrMissingTable) {
		t.Errorf("leaderboard without batting table: err = %v, want ErrMissingTable", err)
	}
	_, err = execute(t, "--config", cfgPath, "report", "run", "no-such-report")
	if !errors.Is(err, report.ErrUnknownReport) {
		t.Errorf("err = %v, want ErrUnknownReport", err)
	}
}

func TestReportProfile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	writePlayers(t, dir)
	writeTable(t, dir, ingest.FileBowlers,
		[]string{"player_id", "player_name", "format", "wickets", "eco"},
		[]string{"9311", "Jasprit Bumrah", "Test", "159", "2.7"},
		[]string{"9311", "Jasprit Bumrah", "ODI", "149", "4.6"},
	)

	out, err := execute(t, "--config", cfgPath, "report", "profile", "jasprit bumrah")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Jasprit Bumrah (9311)", "BOWLER", "India", "Right-arm fast", "all_bowlers_stats", "(2 rows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("profile output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "--config", cfgPath, "report", "profile", "576")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No stats recorded") {
		t.Errorf("profile without stats:\n%s", out)
	}

	out, err = execute(t, "--config", cfgPath, "report", "profile", "9311", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var p models.PlayerProfile
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("decode JSON output: %v\n%s", err, out)
	}
	if p.Name != "Jasprit Bumrah" || len(p.Stats) != 1 || p.Stats[0].Rows[0]["format"] != "Test" {
		t.Errorf("JSON profile = %+v", p)
	}

	_, err = execute(t, "--config", cfgPath, "report", "profile", "Nobody")
	if !errors.Is(err, report.ErrPlayerNotFound) {
		t.Errorf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestStatusOutput(t *testing.T) {
	a, out := testApp(t)

	fc := cache.NewFileCache(filepath.Join(t.TempDir(), "api_cache"))
	if err := a.printCacheStatus(fc); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "empty") {
		t.Errorf("empty cache output = %q", out.String())
	}

	out.Reset()
	if err := fc.Namespace("teams").Store("international", []byte(`{"list":[]}`)); err != nil {
		t.Fatal(err)
	}
	if err := a.printCacheStatus(fc); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "teams") || !strings.Contains(out.String(), "total") {
		t.Errorf("cache status output:\n%s", out.String())
	}

	out.Reset()
	runs := runlog.NewMemoryStore()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	err := runs.Save(context.Background(), &runlog.RunRecord{
		ID: "run-1", Dataset: "teams", Status: runlog.StatusCompleted,
		StartTime: start, EndTime: start.Add(time.Minute),
		Entities: 4, Succeeded: 4, APICalls: 4,
		Outputs: []runlog.OutputRecord{{Name: "teams", Rows: 120, Written: true}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.printRunStatus(context.Background(), runs); err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(out.String(), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "teams":
			if fields[1] != "completed" || !strings.Contains(line, "120") {
				t.Errorf("teams line = %q", line)
			}
		case "batsmen":
			if fields[1] != "never" {
				t.Errorf("batsmen line = %q", line)
			}
		}
	}
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := humanBytes(tt.n); got != tt.want {
			t.Errorf("humanBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, "-"},
		{"India", "India"},
		{58.2, "58.2"},
		{int64(13906), "13906"},
	}
	for _, tt := range tests {
		if got := formatCell(tt.in); got != tt.want {
			t.Errorf("formatCell(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
