// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

var battingCols = []string{"player_id", "player_name", "format", "runs", "average", "highest_score"}

func battingTable() *Table {
	return &Table{
		Name:    "all_batsmen_stats",
		Columns: battingCols,
		Rows: [][]string{
			{"1413", "Virat Kohli", "Test", "8848", "47.8", "254"},
			{"1413", "Virat Kohli", "ODI", "13906", "58.2", "183"},
			{"576", "Rohit Sharma", "T20", "4231", "", "121*"},
		},
	}
}

func TestWriteCSV_ReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "all_batsmen_stats.csv")
	tbl := battingTable()

	if err := WriteCSV(path, tbl.Columns, tbl.Rows); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got.Name != "all_batsmen_stats" {
		t.Errorf("Name = %q", got.Name)
	}
	if !reflect.DeepEqual(got.Columns, tbl.Columns) {
		t.Errorf("Columns = %v, want %v", got.Columns, tbl.Columns)
	}
	if !reflect.DeepEqual(got.Rows, tbl.Rows) {
		t.Errorf("Rows = %v, want %v", got.Rows, tbl.Rows)
	}

	n, err := CountRows(path)
	if err != nil || n != 3 {
		t.Errorf("CountRows() = %d, %v; want 3", n, err)
	}
}

func TestWriteCSV_EmptyKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all_bowlers_stats.csv")
	if err := WriteCSV(path, []string{"player_id", "wickets"}, [][]string{{"9311", "159"}, {"1", "2"}}); err != nil {
		t.Fatal(err)
	}

	if err := WriteCSV(path, []string{"player_id", "wickets"}, nil); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("empty write error = %v, want ErrEmptyTable", err)
	}

	n, err := CountRows(path)
	if err != nil || n != 2 {
		t.Errorf("previous file must survive an empty write: rows = %d, err = %v", n, err)
	}
}

func TestWriteCSV_RaggedRowLeavesNoTrace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.csv")

	if err := WriteCSV(path, []string{"a", "b"}, [][]string{{"1", "2"}, {"3"}}); err == nil {
		t.Fatal("expected error for ragged row")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("no output or temp file should remain, found %d entries", len(entries))
	}
}

func TestReadCSV_PadsShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venue_details.csv")
	if err := os.WriteFile(path, []byte("\ufeffid,ground,city\n31,Eden Gardens\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"id", "ground", "city"}; !reflect.DeepEqual(got.Columns, want) {
		t.Errorf("Columns = %v, want %v", got.Columns, want)
	}
	if want := [][]string{{"31", "Eden Gardens", ""}}; !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("Rows = %v, want %v", got.Rows, want)
	}
}

func TestLoadTables_SkipsMissing(t *testing.T) {
	dir := t.TempDir()
	if err := WriteCSV(filepath.Join(dir, "all_teams.csv"), []string{"teamId"}, [][]string{{"2"}}); err != nil {
		t.Fatal(err)
	}

	tables, err := LoadTables(dir, []string{"cricket_player_data.csv", "all_teams.csv"})
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 1 || tables[0].Name != "all_teams" {
		t.Errorf("tables = %+v, want only all_teams", tables)
	}
}

func TestInferTypes(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
		want  []string
	}{
		{"batting", battingTable(), []string{TypeInteger, TypeText, TypeText, TypeInteger, TypeReal, TypeText}},
		{"blank column", &Table{Columns: []string{"x"}, Rows: [][]string{{""}, {" "}}}, []string{TypeText}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferTypes(tt.table); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("InferTypes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMirrorTables_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "CricBuzz_database.db")
	ctx := context.Background()

	bowling := &Table{
		Name:    "all_bowlers_stats",
		Columns: []string{"player_id", "4w", "eco"},
		Rows:    [][]string{{"9311", "3", "4.6"}},
	}
	if err := MirrorTables(ctx, dbPath, []*Table{battingTable(), bowling}); err != nil {
		t.Fatalf("MirrorTables() error = %v", err)
	}

	m, err := OpenMirror(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	count := func(query string) int {
		t.Helper()
		var n int
		if err := m.DB().QueryRowContext(ctx, query).Scan(&n); err != nil {
			t.Fatalf("%s: %v", query, err)
		}
		return n
	}
	if n := count(`SELECT COUNT(*) FROM all_batsmen_stats`); n != 3 {
		t.Errorf("batting rows = %d, want 3", n)
	}

	colTypes := []struct{ table, col, want string }{
		{"all_batsmen_stats", "runs", TypeInteger},
		{"all_batsmen_stats", "average", TypeReal},
		{"all_batsmen_stats", "highest_score", TypeText},
		{"all_bowlers_stats", "4w", TypeInteger},
	}
	for _, c := range colTypes {
		var typ string
		if err := m.DB().QueryRowContext(ctx,
			`SELECT type FROM pragma_table_info(?) WHERE name = ?`, c.table, c.col).Scan(&typ); err != nil {
			t.Fatalf("type of %s.%s: %v", c.table, c.col, err)
		}
		if typ != c.want {
			t.Errorf("%s.%s type = %s, want %s", c.table, c.col, typ, c.want)
		}
	}

	if n := count(`SELECT COUNT(*) FROM all_batsmen_stats WHERE average IS NULL`); n != 1 {
		t.Errorf("NULL averages = %d, want 1", n)
	}

	// Mirroring again replaces rather than appends.
	if err := m.ReplaceTable(ctx, battingTable()); err != nil {
		t.Fatal(err)
	}
	if n := count(`SELECT COUNT(*) FROM all_batsmen_stats`); n != 3 {
		t.Errorf("rows after replace = %d, want 3", n)
	}
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crease.xlsx")
	teams := &Table{
		Name:    "all_teams",
		Columns: []string{"teamId", "teamName"},
		Rows:    [][]string{{"2", "India"}, {"27", "Ireland"}},
	}

	if err := ExportXLSX(path, []*Table{battingTable(), teams}); err != nil {
		t.Fatalf("ExportXLSX() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got, want := f.GetSheetList(), []string{"all_batsmen_stats", "all_teams"}; !reflect.DeepEqual(got, want) {
		t.Errorf("sheets = %v, want %v", got, want)
	}

	rows, err := f.GetRows("all_teams")
	if err != nil {
		t.Fatal(err)
	}
	if want := [][]string{{"teamId", "teamName"}, {"2", "India"}, {"27", "Ireland"}}; !reflect.DeepEqual(rows, want) {
		t.Errorf("all_teams rows = %v, want %v", rows, want)
	}

	v, err := f.GetCellValue("all_batsmen_stats", "D2")
	if err != nil || v != "8848" {
		t.Errorf("D2 = %q, %v; want 8848", v, err)
	}
}

func TestSheetName(t *testing.T) {
	if got := SheetName("all_rounders_batting_stats"); got != "all_rounders_batting_stats" {
		t.Errorf("SheetName() = %q", got)
	}
	if got := SheetName("cricket_player_league_data_with_a_long_suffix"); len([]rune(got)) != 31 {
		t.Errorf("long SheetName() = %q, want 31 runes", got)
	}
}

func TestQuoteIdent(t *testing.T) {
	tests := map[string]string{
		"4w":  `"4w"`,
		`a"b`: `"a""b"`,
	}
	for in, want := range tests {
		if got := QuoteIdent(in); got != want {
			t.Errorf("QuoteIdent(%q) = %s, want %s", in, got, want)
		}
	}
}
