// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package ingest

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/crease/internal/config"
)

func TestLookup_BuiltInDatasets(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = "/data"

	tests := []struct {
		name    string
		outputs []string
		pause   time.Duration
		seed    string
	}{
		{"batsmen", []string{FileBatsmen}, 500 * time.Millisecond, "/data/cricket_player_data.csv[role=BATSMEN]"},
		{"bowlers", []string{FileBowlers}, 2 * time.Second, "/data/cricket_player_data.csv[role=BOWLER]"},
		{"allrounders", []string{FileAllRounderBatting, FileAllRounderBowling}, 5 * time.Second, "/data/cricket_player_data.csv[role=ALL ROUNDER]"},
		{"players-international", []string{FilePlayers}, time.Second, "/data/all_teams.csv[team_type=international]"},
		{"players-league", []string{FileLeaguePlayers}, time.Second, "/data/all_teams.csv[team_type=league]"},
		{"teams", []string{FileTeams}, time.Second, "static[international league domestic women]"},
		{"series", []string{FileSeries}, time.Second, "static[international league domestic women]"},
		{"venues", []string{FileSeriesVenues}, time.Second, "/data/all_cricket_series.csv"},
		{"venue-info", []string{FileVenueInfo}, time.Second, "/data/venue_details.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Lookup(cfg, tt.name)
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if len(ds.Outputs) != len(tt.outputs) {
				t.Fatalf("got %d outputs, want %d", len(ds.Outputs), len(tt.outputs))
			}
			for i, want := range tt.outputs {
				if got := ds.Outputs[i].Path; got != filepath.Join("/data", want) {
					t.Errorf("output %d path = %s", i, got)
				}
			}
			if ds.Pause != tt.pause {
				t.Errorf("Pause = %v, want %v", ds.Pause, tt.pause)
			}
			if got := ds.Seed.String(); got != tt.seed {
				t.Errorf("Seed = %s, want %s", got, tt.seed)
			}
		})
	}
}

func TestLookup_PauseOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Ingest.Pause = 3 * time.Second
	cfg.Ingest.Pauses = map[string]time.Duration{"bowlers": 0}

	batsmen, _ := Lookup(cfg, "batsmen")
	bowlers, _ := Lookup(cfg, "bowlers")
	if batsmen.Pause != 3*time.Second {
		t.Errorf("global override: batsmen pause = %v", batsmen.Pause)
	}
	if bowlers.Pause != 0 {
		t.Errorf("per-dataset override: bowlers pause = %v", bowlers.Pause)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup(config.Default(), "umpires")
	if !errors.Is(err, ErrUnknownDataset) {
		t.Errorf("error = %v, want ErrUnknownDataset", err)
	}
}

func TestDatasetsAndFiles(t *testing.T) {
	cfg := config.Default()
	if got := len(Datasets(cfg)); got != len(Names()) {
		t.Errorf("Datasets() = %d, Names() = %d", got, len(Names()))
	}
	if got := len(OutputFiles()); got != 10 {
		t.Errorf("OutputFiles() = %d files, want 10", got)
	}
	if ds, ok := FileDataset(FileAllRounderBowling); !ok || ds != "allrounders" {
		t.Errorf("FileDataset() = %s, %v", ds, ok)
	}
	if _, ok := FileDataset("scorecards.csv"); ok {
		t.Error("unknown file should not map to a dataset")
	}
}
