// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package ingest

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/crease/internal/config"
	"github.com/tomtom215/crease/internal/cricbuzz"
	"github.com/tomtom215/crease/internal/parser"
	"github.com/tomtom215/crease/internal/seed"
)

// ErrUnknownDataset is returned by Lookup for a name with no dataset.
var ErrUnknownDataset = errors.New("unknown dataset")

// Output files written by the built-in datasets.
const (
	FileBatsmen           = "all_batsmen_stats.csv"
	FileBowlers           = "all_bowlers_stats.csv"
	FileAllRounderBatting = "all_rounders_batting_stats.csv"
	FileAllRounderBowling = "all_rounders_bowling_stats.csv"
	FilePlayers           = "cricket_player_data.csv"
	FileLeaguePlayers     = "cricket_player_league_data.csv"
	FileTeams             = "all_teams.csv"
	FileSeries            = "all_cricket_series.csv"
	FileSeriesVenues      = "venue_details.csv"
	FileVenueInfo         = "venue_info.csv"
)

// TeamTypes and SeriesTypes are the category listings fetched by the teams
// and series datasets.
var (
	TeamTypes   = []string{"international", "league", "domestic", "women"}
	SeriesTypes = []string{"international", "league", "domestic", "women"}
)

// SeedSpec describes where a dataset's entities come from: a CSV table or a
// fixed list of names.
type SeedSpec struct {
	Source *seed.Source
	Static []string
}

// Load returns the seed entities.
func (s SeedSpec) Load() ([]seed.Entity, error) {
	if s.Source == nil {
		return seed.Static(s.Static...), nil
	}
	return seed.Load(*s.Source)
}

// String describes the seed for logs.
func (s SeedSpec) String() string {
	if s.Source == nil {
		return fmt.Sprintf("static%v", s.Static)
	}
	return s.Source.String()
}

// Output is one consolidated table produced by a dataset.
type Output struct {
	// Name labels the output in logs, metrics and run records.
	Name     string
	Endpoint cricbuzz.Endpoint
	Parser   parser.Parser
	// Path is the CSV file, resolved against the output directory.
	Path string
}

// Dataset is a named ingestion job.
type Dataset struct {
	Name        string
	Description string
	Seed        SeedSpec
	Outputs     []Output
	// Pause is the minimum spacing between entities that need the network.
	Pause time.Duration
}

type datasetDef struct {
	name        string
	description string
	pause       time.Duration
	seed        func(cfg *config.Config) SeedSpec
	outputs     []outputDef
}

type outputDef struct {
	name     string
	endpoint cricbuzz.Endpoint
	parser   parser.Parser
	file     string
}

func playersSeed(role string) func(cfg *config.Config) SeedSpec {
	return func(cfg *config.Config) SeedSpec {
		return SeedSpec{Source: &seed.Source{
			Path:         cfg.OutputPath(cfg.Ingest.PlayersSeed),
			IDColumn:     "id",
			NameColumn:   "name",
			FilterColumn: "role",
			FilterValue:  role,
		}}
	}
}

func teamsSeed(teamType string) func(cfg *config.Config) SeedSpec {
	return func(cfg *config.Config) SeedSpec {
		return SeedSpec{Source: &seed.Source{
			Path:         cfg.OutputPath(cfg.Ingest.TeamsSeed),
			IDColumn:     "teamId",
			NameColumn:   "teamName",
			FilterColumn: "team_type",
			FilterValue:  teamType,
			Dedupe:       true,
		}}
	}
}

func staticSeed(names []string) func(cfg *config.Config) SeedSpec {
	return func(*config.Config) SeedSpec {
		return SeedSpec{Static: append([]string(nil), names...)}
	}
}

var definitions = []datasetDef{
	{
		name:        "batsmen",
		description: "Career batting stats of every player listed as a batsman",
		pause:       500 * time.Millisecond,
		seed:        playersSeed("BATSMEN"),
		outputs: []outputDef{
			{"batting", cricbuzz.PlayerBatting, parser.NewTableParser(parser.BattingSchema), FileBatsmen},
		},
	},
	{
		name:        "bowlers",
		description: "Career bowling stats of every player listed as a bowler",
		pause:       2 * time.Second,
		seed:        playersSeed("BOWLER"),
		outputs: []outputDef{
			{"bowling", cricbuzz.PlayerBowling, parser.NewTableParser(parser.BowlingSchema), FileBowlers},
		},
	},
	{
		name:        "allrounders",
		description: "Career batting and bowling stats of every all-rounder",
		pause:       5 * time.Second,
		seed:        playersSeed("ALL ROUNDER"),
		outputs: []outputDef{
			{"batting", cricbuzz.PlayerBatting, parser.NewTableParser(parser.AllRounderBattingSchema), FileAllRounderBatting},
			{"bowling", cricbuzz.PlayerBowling, parser.NewTableParser(parser.BowlingSchema), FileAllRounderBowling},
		},
	},
	{
		name:        "players-international",
		description: "Squads of every international team",
		pause:       time.Second,
		seed:        teamsSeed("international"),
		outputs: []outputDef{
			{"roster", cricbuzz.TeamPlayers, parser.RosterParser{}, FilePlayers},
		},
	},
	{
		name:        "players-league",
		description: "Squads of every league team",
		pause:       time.Second,
		seed:        teamsSeed("league"),
		outputs: []outputDef{
			{"roster", cricbuzz.TeamPlayers, parser.RosterParser{}, FileLeaguePlayers},
		},
	},
	{
		name:        "teams",
		description: "Team listings by category",
		pause:       time.Second,
		seed:        staticSeed(TeamTypes),
		outputs: []outputDef{
			{"teams", cricbuzz.TeamsByType, parser.TeamListParser{}, FileTeams},
		},
	},
	{
		name:        "series",
		description: "Series listings by category",
		pause:       time.Second,
		seed:        staticSeed(SeriesTypes),
		outputs: []outputDef{
			{"series", cricbuzz.SeriesByType, parser.SeriesParser{}, FileSeries},
		},
	},
	{
		name:        "venues",
		description: "Venues hosting every known series",
		pause:       time.Second,
		seed: func(cfg *config.Config) SeedSpec {
			return SeedSpec{Source: &seed.Source{
				Path:       cfg.OutputPath(cfg.Ingest.SeriesSeed),
				IDColumn:   "id",
				NameColumn: "name",
			}}
		},
		outputs: []outputDef{
			{"series_venues", cricbuzz.SeriesVenues, parser.SeriesVenueParser{}, FileSeriesVenues},
		},
	},
	{
		name:        "venue-info",
		description: "Ground details of every known venue",
		pause:       time.Second,
		seed: func(cfg *config.Config) SeedSpec {
			return SeedSpec{Source: &seed.Source{
				Path:       cfg.OutputPath(cfg.Ingest.VenuesSeed),
				IDColumn:   "id",
				NameColumn: "ground",
				Dedupe:     true,
			}}
		},
		outputs: []outputDef{
			{"venue", cricbuzz.Venue, parser.VenueParser{}, FileVenueInfo},
		},
	},
}

func (d datasetDef) build(cfg *config.Config) Dataset {
	ds := Dataset{
		Name:        d.name,
		Description: d.description,
		Seed:        d.seed(cfg),
		Pause:       cfg.Ingest.PauseFor(d.name, d.pause),
	}
	for _, o := range d.outputs {
		ds.Outputs = append(ds.Outputs, Output{
			Name:     o.name,
			Endpoint: o.endpoint,
			Parser:   o.parser,
			Path:     cfg.OutputPath(o.file),
		})
	}
	return ds
}

// Datasets returns every built-in dataset configured for cfg, in a stable
// order suited to a full refresh (teams before squads before player stats).
func Datasets(cfg *config.Config) []Dataset {
	order := []string{"teams", "players-international", "players-league", "batsmen", "bowlers",
		"allrounders", "series", "venues", "venue-info"}
	out := make([]Dataset, 0, len(order))
	for _, name := range order {
		ds, _ := Lookup(cfg, name)
		out = append(out, ds)
	}
	return out
}

// Lookup returns the named dataset configured for cfg.
func Lookup(cfg *config.Config, name string) (Dataset, error) {
	for _, d := range definitions {
		if d.name == name {
			return d.build(cfg), nil
		}
	}
	return Dataset{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownDataset, name, Names())
}

// Names returns the built-in dataset names, sorted.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for _, d := range definitions {
		names = append(names, d.name)
	}
	sort.Strings(names)
	return names
}

// OutputFiles returns every CSV file name the built-in datasets write, in
// definition order without duplicates.
func OutputFiles() []string {
	seen := make(map[string]bool)
	var files []string
	for _, d := range definitions {
		for _, o := range d.outputs {
			if !seen[o.file] {
				seen[o.file] = true
				files = append(files, o.file)
			}
		}
	}
	return files
}

// FileDataset maps an output file name to the dataset that writes it.
func FileDataset(file string) (string, bool) {
	for _, d := range definitions {
		for _, o := range d.outputs {
			if o.file == file {
				return d.name, true
			}
		}
	}
	return "", false
}
