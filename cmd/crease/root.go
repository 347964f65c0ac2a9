// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tomtom215/crease/internal/config"
	"github.com/tomtom215/crease/internal/logging"
)

// app carries state shared by every subcommand. cfg is populated by the root
// command's PersistentPreRunE before any RunE executes.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	out    io.Writer
	logOut io.Writer

	heading *color.Color
	good    *color.Color
	warn    *color.Color
	bad     *color.Color
	faint   *color.Color
}

func newApp(out io.Writer) *app {
	return &app{
		out:     out,
		logOut:  os.Stderr,
		heading: color.New(color.FgCyan, color.Bold),
		good:    color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		bad:     color.New(color.FgRed),
		faint:   color.New(color.Faint),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "crease",
		Short:         "Cricket statistics ingestion and reporting",
		Long:          color.CyanString("Crease - fetch Cricbuzz statistics into consolidated tables and report on them"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: crease.yaml or $CONFIG_PATH)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: json or console")

	root.AddCommand(
		newIngestCmd(a),
		newLiveCmd(a),
		newDatasetsCmd(a),
		newStatusCmd(a),
		newMirrorCmd(a),
		newExportCmd(a),
		newReportCmd(a),
		newServeCmd(a),
	)
	return root
}

// loadConfig reads configuration, applies the logging flag overrides and
// initializes the global logger.
func (a *app) loadConfig() error {
	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		if !logging.ValidLevel(a.logLevel) {
			return fmt.Errorf("invalid --log-level %q", a.logLevel)
		}
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		if a.logFormat != "json" && a.logFormat != "console" {
			return fmt.Errorf("invalid --log-format %q (want json or console)", a.logFormat)
		}
		cfg.Logging.Format = a.logFormat
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    a.logOut,
	})
	logging.Debug().
		Str("output_dir", cfg.Output.Dir).
		Str("cache_dir", cfg.Cache.Dir).
		Str("api_key", logging.Redact(cfg.API.Key)).
		Msg("Configuration loaded")

	a.cfg = cfg
	return nil
}

// printf writes to the command output, ignoring write errors like fmt.Printf.
func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}
