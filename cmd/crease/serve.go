// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/crease/internal/api"
	"github.com/tomtom215/crease/internal/ingest"
	"github.com/tomtom215/crease/internal/logging"
	"github.com/tomtom215/crease/internal/report"
	"github.com/tomtom215/crease/internal/supervisor"
	"github.com/tomtom215/crease/internal/supervisor/services"
)

func newServeCmd(a *app) *cobra.Command {
	var watchInterval time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reporting API",
		Long: `Serve the reporting API under /api/v1 and Prometheus metrics at /metrics.

The consolidated tables are polled for changes, so tables rewritten by a
concurrent "crease ingest" are picked up without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context(), watchInterval)
		},
	}
	cmd.Flags().DurationVar(&watchInterval, "watch-interval", 10*time.Second, "how often to check the tables for changes")
	return cmd
}

func (a *app) runServe(ctx context.Context, watchInterval time.Duration) error {
	cfg := a.cfg
	logging.Info().Str("version", version).Msg("Starting crease reporting API with supervisor tree")

	engine, err := report.Open(ctx, cfg.Output.Dir, ingest.OutputFiles())
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing report engine")
		}
	}()
	logging.Info().Strs("tables", engine.Tables()).Str("dir", cfg.Output.Dir).Msg("Report engine initialized")

	opts := []api.HandlerOption{api.WithVersion(version)}
	if runs := a.openRunLog(); runs != nil {
		defer func() {
			if err := runs.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing run log")
			}
		}()
		opts = append(opts, api.WithRunLog(runs))
	}
	handler := api.NewHandler(cfg, engine, opts...)
	defer handler.Close()

	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(&cfg.Server)))
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout + 5*time.Second
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		return err
	}
	tree.AddDataService(services.NewTableWatcher(cfg.Output.Dir, ingest.OutputFiles(), watchInterval, handler))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	a.good.Fprintf(a.out, "Serving on http://%s/api/v1\n", server.Addr)
	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
			return err
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	logging.Info().Msg("Reporting API stopped gracefully")
	return nil
}
