// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

/*
Package services provides suture.Service wrappers for the serve command.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer so suture's event log names it.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the ListenAndServe pattern to Serve

Table Watcher (TableWatcher):
  - Polls the consolidated CSV files for size or mtime changes
  - Calls Refresh on the API handler, which reloads DuckDB views and drops
    cached report results

# Usage

	tree.AddDataService(services.NewTableWatcher(cfg.Output.Dir, ingest.OutputFiles(), 10*time.Second, handler))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
*/
package services
