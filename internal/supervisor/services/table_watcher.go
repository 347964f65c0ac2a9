// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomtom215/crease/internal/logging"
)

// Refresher reloads state derived from the consolidated tables.
// *api.Handler implements it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// TableWatcher polls the consolidated CSV files and calls Refresh when any
// of them is created, rewritten or removed. Ingestion runs in a separate
// process, so polling is the only signal available.
type TableWatcher struct {
	dir       string
	files     []string
	interval  time.Duration
	refresher Refresher
	name      string
}

// NewTableWatcher creates a watcher over files in dir. interval defaults to
// 10 seconds.
func NewTableWatcher(dir string, files []string, interval time.Duration, r Refresher) *TableWatcher {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &TableWatcher{
		dir:       dir,
		files:     append([]string(nil), files...),
		interval:  interval,
		refresher: r,
		name:      "table-watcher",
	}
}

// Serve implements suture.Service. The first fingerprint is the baseline;
// the caller is expected to have loaded the tables already. A failed
// refresh is returned so suture restarts the watcher with backoff.
func (w *TableWatcher) Serve(ctx context.Context) error {
	last, err := w.fingerprint()
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			current, err := w.fingerprint()
			if err != nil {
				return err
			}
			if current == last {
				continue
			}
			logging.Info().Str("dir", w.dir).Msg("Consolidated tables changed, refreshing report views")
			if err := w.refresher.Refresh(ctx); err != nil {
				return fmt.Errorf("refresh report views: %w", err)
			}
			last = current
		}
	}
}

// fingerprint summarizes size and modification time of every watched file.
func (w *TableWatcher) fingerprint() (string, error) {
	var b strings.Builder
	for _, file := range w.files {
		fi, err := os.Stat(filepath.Join(w.dir, file))
		switch {
		case errors.Is(err, os.ErrNotExist):
			fmt.Fprintf(&b, "%s:-;", file)
		case err != nil:
			return "", fmt.Errorf("stat %s: %w", file, err)
		default:
			fmt.Fprintf(&b, "%s:%d:%d;", file, fi.Size(), fi.ModTime().UnixNano())
		}
	}
	return b.String(), nil
}

// String implements fmt.Stringer for logging.
func (w *TableWatcher) String() string {
	return w.name
}
