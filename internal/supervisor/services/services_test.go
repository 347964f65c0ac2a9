// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// mockHTTPServer is a test double for HTTPServer.
type mockHTTPServer struct {
	listenErr     error
	shutdownCount atomic.Int32
	started       chan struct{}
	stopCh        chan struct{}
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{
		started: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.started <- struct{}{}
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.stopCh
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdownCount.Add(1)
	close(m.stopCh)
	return nil
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	server := newMockHTTPServer()
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-server.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if server.shutdownCount.Load() != 1 {
		t.Errorf("Shutdown called %d times", server.shutdownCount.Load())
	}
	if svc.String() != "http-server" {
		t.Errorf("String() = %s", svc.String())
	}
}

func TestHTTPServerService_ListenError(t *testing.T) {
	server := newMockHTTPServer()
	server.listenErr = errors.New("address already in use")
	svc := NewHTTPServerService(server, 0)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, server.listenErr) {
		t.Errorf("Serve() = %v, want wrapped listen error", err)
	}
}

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.calls.Add(1)
	return r.err
}

func TestTableWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "all_batsmen_stats.csv")
	if err := os.WriteFile(path, []byte("player_id\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	refresher := &countingRefresher{}
	w := NewTableWatcher(dir, []string{"all_batsmen_stats.csv", "venue_info.csv"}, 10*time.Millisecond, refresher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Serve(ctx) }()

	// Unchanged files trigger nothing.
	time.Sleep(50 * time.Millisecond)
	if got := refresher.calls.Load(); got != 0 {
		t.Fatalf("refresh called %d times without changes", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "venue_info.csv"), []byte("id\n31\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for refresher.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := refresher.calls.Load(); got != 1 {
		t.Errorf("refresh called %d times after a new file, want 1", got)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
}

func TestTableWatcher_RefreshErrorStopsService(t *testing.T) {
	dir := t.TempDir()
	refresher := &countingRefresher{err: errors.New("duckdb closed")}
	w := NewTableWatcher(dir, []string{"all_teams.csv"}, 10*time.Millisecond, refresher)

	done := make(chan error, 1)
	go func() { done <- w.Serve(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "all_teams.csv"), []byte("teamId\n2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, refresher.err) {
			t.Errorf("Serve() = %v, want wrapped refresh error", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on refresh error")
	}
}
