// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package runlog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/crease/internal/logging"
)

// keyPrefix namespaces run records. Keys are
// run:<dataset>:<start unix nanos, zero padded>:<id>, so a reverse prefix
// scan yields a dataset's runs newest first.
const keyPrefix = "run:"

func runKey(r *RunRecord) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d:%s", keyPrefix, r.Dataset, r.StartTime.UnixNano(), r.ID))
}

func datasetPrefix(dataset string) []byte {
	if dataset == "" {
		return []byte(keyPrefix)
	}
	return []byte(keyPrefix + dataset + ":")
}

// BadgerStore implements Store on BadgerDB.
type BadgerStore struct {
	db    *badger.DB
	owned bool
}

// NewBadgerStore wraps an open BadgerDB. The caller keeps ownership of db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// OpenBadgerStore opens (creating if needed) a BadgerDB at dir. Close releases it.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(&badgerLogger{logger: logging.WithComponent("runlog")})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", dir, err)
	}
	return &BadgerStore{db: db, owned: true}, nil
}

// Close closes the database if this store opened it.
func (s *BadgerStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// Save implements Store.
func (s *BadgerStore) Save(ctx context.Context, rec *RunRecord) error {
	if rec.ID == "" || rec.Dataset == "" {
		return errors.New("run record needs an id and a dataset")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(rec), data)
	})
}

// Latest implements Store.
func (s *BadgerStore) Latest(ctx context.Context, dataset string) (*RunRecord, error) {
	runs, err := s.List(ctx, dataset, 1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return runs[0], nil
}

// List implements Store.
func (s *BadgerStore) List(ctx context.Context, dataset string, limit int) ([]*RunRecord, error) {
	prefix := datasetPrefix(dataset)
	var runs []*RunRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts at the last key <= seek, so seek past the prefix.
		seek := append(append([]byte(nil), prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec RunRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			runs = append(runs, &rec)

			// Within one dataset keys are already newest first.
			if dataset != "" && limit > 0 && len(runs) >= limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	if dataset == "" {
		sortNewestFirst(runs)
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// badgerLogger routes Badger's internal logs through zerolog. Info and
// debug chatter is demoted to debug.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
