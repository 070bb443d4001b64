// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/jandi/internal/logging"
)

const keyPrefix = "batch:"

// maxConflictRetries bounds optimistic transaction retries on ErrConflict.
const maxConflictRetries = 16

// BadgerStore keeps batches in BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool

	// incMu serializes read-modify-write cycles within this process.
	// ErrConflict retries still cover other writers on the same keys.
	incMu sync.Mutex
}

// OpenBadger opens (or creates) the store at path.
func OpenBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = true
	opts.Logger = nil
	return openBadger(opts, path)
}

// OpenBadgerInMemory opens a store that keeps nothing on disk.
func OpenBadgerInMemory() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return openBadger(opts, ":memory:")
}

func openBadger(opts badger.Options, path string) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	logging.Info().Str("path", path).Msg("batch store opened")
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

func (s *BadgerStore) Open(_ context.Context, b Batch) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.incMu.Lock()
	defer s.incMu.Unlock()

	data, err := json.Marshal(&b)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+b.Key), data)
	})
}

func (s *BadgerStore) Increment(ctx context.Context, key string, deleteOnFire bool) (Increment, error) {
	if err := s.checkOpen(); err != nil {
		return Increment{}, err
	}

	s.incMu.Lock()
	defer s.incMu.Unlock()

	var res Increment
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		res = Increment{}
		err := s.db.Update(func(txn *badger.Txn) error {
			b, found, err := readBatch(txn, key)
			if err != nil || !found {
				return err
			}

			res = apply(&b)
			if res.Completed && deleteOnFire {
				return txn.Delete([]byte(keyPrefix + key))
			}
			data, err := json.Marshal(&b)
			if err != nil {
				return fmt.Errorf("marshal batch: %w", err)
			}
			return txn.Set([]byte(keyPrefix+key), data)
		})
		if errors.Is(err, badger.ErrConflict) {
			if ctx.Err() != nil {
				return Increment{}, ctx.Err()
			}
			continue
		}
		if err != nil {
			return Increment{}, fmt.Errorf("increment batch %s: %w", key, err)
		}
		return res, nil
	}
	return Increment{}, fmt.Errorf("increment batch %s: %w", key, badger.ErrConflict)
}

func (s *BadgerStore) Get(_ context.Context, key string) (Batch, bool, error) {
	if err := s.checkOpen(); err != nil {
		return Batch{}, false, err
	}
	var (
		b     Batch
		found bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		b, found, err = readBatch(txn, key)
		return err
	})
	if err != nil {
		return Batch{}, false, fmt.Errorf("get batch %s: %w", key, err)
	}
	return b, found, nil
}

func (s *BadgerStore) Delete(_ context.Context, key string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + key))
	})
}

// gcDiscardRatio is the share of stale data a value log file needs before
// it is rewritten.
const gcDiscardRatio = 0.5

// RunGC reclaims value log space left by deleted and rewritten batches.
// It loops until Badger finds nothing more to rewrite.
func (s *BadgerStore) RunGC(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	for ctx.Err() == nil {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("batch store GC: %w", err)
		}
	}
	return ctx.Err()
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}

func readBatch(txn *badger.Txn, key string) (Batch, bool, error) {
	var b Batch
	item, err := txn.Get([]byte(keyPrefix + key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return b, false, nil
	}
	if err != nil {
		return b, false, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &b)
	})
	if err != nil {
		return b, false, fmt.Errorf("unmarshal batch: %w", err)
	}
	return b, true, nil
}
