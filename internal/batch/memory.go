// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package batch

import (
	"context"
	"sync"
)

// MemoryStore keeps batches in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	batches map[string]Batch
	closed  bool
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{batches: make(map[string]Batch)}
}

func (s *MemoryStore) Open(_ context.Context, b Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.batches[b.Key] = b
	return nil
}

func (s *MemoryStore) Increment(_ context.Context, key string, deleteOnFire bool) (Increment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Increment{}, ErrStoreClosed
	}

	b, ok := s.batches[key]
	if !ok {
		return Increment{}, nil
	}

	res := apply(&b)
	if res.Completed && deleteOnFire {
		delete(s.batches, key)
	} else {
		s.batches[key] = b
	}
	return res, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Batch, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Batch{}, false, ErrStoreClosed
	}
	b, ok := s.batches[key]
	return b, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	delete(s.batches, key)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
