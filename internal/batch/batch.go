// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/jandi/internal/models"
)

// GlobalKey identifies the single live discovery batch.
const GlobalKey = "global"

// ErrStoreClosed is returned after Close.
var ErrStoreClosed = errors.New("batch store is closed")

// UserKey identifies the backlog batch of one user.
func UserKey(userID string) string {
	return "user:" + userID
}

// Batch is one counter domain.
type Batch struct {
	Key      string          `json:"key"`
	Platform models.Platform `json:"platform,omitempty"`
	Total    int             `json:"total"`
	Current  int             `json:"current"`
	Fired    bool            `json:"fired"`
	OpenedAt time.Time       `json:"opened_at"`
}

// Increment is the outcome of counting one progress signal.
type Increment struct {
	// Found is false when no batch exists under the key.
	Found bool

	// Completed is true only for the increment that reached Total.
	Completed bool

	// Absorbed is true when the batch had already fired.
	Absorbed bool

	Batch Batch
}

// Store persists batches. Implementations are safe for concurrent use.
type Store interface {
	// Open creates the batch, replacing any batch under the same key.
	Open(ctx context.Context, b Batch) error

	// Increment counts one completion. When it reaches Total the batch is
	// deleted if deleteOnFire is set, otherwise marked fired.
	Increment(ctx context.Context, key string, deleteOnFire bool) (Increment, error)

	Get(ctx context.Context, key string) (Batch, bool, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// apply performs the increment on b in place.
func apply(b *Batch) Increment {
	if b.Fired {
		return Increment{Found: true, Absorbed: true, Batch: *b}
	}
	b.Current++
	if b.Current >= b.Total {
		b.Fired = true
		return Increment{Found: true, Completed: true, Batch: *b}
	}
	return Increment{Found: true, Batch: *b}
}

// OpenStore opens the store selected by kind ("memory" or "badger").
func OpenStore(kind, path string) (Store, error) {
	switch kind {
	case "memory":
		return NewMemoryStore(), nil
	case "badger":
		return OpenBadger(path)
	default:
		return nil, fmt.Errorf("unknown batch store %q", kind)
	}
}
