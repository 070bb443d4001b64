// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tomtom215/jandi/internal/logging"
)

const (
	maxConflictRetries = 3
	conflictBackoff    = 50 * time.Millisecond
)

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(db.maxOpenConns())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

func (db *DB) maxOpenConns() int {
	if db.driver == DriverDuckDB {
		return 4
	}
	return 10
}

// isTransactionConflict checks if an error is a DuckDB transaction conflict
// or a PostgreSQL serialization failure.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on update") ||
		strings.Contains(errStr, "could not serialize access") ||
		strings.Contains(errStr, "SQLSTATE 40001")
}

// inTx runs fn in a transaction, retrying a few times on write conflicts.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		if attempt > 0 {
			logging.Debug().Int("attempt", attempt).Err(err).Msg("Retrying transaction after conflict")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * conflictBackoff):
			}
		}

		err = db.runTx(ctx, fn)
		if !isTransactionConflict(err) {
			return err
		}
	}
	return err
}

func (db *DB) runTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
