// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package database

import (
	"context"
	"fmt"
)

// tableQueries works on both DuckDB and PostgreSQL. Timestamps are stored
// as UTC without a zone.
var tableQueries = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		email TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_platforms (
		user_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		account_id TEXT NOT NULL,
		last_seen_at TIMESTAMP,
		registered_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, platform)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		url TEXT NOT NULL,
		user_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		published_date TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (url, user_id, platform)
	)`,
	`CREATE TABLE IF NOT EXISTS post_agg (
		category TEXT NOT NULL,
		day DATE NOT NULL,
		user_id TEXT NOT NULL,
		post_count BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_stat (
		user_id TEXT NOT NULL,
		category TEXT NOT NULL,
		post_count BIGINT NOT NULL
	)`,
}

var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(user_id, platform)`,
	`CREATE INDEX IF NOT EXISTS idx_post_agg_user_day ON post_agg(user_id, day)`,
	`CREATE INDEX IF NOT EXISTS idx_user_stat_user ON user_stat(user_id)`,
}

// createTables creates the schema if it does not exist
func (db *DB) createTables(ctx context.Context) error {
	for _, query := range tableQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	for _, query := range indexQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}
