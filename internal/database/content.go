// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package database

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/tomtom215/jandi/internal/models"
)

const tablePosts = "posts"

// ContentExists reports whether a post with this identity is stored.
func (db *DB) ContentExists(ctx context.Context, url, userID string, platform models.Platform) (exists bool, err error) {
	start := time.Now()
	defer func() { observe("select", tablePosts, start, err) }()

	query, args, err := psql.Select("COUNT(*)").
		From(tablePosts).
		Where(sq.Eq{"url": url, "user_id": userID, "platform": string(platform)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var n int64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("check content: %w", err)
	}
	return n > 0, nil
}

// InsertContent stores a classified post. A post with the same identity is
// left untouched; inserted reports whether a row was written.
func (db *DB) InsertContent(ctx context.Context, item models.ContentItem) (inserted bool, err error) {
	start := time.Now()
	defer func() { observe("insert", tablePosts, start, err) }()

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	query, args, err := psql.Insert(tablePosts).
		Columns("url", "user_id", "platform", "title", "category", "published_date", "created_at").
		Values(item.URL, item.UserID, string(item.Platform), item.Title, string(item.Category),
			item.PublishedDate.UTC(), item.CreatedAt.UTC()).
		Suffix("ON CONFLICT (url, user_id, platform) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert content: %w", err)
	}
	return n > 0, nil
}

// CountContent returns how many posts a user has on a platform.
func (db *DB) CountContent(ctx context.Context, userID string, platform models.Platform) (n int, err error) {
	start := time.Now()
	defer func() { observe("select", tablePosts, start, err) }()

	query, args, err := psql.Select("COUNT(*)").
		From(tablePosts).
		Where(sq.Eq{"user_id": userID, "platform": string(platform)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count content: %w", err)
	}
	return n, nil
}
