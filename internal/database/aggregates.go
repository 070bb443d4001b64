// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/models"
)

const (
	tablePostAgg  = "post_agg"
	tableUserStat = "user_stat"
)

var rebuildStatements = []string{
	`DELETE FROM post_agg`,
	`INSERT INTO post_agg (category, day, user_id, post_count)
		SELECT category, CAST(published_date AS DATE), user_id, COUNT(*)
		FROM posts
		GROUP BY category, CAST(published_date AS DATE), user_id`,
	`DELETE FROM user_stat`,
	`INSERT INTO user_stat (user_id, category, post_count)
		SELECT user_id, category, COUNT(*)
		FROM posts
		GROUP BY user_id, category`,
}

// RefreshAggregates rebuilds post_agg and user_stat from posts in one
// transaction. Calls are serialized, so redundant or concurrent triggers
// are safe.
func (db *DB) RefreshAggregates(ctx context.Context) (err error) {
	db.refreshMu.Lock()
	defer db.refreshMu.Unlock()

	start := time.Now()
	defer func() { observe("refresh", tablePostAgg, start, err) }()

	err = db.inTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range rebuildStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("rebuild aggregates: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.Debug().Dur("duration", time.Since(start)).Msg("Aggregates refreshed")
	return nil
}

// DailyActivity returns a user's post counts per day and category for days
// in [from, to]. Zero bounds are open.
func (db *DB) DailyActivity(ctx context.Context, userID string, from, to time.Time) (out []models.ActivityRow, err error) {
	start := time.Now()
	defer func() { observe("select", tablePostAgg, start, err) }()

	b := psql.Select("day", "category", "post_count").
		From(tablePostAgg).
		Where(sq.Eq{"user_id": userID})
	if !from.IsZero() {
		b = b.Where(sq.GtOrEq{"day": startOfDay(from)})
	}
	if !to.IsZero() {
		b = b.Where(sq.LtOrEq{"day": startOfDay(to)})
	}
	query, args, err := b.OrderBy("day", "category").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("daily activity: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			r        models.ActivityRow
			category string
		)
		if err := rows.Scan(&r.Day, &category, &r.PostCount); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		r.Category = models.Topic(category)
		out = append(out, r)
	}
	return out, rows.Err()
}

// TopicStats returns a user's post counts per category, largest first.
func (db *DB) TopicStats(ctx context.Context, userID string) (out []models.TopicStat, err error) {
	start := time.Now()
	defer func() { observe("select", tableUserStat, start, err) }()

	query, args, err := psql.Select("category", "post_count").
		From(tableUserStat).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("post_count DESC", "category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("topic stats: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			s        models.TopicStat
			category string
		)
		if err := rows.Scan(&category, &s.PostCount); err != nil {
			return nil, fmt.Errorf("scan topic stat: %w", err)
		}
		s.Category = models.Topic(category)
		out = append(out, s)
	}
	return out, rows.Err()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
