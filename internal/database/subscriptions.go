// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/tomtom215/jandi/internal/models"
)

const (
	tableUsers         = "users"
	tableUserPlatforms = "user_platforms"
)

func subscriptionSelect() sq.SelectBuilder {
	return psql.Select(
		"up.user_id", "COALESCE(u.email, '')", "COALESCE(u.name, '')",
		"up.platform", "up.account_id", "up.last_seen_at", "up.registered_at",
	).
		From("user_platforms up").
		LeftJoin("users u ON u.user_id = up.user_id")
}

func scanSubscriptions(rows *sql.Rows) ([]models.Subscription, error) {
	defer closeWithLog(rows, "rows")

	var subs []models.Subscription
	for rows.Next() {
		var (
			s        models.Subscription
			platform string
			lastSeen sql.NullTime
		)
		if err := rows.Scan(&s.UserID, &s.Email, &s.Name, &platform, &s.AccountID, &lastSeen, &s.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		s.Platform = models.Platform(platform)
		s.RegisteredAt = s.RegisteredAt.UTC()
		if lastSeen.Valid {
			t := lastSeen.Time.UTC()
			s.LastSeenAt = &t
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// ListSubscriptions returns every binding with its owner's contact details.
func (db *DB) ListSubscriptions(ctx context.Context) (subs []models.Subscription, err error) {
	start := time.Now()
	defer func() { observe("select", tableUserPlatforms, start, err) }()

	query, args, err := subscriptionSelect().OrderBy("up.user_id", "up.platform").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return scanSubscriptions(rows)
}

// ListUserSubscriptions returns the bindings of one user.
func (db *DB) ListUserSubscriptions(ctx context.Context, userID string) (subs []models.Subscription, err error) {
	start := time.Now()
	defer func() { observe("select", tableUserPlatforms, start, err) }()

	query, args, err := subscriptionSelect().
		Where(sq.Eq{"up.user_id": userID}).
		OrderBy("up.platform").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list user subscriptions: %w", err)
	}
	return scanSubscriptions(rows)
}

// ListStaleSubscriptions returns bindings silent since before cutoff: the
// watermark is older than cutoff, or it was never set and the binding was
// registered before cutoff.
func (db *DB) ListStaleSubscriptions(ctx context.Context, cutoff time.Time) (subs []models.Subscription, err error) {
	start := time.Now()
	defer func() { observe("select", tableUserPlatforms, start, err) }()

	cutoff = cutoff.UTC()
	query, args, err := subscriptionSelect().
		Where(sq.Or{
			sq.And{sq.NotEq{"up.last_seen_at": nil}, sq.Lt{"up.last_seen_at": cutoff}},
			sq.And{sq.Eq{"up.last_seen_at": nil}, sq.Lt{"up.registered_at": cutoff}},
		}).
		OrderBy("up.user_id", "up.platform").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stale subscriptions: %w", err)
	}
	return scanSubscriptions(rows)
}

// AdvanceWatermark moves last_seen_at forward to t. It never moves it back.
// It reports whether the row changed.
func (db *DB) AdvanceWatermark(ctx context.Context, userID string, platform models.Platform, t time.Time) (changed bool, err error) {
	start := time.Now()
	defer func() { observe("update", tableUserPlatforms, start, err) }()

	t = t.UTC()
	query, args, err := psql.Update(tableUserPlatforms).
		Set("last_seen_at", t).
		Where(sq.Eq{"user_id": userID, "platform": string(platform)}).
		Where(sq.Or{sq.Eq{"last_seen_at": nil}, sq.Lt{"last_seen_at": t}}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("advance watermark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("advance watermark: %w", err)
	}
	return n > 0, nil
}

// ResetWatermark sets last_seen_at to t unconditionally. The inactivity
// notifier uses it to hold off the next reminder.
func (db *DB) ResetWatermark(ctx context.Context, userID string, platform models.Platform, t time.Time) (err error) {
	start := time.Now()
	defer func() { observe("update", tableUserPlatforms, start, err) }()

	query, args, err := psql.Update(tableUserPlatforms).
		Set("last_seen_at", t.UTC()).
		Where(sq.Eq{"user_id": userID, "platform": string(platform)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := db.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset watermark: %w", err)
	}
	return nil
}

// GetUser returns a user. It returns ErrNotFound when absent.
func (db *DB) GetUser(ctx context.Context, userID string) (u models.User, err error) {
	start := time.Now()
	defer func() { observe("select", tableUsers, start, err) }()
	return getUser(ctx, db.conn, userID)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getUser(ctx context.Context, q queryRower, userID string) (models.User, error) {
	var u models.User
	query, args, err := psql.Select("user_id", "email", "name", "created_at").
		From(tableUsers).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return u, fmt.Errorf("build query: %w", err)
	}
	err = q.QueryRowContext(ctx, query, args...).Scan(&u.UserID, &u.Email, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	if err != nil {
		return u, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

// UpsertUser creates the user or updates the contact fields that are set.
// Empty email or name keep the stored value.
func (db *DB) UpsertUser(ctx context.Context, u models.User) (err error) {
	start := time.Now()
	defer func() { observe("upsert", tableUsers, start, err) }()

	return db.inTx(ctx, func(tx *sql.Tx) error {
		existing, err := getUser(ctx, tx, u.UserID)
		switch {
		case errors.Is(err, ErrNotFound):
			if u.CreatedAt.IsZero() {
				u.CreatedAt = time.Now()
			}
			query, args, err := psql.Insert(tableUsers).
				Columns("user_id", "email", "name", "created_at").
				Values(u.UserID, u.Email, u.Name, u.CreatedAt.UTC()).
				ToSql()
			if err != nil {
				return fmt.Errorf("build query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert user: %w", err)
			}
			return nil
		case err != nil:
			return err
		}

		if u.Email == "" {
			u.Email = existing.Email
		}
		if u.Name == "" {
			u.Name = existing.Name
		}
		if u.Email == existing.Email && u.Name == existing.Name {
			return nil
		}
		query, args, err := psql.Update(tableUsers).
			Set("email", u.Email).
			Set("name", u.Name).
			Where(sq.Eq{"user_id": u.UserID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return nil
	})
}

// UpsertSubscription creates the binding or rebinds it to a new account.
// The watermark is overwritten with s.LastSeenAt (which may be nil);
// registered_at keeps its first value.
func (db *DB) UpsertSubscription(ctx context.Context, s models.Subscription) (err error) {
	start := time.Now()
	defer func() { observe("upsert", tableUserPlatforms, start, err) }()

	if s.RegisteredAt.IsZero() {
		s.RegisteredAt = time.Now()
	}
	var lastSeen interface{}
	if s.LastSeenAt != nil {
		lastSeen = s.LastSeenAt.UTC()
	}

	query, args, err := psql.Insert(tableUserPlatforms).
		Columns("user_id", "platform", "account_id", "last_seen_at", "registered_at").
		Values(s.UserID, string(s.Platform), s.AccountID, lastSeen, s.RegisteredAt.UTC()).
		Suffix("ON CONFLICT (user_id, platform) DO UPDATE SET account_id = EXCLUDED.account_id, last_seen_at = EXCLUDED.last_seen_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := db.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// DeleteSubscription removes the binding and every post it owns.
// It returns ErrNotFound when no binding exists.
func (db *DB) DeleteSubscription(ctx context.Context, userID string, platform models.Platform) (err error) {
	start := time.Now()
	defer func() { observe("delete", tableUserPlatforms, start, err) }()

	key := sq.Eq{"user_id": userID, "platform": string(platform)}
	return db.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := psql.Delete(tablePosts).Where(key).ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete posts: %w", err)
		}

		query, args, err = psql.Delete(tableUserPlatforms).Where(key).ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("delete subscription: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete subscription: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
