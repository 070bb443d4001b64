// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/jandi/internal/models"
)

// storeContract runs the same behaviour checks against any driver. newDB
// must return an empty store.
func storeContract(t *testing.T, newDB func(t *testing.T) *DB) {
	t.Run("watermark never moves backwards", func(t *testing.T) {
		db := newDB(t)
		ctx := context.Background()
		seedSubscription(t, db, "u1", models.PlatformVelog, nil)

		day3 := day(3)
		changed, err := db.AdvanceWatermark(ctx, "u1", models.PlatformVelog, day3)
		if err != nil || !changed {
			t.Fatalf("AdvanceWatermark(day3) = %v, %v", changed, err)
		}

		changed, err = db.AdvanceWatermark(ctx, "u1", models.PlatformVelog, day(1))
		if err != nil {
			t.Fatalf("AdvanceWatermark(day1) error = %v", err)
		}
		if changed {
			t.Error("older watermark must not be written")
		}

		sub := onlySubscription(t, db, "u1")
		if sub.LastSeenAt == nil || !sub.LastSeenAt.Equal(day3) {
			t.Errorf("last_seen_at = %v, want %v", sub.LastSeenAt, day3)
		}
	})

	t.Run("reset overrides watermark", func(t *testing.T) {
		db := newDB(t)
		ctx := context.Background()
		d5 := day(5)
		seedSubscription(t, db, "u1", models.PlatformNaver, &d5)

		if err := db.ResetWatermark(ctx, "u1", models.PlatformNaver, day(2)); err != nil {
			t.Fatalf("ResetWatermark() error = %v", err)
		}
		sub := onlySubscription(t, db, "u1")
		if sub.LastSeenAt == nil || !sub.LastSeenAt.Equal(day(2)) {
			t.Errorf("last_seen_at = %v, want %v", sub.LastSeenAt, day(2))
		}
	})

	t.Run("stale subscriptions", func(t *testing.T) {
		db := newDB(t)
		ctx := context.Background()

		old := day(1)
		recent := day(40)
		seedSubscription(t, db, "stale", models.PlatformVelog, &old)
		seedSubscription(t, db, "fresh", models.PlatformVelog, &recent)

		// Never seen, registered long ago.
		if err := db.UpsertSubscription(ctx, models.Subscription{
			UserID: "silent", Platform: models.PlatformTistory, AccountID: "s", RegisteredAt: day(1),
		}); err != nil {
			t.Fatalf("UpsertSubscription() error = %v", err)
		}
		// Never seen, registered recently.
		if err := db.UpsertSubscription(ctx, models.Subscription{
			UserID: "newbie", Platform: models.PlatformTistory, AccountID: "n", RegisteredAt: day(41),
		}); err != nil {
			t.Fatalf("UpsertSubscription() error = %v", err)
		}

		subs, err := db.ListStaleSubscriptions(ctx, day(30))
		if err != nil {
			t.Fatalf("ListStaleSubscriptions() error = %v", err)
		}
		got := map[string]bool{}
		for _, s := range subs {
			got[s.UserID] = true
		}
		if len(got) != 2 || !got["stale"] || !got["silent"] {
			t.Errorf("stale users = %v, want stale and silent", got)
		}
	})

	t.Run("subscriptions carry user contact", func(t *testing.T) {
		db := newDB(t)
		ctx := context.Background()

		if err := db.UpsertUser(ctx, models.User{UserID: "u1", Email: "a@example.com", Name: "Kim"}); err != nil {
			t.Fatalf("UpsertUser() error = %v", err)
		}
		// Empty fields keep stored values.
		if err := db.UpsertUser(ctx, models.User{UserID: "u1", Name: "Lee"}); err != nil {
			t.Fatalf("UpsertUser() error = %v", err)
		}
		seedSubscription(t, db, "u1", models.PlatformVelog, nil)

		sub := onlySubscription(t, db, "u1")
		if sub.Email != "a@example.com" || sub.Name != "Lee" {
			t.Errorf("contact = %q/%q, want a@example.com/Lee", sub.Email, sub.Name)
		}

		if _, err := db.GetUser(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetUser(nobody) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("upsert rebinds account", func(t *testing.T) {
		db := newDB(t)
		ctx := context.Background()
		d := day(3)
		seedSubscription(t, db, "u1", models.PlatformVelog, &d)

		if err := db.UpsertSubscription(ctx, models.Subscription{
			UserID: "u1", Platform: models.PlatformVelog, AccountID: "other",
		}); err != nil {
			t.Fatalf("UpsertSubscription() error = %v", err)
		}
		sub := onlySubscription(t, db, "u1")
		if sub.AccountID != "other" || sub.LastSeenAt != nil {
			t.Errorf("subscription = %+v, want rebound with nil watermark", sub)
		}
	})

	t.Run("content is idempotent", func(t *testing.T) {
		db := newDB(t)
		ctx := context.Background()
		item := models.ContentItem{
			URL: "https://velog.io/@kim/post-1", UserID: "u1", Platform: models.PlatformVelog,
			Title: "post", Category: models.TopicTech, PublishedDate: day(2),
		}

		exists, err := db.ContentExists(ctx, item.URL, item.UserID, item.Platform)
		if err != nil || exists {
			t.Fatalf("ContentExists() before insert = %v, %v", exists, err)
		}

		inserted, err := db.InsertContent(ctx, item)
		if err != nil || !inserted {
			t.Fatalf("InsertContent() = %v, %v", inserted, err)
		}
		item.Category = models.TopicOther
		inserted, err = db.InsertContent(ctx, item)
		if err != nil {
			t.Fatalf("second InsertContent() error = %v", err)
		}
		if inserted {
			t.Error("duplicate insert must not write")
		}

		exists, err = db.ContentExists(ctx, item.URL, item.UserID, item.Platform)
		if err != nil || !exists {
			t.Errorf("ContentExists() after insert = %v, %v", exists, err)
		}
		// Same URL for another user is a different identity.
		exists, _ = db.ContentExists(ctx, item.URL, "u2", item.Platform)
		if exists {
			t.Error("identity must include user")
		}
	})

	t.Run("aggregates", func(t *testing.T) {
		db := newDB(t)
		ctx := context.Background()

		insert := func(url string, topic models.Topic, published time.Time) {
			t.Helper()
			if _, err := db.InsertContent(ctx, models.ContentItem{
				URL: url, UserID: "u1", Platform: models.PlatformVelog, Title: url,
				Category: topic, PublishedDate: published,
			}); err != nil {
				t.Fatalf("InsertContent() error = %v", err)
			}
		}
		insert("a", models.TopicTech, day(1).Add(2*time.Hour))
		insert("b", models.TopicTech, day(1).Add(5*time.Hour))
		insert("c", models.TopicAI, day(2))

		stats, _ := db.TopicStats(ctx, "u1")
		if len(stats) != 0 {
			t.Errorf("stats before refresh = %v, want none", stats)
		}

		if err := db.RefreshAggregates(ctx); err != nil {
			t.Fatalf("RefreshAggregates() error = %v", err)
		}
		// Redundant refreshes are harmless.
		if err := db.RefreshAggregates(ctx); err != nil {
			t.Fatalf("second RefreshAggregates() error = %v", err)
		}

		stats, err := db.TopicStats(ctx, "u1")
		if err != nil {
			t.Fatalf("TopicStats() error = %v", err)
		}
		if len(stats) != 2 || stats[0].Category != models.TopicTech || stats[0].PostCount != 2 {
			t.Errorf("stats = %+v", stats)
		}

		rows, err := db.DailyActivity(ctx, "u1", time.Time{}, time.Time{})
		if err != nil {
			t.Fatalf("DailyActivity() error = %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("activity rows = %+v, want 2", rows)
		}
		if !sameDay(rows[0].Day, day(1)) || rows[0].PostCount != 2 {
			t.Errorf("first row = %+v", rows[0])
		}

		rows, _ = db.DailyActivity(ctx, "u1", day(2), day(2))
		if len(rows) != 1 || rows[0].Category != models.TopicAI {
			t.Errorf("bounded activity = %+v", rows)
		}
	})

	t.Run("delete removes binding and posts", func(t *testing.T) {
		db := newDB(t)
		ctx := context.Background()
		seedSubscription(t, db, "u1", models.PlatformVelog, nil)
		seedSubscription(t, db, "u1", models.PlatformNaver, nil)
		for _, p := range []models.Platform{models.PlatformVelog, models.PlatformNaver} {
			if _, err := db.InsertContent(ctx, models.ContentItem{
				URL: "x", UserID: "u1", Platform: p, Category: models.TopicOther, PublishedDate: day(1),
			}); err != nil {
				t.Fatalf("InsertContent() error = %v", err)
			}
		}

		if err := db.DeleteSubscription(ctx, "u1", models.PlatformVelog); err != nil {
			t.Fatalf("DeleteSubscription() error = %v", err)
		}
		if n, _ := db.CountContent(ctx, "u1", models.PlatformVelog); n != 0 {
			t.Errorf("velog posts left = %d", n)
		}
		if n, _ := db.CountContent(ctx, "u1", models.PlatformNaver); n != 1 {
			t.Errorf("naver posts = %d, want 1", n)
		}

		if err := db.DeleteSubscription(ctx, "u1", models.PlatformVelog); !errors.Is(err, ErrNotFound) {
			t.Errorf("second delete error = %v, want ErrNotFound", err)
		}
	})
}

func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func seedSubscription(t *testing.T, db *DB, userID string, platform models.Platform, lastSeen *time.Time) {
	t.Helper()
	err := db.UpsertSubscription(context.Background(), models.Subscription{
		UserID:       userID,
		Platform:     platform,
		AccountID:    userID + "-account",
		LastSeenAt:   lastSeen,
		RegisteredAt: day(1),
	})
	if err != nil {
		t.Fatalf("UpsertSubscription() error = %v", err)
	}
}

func onlySubscription(t *testing.T, db *DB, userID string) models.Subscription {
	t.Helper()
	subs, err := db.ListUserSubscriptions(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListUserSubscriptions() error = %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("subscriptions for %s = %d, want 1", userID, len(subs))
	}
	return subs[0]
}
