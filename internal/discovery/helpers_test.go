// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package discovery

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/jandi/internal/models"
)

var errFeedDown = errors.New("feed down")

// memStore is an in-memory subscription table that applies the same
// watermark rules as the database.
type memStore struct {
	mu   sync.Mutex
	subs []models.Subscription
	err  error
}

func (s *memStore) ListSubscriptions(_ context.Context) ([]models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Subscription, len(s.subs))
	copy(out, s.subs)
	return out, nil
}

func (s *memStore) ListStaleSubscriptions(_ context.Context, cutoff time.Time) ([]models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Subscription
	for _, sub := range s.subs {
		if sub.Reference().Before(cutoff) {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *memStore) AdvanceWatermark(_ context.Context, userID string, platform models.Platform, t time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := s.find(userID, platform)
	if sub == nil || (sub.LastSeenAt != nil && !sub.LastSeenAt.Before(t)) {
		return false, nil
	}
	sub.LastSeenAt = &t
	return true, nil
}

func (s *memStore) ResetWatermark(_ context.Context, userID string, platform models.Platform, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub := s.find(userID, platform); sub != nil {
		sub.LastSeenAt = &t
	}
	return nil
}

func (s *memStore) watermark(userID string, platform models.Platform) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub := s.find(userID, platform); sub != nil {
		return sub.LastSeenAt
	}
	return nil
}

func (s *memStore) find(userID string, platform models.Platform) *models.Subscription {
	for i := range s.subs {
		if s.subs[i].UserID == userID && s.subs[i].Platform == platform {
			return &s.subs[i]
		}
	}
	return nil
}

// stubFeed serves fixed articles per account.
type stubFeed map[string][]models.Article

func (f stubFeed) Fetch(_ context.Context, _ models.Platform, accountID string) ([]models.Article, error) {
	articles, ok := f[accountID]
	if !ok {
		return nil, errFeedDown
	}
	return articles, nil
}

func day(n int) time.Time {
	return time.Date(2026, 3, n, 9, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func article(link string, published time.Time) models.Article {
	return models.Article{Title: link, Link: "https://velog.io/@kim/" + link, PublishedAt: published}
}
