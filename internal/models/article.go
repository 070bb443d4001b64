// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package models

import (
	"time"
)

// Article is one feed entry. It is never stored as-is.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// ContentItem is a classified post. (URL, UserID, Platform) is unique.
type ContentItem struct {
	URL           string    `json:"url"`
	UserID        string    `json:"user_id"`
	Platform      Platform  `json:"platform"`
	Title         string    `json:"title"`
	Category      Topic     `json:"category"`
	PublishedDate time.Time `json:"published_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewestPublished returns the latest PublishedAt among articles, or nil
// when the slice is empty.
func NewestPublished(articles []Article) *time.Time {
	var newest *time.Time
	for i := range articles {
		t := articles[i].PublishedAt
		if newest == nil || t.After(*newest) {
			newest = &t
		}
	}
	return newest
}
