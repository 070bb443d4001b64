// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package models

import (
	"time"
)

// User is the owner of one or more subscriptions.
type User struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscription binds a user to one account on one platform.
//
// LastSeenAt is the watermark. Discovery moves it to the newest published
// time it has seen. The inactivity notifier also resets it to the time a
// reminder was sent, so it doubles as "last reminder" for silent accounts.
// A nil LastSeenAt means nothing has been observed yet.
type Subscription struct {
	UserID       string     `json:"user_id"`
	Email        string     `json:"email,omitempty"`
	Name         string     `json:"name,omitempty"`
	Platform     Platform   `json:"platform"`
	AccountID    string     `json:"account_id"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
	RegisteredAt time.Time  `json:"registered_at"`
}

// Reference returns the time inactivity is measured from: the watermark
// when set, otherwise the registration time.
func (s *Subscription) Reference() time.Time {
	if s.LastSeenAt != nil {
		return *s.LastSeenAt
	}
	return s.RegisteredAt
}
