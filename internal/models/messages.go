// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package models

import (
	"errors"
	"fmt"
	"time"
)

// Queue names. They double as broker subjects and are shared with other
// deployments, so they must not change.
const (
	QueueNewPosts         = "new_posts"
	QueuePlatformRegister = "platform_register"
	QueueRefresh          = "refresh"
	QueueMailReminders    = "mail_reminders"
	QueueDeadLetters      = "dead_letters"
)

// WorkQueues lists the queues that carry work, in pipeline order.
var WorkQueues = []string{QueueNewPosts, QueuePlatformRegister, QueueRefresh, QueueMailReminders}

// LastUploadLayout formats ReminderEvent.LastUpload.
const LastUploadLayout = "2006-01-02"

// ErrMalformed marks a payload that decoded but is missing required fields.
var ErrMalformed = errors.New("malformed message")

// PostRef is the article summary carried by NewPostEvent.
type PostRef struct {
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
	Title       string    `json:"title"`
}

// NewPostEvent announces an article found by a discovery scan.
type NewPostEvent struct {
	UserID   string   `json:"user_id"`
	Platform Platform `json:"platform"`
	Article  PostRef  `json:"article"`
}

// NewNewPostEvent builds the event for one discovered article.
func NewNewPostEvent(userID string, platform Platform, a *Article) NewPostEvent {
	return NewPostEvent{
		UserID:   userID,
		Platform: platform,
		Article:  PostRef{Link: a.Link, PublishedAt: a.PublishedAt, Title: a.Title},
	}
}

// Validate checks required fields.
func (e *NewPostEvent) Validate() error {
	return checkPostFields(e.UserID, e.Platform, e.Article.Link)
}

// BacklogEvent is one historical article queued when a platform is registered.
type BacklogEvent struct {
	Link        string    `json:"link"`
	UserID      string    `json:"user_id"`
	Platform    Platform  `json:"platform"`
	PublishedAt time.Time `json:"published_at"`
	Title       string    `json:"title,omitempty"`
}

// Validate checks required fields.
func (e *BacklogEvent) Validate() error {
	return checkPostFields(e.UserID, e.Platform, e.Link)
}

func checkPostFields(userID string, platform Platform, link string) error {
	switch {
	case userID == "":
		return fmt.Errorf("%w: user_id is required", ErrMalformed)
	case !platform.Valid():
		return fmt.Errorf("%w: unknown platform %q", ErrMalformed, platform)
	case link == "":
		return fmt.Errorf("%w: link is required", ErrMalformed)
	}
	return nil
}

// RefreshType discriminates RefreshSignal payloads.
type RefreshType string

const (
	RefreshInit                     RefreshType = "init"
	RefreshInitPlatformRegister     RefreshType = "init_platform_register"
	RefreshProgress                 RefreshType = "progress"
	RefreshProgressPlatformRegister RefreshType = "progress_platform_register"
)

// RefreshSignal is a message on the refresh queue. Count is only meaningful
// for the init types. UserID and Platform are only set for the
// platform-register types.
type RefreshSignal struct {
	Type     RefreshType `json:"type"`
	Count    int         `json:"count,omitempty"`
	UserID   string      `json:"user_id,omitempty"`
	Platform Platform    `json:"platform,omitempty"`
}

// InitSignal opens the global batch.
func InitSignal(count int) RefreshSignal {
	return RefreshSignal{Type: RefreshInit, Count: count}
}

// ProgressSignal counts one finished item against the global batch.
func ProgressSignal() RefreshSignal {
	return RefreshSignal{Type: RefreshProgress}
}

// InitPlatformRegisterSignal opens the batch for one user's backlog.
func InitPlatformRegisterSignal(userID string, platform Platform, count int) RefreshSignal {
	return RefreshSignal{Type: RefreshInitPlatformRegister, UserID: userID, Platform: platform, Count: count}
}

// ProgressPlatformRegisterSignal counts one finished backlog item.
func ProgressPlatformRegisterSignal(userID string, platform Platform) RefreshSignal {
	return RefreshSignal{Type: RefreshProgressPlatformRegister, UserID: userID, Platform: platform}
}

// Validate checks the type and the fields that type requires.
func (s *RefreshSignal) Validate() error {
	switch s.Type {
	case RefreshInit, RefreshProgress:
		return nil
	case RefreshInitPlatformRegister, RefreshProgressPlatformRegister:
		if s.UserID == "" {
			return fmt.Errorf("%w: %s requires user_id", ErrMalformed, s.Type)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown refresh type %q", ErrMalformed, s.Type)
	}
}

// ReminderEvent asks the mailer to nudge an inactive user.
type ReminderEvent struct {
	UserID       string   `json:"user_id" validate:"required"`
	Email        string   `json:"email" validate:"required,email"`
	Name         string   `json:"name"`
	Platform     Platform `json:"platform"`
	DaysInactive int      `json:"days_inactive"`
	LastUpload   string   `json:"last_upload,omitempty"`
}
