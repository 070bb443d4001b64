// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/jandi/internal/eventprocessor"
	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/models"
)

// DefaultInactivityThreshold is used when the notifier is given none.
const DefaultInactivityThreshold = 30 * 24 * time.Hour

// StaleStore is the watermark access the notifier needs.
type StaleStore interface {
	ListStaleSubscriptions(ctx context.Context, cutoff time.Time) ([]models.Subscription, error)
	ResetWatermark(ctx context.Context, userID string, platform models.Platform, t time.Time) error
}

// Notifier emits reminders for silent subscriptions.
type Notifier struct {
	store     StaleStore
	publisher eventprocessor.JSONPublisher
	threshold time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

// NewNotifier creates a notifier.
func NewNotifier(store StaleStore, publisher eventprocessor.JSONPublisher, threshold time.Duration) *Notifier {
	if threshold <= 0 {
		threshold = DefaultInactivityThreshold
	}
	return &Notifier{
		store:     store,
		publisher: publisher,
		threshold: threshold,
		now:       time.Now,
		logger:    logging.WithComponent("inactivity"),
	}
}

// Run publishes one reminder per stale subscription and returns how many
// were sent. A subscription whose reminder could not be published keeps
// its watermark and is picked up again next run.
func (n *Notifier) Run(ctx context.Context) (int, error) {
	now := n.now().UTC()
	subs, err := n.store.ListStaleSubscriptions(ctx, now.Add(-n.threshold))
	if err != nil {
		return 0, fmt.Errorf("list stale subscriptions: %w", err)
	}

	sent := 0
	for i := range subs {
		sub := &subs[i]
		if sub.Email == "" {
			n.logger.Debug().Str("user_id", sub.UserID).Msg("no email address, reminder skipped")
			continue
		}

		reminder := NewReminder(sub, now)
		if err := n.publisher.PublishJSON(ctx, models.QueueMailReminders, reminder); err != nil {
			n.logger.Error().Err(err).Str("user_id", sub.UserID).Msg("failed to publish reminder")
			continue
		}
		if err := n.store.ResetWatermark(ctx, sub.UserID, sub.Platform, now); err != nil {
			n.logger.Error().Err(err).Str("user_id", sub.UserID).Msg("failed to reset watermark after reminder")
		}
		sent++
	}

	n.logger.Info().Int("stale", len(subs)).Int("reminded", sent).Msg("inactivity scan complete")
	return sent, nil
}

// NewReminder builds the reminder payload for sub as of now.
func NewReminder(sub *models.Subscription, now time.Time) models.ReminderEvent {
	reminder := models.ReminderEvent{
		UserID:       sub.UserID,
		Email:        sub.Email,
		Name:         sub.Name,
		Platform:     sub.Platform,
		DaysInactive: int(now.Sub(sub.Reference()) / (24 * time.Hour)),
	}
	if sub.LastSeenAt != nil {
		reminder.LastUpload = sub.LastSeenAt.UTC().Format(models.LastUploadLayout)
	}
	return reminder
}
