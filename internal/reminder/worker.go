// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package reminder

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/jandi/internal/eventprocessor"
	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/metrics"
	"github.com/tomtom215/jandi/internal/models"
	"github.com/tomtom215/jandi/internal/validation"
)

// Worker consumes reminder events.
type Worker struct {
	sender Sender
}

// NewWorker creates a worker that delivers through sender.
func NewWorker(sender Sender) *Worker {
	return &Worker{sender: sender}
}

// Handle is the mail_reminders handler. A payload without a usable
// recipient is permanent; a delivery failure is retried by the broker.
func (w *Worker) Handle(ctx context.Context, msg *message.Message) error {
	event, err := eventprocessor.Decode[models.ReminderEvent](msg)
	if err != nil {
		metrics.RecordReminder("invalid")
		return err
	}
	if verr := validation.ValidateStruct(event); verr != nil {
		metrics.RecordReminder("invalid")
		return eventprocessor.NewPermanentError("invalid reminder", fmt.Errorf("%w: %s", models.ErrMalformed, verr.Error()))
	}

	if err := w.sender.Send(ctx, Render(event)); err != nil {
		metrics.RecordReminder("failed")
		return eventprocessor.NewRetryableError("deliver reminder", err)
	}

	metrics.RecordReminder("sent")
	logging.Ctx(ctx).Info().
		Str("user_id", event.UserID).
		Int("days_inactive", event.DaysInactive).
		Msg("reminder sent")
	return nil
}
