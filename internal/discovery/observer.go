// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/jandi/internal/metrics"
)

// Observer runs discovery then the inactivity scan. It is the job behind
// both `jandi observe` and the scheduled observer role.
type Observer struct {
	producer *Producer
	notifier *Notifier
}

// NewObserver pairs a producer with a notifier.
func NewObserver(producer *Producer, notifier *Notifier) *Observer {
	return &Observer{producer: producer, notifier: notifier}
}

// Run executes one cycle. The inactivity scan still runs when discovery
// fails; both errors are returned.
func (o *Observer) Run(ctx context.Context) error {
	_, discoverErr := o.producer.Run(ctx)
	if discoverErr != nil {
		discoverErr = fmt.Errorf("discovery: %w", discoverErr)
	}

	var notifyErr error
	if ctx.Err() == nil {
		if _, notifyErr = o.notifier.Run(ctx); notifyErr != nil {
			notifyErr = fmt.Errorf("inactivity: %w", notifyErr)
		}
	}

	err := errors.Join(discoverErr, notifyErr)
	metrics.RecordObserverRun(err)
	return err
}
