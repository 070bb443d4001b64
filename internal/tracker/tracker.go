// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package tracker

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/jandi/internal/batch"
	"github.com/tomtom215/jandi/internal/config"
	"github.com/tomtom215/jandi/internal/eventprocessor"
	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/metrics"
	"github.com/tomtom215/jandi/internal/models"
)

const (
	kindGlobal = "global"
	kindUser   = "user"
)

// Recomputer rebuilds the aggregate tables. Calls must be idempotent.
type Recomputer interface {
	RefreshAggregates(ctx context.Context) error
}

// Tracker consumes refresh signals.
type Tracker struct {
	batches      batch.Store
	recomputer   Recomputer
	deleteGlobal bool
	now          func() time.Time
}

// New creates a tracker. globalPolicy is config.GlobalBatchDelete or
// config.GlobalBatchRetain; anything else deletes.
func New(batches batch.Store, recomputer Recomputer, globalPolicy string) *Tracker {
	return &Tracker{
		batches:      batches,
		recomputer:   recomputer,
		deleteGlobal: globalPolicy != config.GlobalBatchRetain,
		now:          time.Now,
	}
}

// Handle is the refresh queue handler.
func (t *Tracker) Handle(ctx context.Context, msg *message.Message) error {
	sig, err := eventprocessor.Decode[models.RefreshSignal](msg)
	if err != nil {
		return err
	}
	t.Apply(ctx, sig)
	return nil
}

// Apply processes one decoded signal and reports whether it fired a recompute.
func (t *Tracker) Apply(ctx context.Context, sig *models.RefreshSignal) bool {
	log := logging.Ctx(ctx).With().Str("signal", string(sig.Type)).Logger()

	switch sig.Type {
	case models.RefreshInit:
		t.open(ctx, &log, batch.Batch{Key: batch.GlobalKey, Total: sig.Count}, kindGlobal)
		return false
	case models.RefreshInitPlatformRegister:
		t.open(ctx, &log, batch.Batch{Key: batch.UserKey(sig.UserID), Platform: sig.Platform, Total: sig.Count}, kindUser)
		return false
	case models.RefreshProgress:
		return t.progress(ctx, &log, batch.GlobalKey, kindGlobal, t.deleteGlobal)
	case models.RefreshProgressPlatformRegister:
		log = log.With().Str("user_id", sig.UserID).Logger()
		return t.progress(ctx, &log, batch.UserKey(sig.UserID), kindUser, true)
	default:
		log.Warn().Msg("unknown refresh signal ignored")
		return false
	}
}

func (t *Tracker) open(ctx context.Context, log *zerolog.Logger, b batch.Batch, kind string) {
	if b.Total <= 0 {
		if err := t.batches.Delete(ctx, b.Key); err != nil {
			log.Error().Err(err).Str("batch", b.Key).Msg("failed to clear batch")
			return
		}
		log.Info().Str("batch", b.Key).Msg("empty init, batch cleared")
		return
	}

	b.OpenedAt = t.now().UTC()
	if err := t.batches.Open(ctx, b); err != nil {
		log.Error().Err(err).Str("batch", b.Key).Msg("failed to open batch")
		return
	}
	metrics.RecordBatchOpened(kind)
	log.Info().Str("batch", b.Key).Int("total", b.Total).Msg("batch opened")
}

func (t *Tracker) progress(ctx context.Context, log *zerolog.Logger, key, kind string, deleteOnFire bool) bool {
	inc, err := t.batches.Increment(ctx, key, deleteOnFire)
	if err != nil {
		log.Error().Err(err).Str("batch", key).Msg("failed to count progress")
		return false
	}

	switch {
	case !inc.Found:
		metrics.RecordProgressDiscarded(kind, "no_batch")
		log.Warn().Str("batch", key).Msg("progress without an open batch, discarded")
		return false
	case inc.Absorbed:
		metrics.RecordProgressDiscarded(kind, "fired")
		log.Debug().Str("batch", key).Msg("progress after batch fired, absorbed")
		return false
	case !inc.Completed:
		log.Debug().
			Str("batch", key).
			Int("current", inc.Batch.Current).
			Int("total", inc.Batch.Total).
			Msg("progress counted")
		return false
	}

	metrics.RecordBatchCompleted(kind)
	log.Info().
		Str("batch", key).
		Int("total", inc.Batch.Total).
		Dur("open_for", t.now().Sub(inc.Batch.OpenedAt)).
		Msg("batch complete, recomputing aggregates")
	t.recompute(ctx, log)
	return true
}

// recompute failures are only logged: the batch is gone and nothing
// would reopen it.
func (t *Tracker) recompute(ctx context.Context, log *zerolog.Logger) {
	start := time.Now()
	err := t.recomputer.RefreshAggregates(ctx)
	metrics.RecordRecompute(time.Since(start), err)
	if err != nil {
		log.Error().Err(err).Msg("aggregate recompute failed")
	}
}
