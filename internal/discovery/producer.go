// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package discovery

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/jandi/internal/config"
	"github.com/tomtom215/jandi/internal/eventprocessor"
	"github.com/tomtom215/jandi/internal/feed"
	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/metrics"
	"github.com/tomtom215/jandi/internal/models"
)

// SubscriptionStore is the watermark access the producer needs.
type SubscriptionStore interface {
	ListSubscriptions(ctx context.Context) ([]models.Subscription, error)
	AdvanceWatermark(ctx context.Context, userID string, platform models.Platform, t time.Time) (bool, error)
}

// RunResult summarizes one discovery scan.
type RunResult struct {
	Subscriptions int
	Skipped       int
	Discovered    int
	Published     int
	Failed        int
	Advanced      int
}

// Producer discovers new articles and fans them out to enrichment.
type Producer struct {
	store     SubscriptionStore
	source    feed.Source
	publisher eventprocessor.JSONPublisher
	policy    string
	logger    zerolog.Logger
}

// NewProducer creates a producer. An empty policy means config.WatermarkAdvance.
func NewProducer(store SubscriptionStore, source feed.Source, publisher eventprocessor.JSONPublisher, policy string) *Producer {
	if policy == "" {
		policy = config.WatermarkAdvance
	}
	return &Producer{
		store:     store,
		source:    source,
		publisher: publisher,
		policy:    policy,
		logger:    logging.WithComponent("discovery"),
	}
}

type pending struct {
	sub      models.Subscription
	articles []models.Article
}

// Run performs one full scan.
func (p *Producer) Run(ctx context.Context) (RunResult, error) {
	var result RunResult

	subs, err := p.store.ListSubscriptions(ctx)
	if err != nil {
		return result, fmt.Errorf("list subscriptions: %w", err)
	}
	result.Subscriptions = len(subs)

	// Everything is fetched before anything is published: the init count
	// must precede the first event.
	var work []pending
	for i := range subs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		articles := p.discover(ctx, &subs[i])
		if len(articles) == 0 {
			result.Skipped++
			continue
		}
		work = append(work, pending{sub: subs[i], articles: articles})
		result.Discovered += len(articles)
		metrics.RecordDiscovered(subs[i].Platform.String(), len(articles))
	}

	if result.Discovered == 0 {
		p.logger.Info().Int("subscriptions", result.Subscriptions).Msg("no new articles")
		return result, nil
	}

	if err := p.publisher.PublishJSON(ctx, models.QueueRefresh, models.InitSignal(result.Discovered)); err != nil {
		return result, fmt.Errorf("publish init: %w", err)
	}

	for i := range work {
		published, failed := p.publish(ctx, &work[i])
		result.Published += published
		result.Failed += failed

		seen := work[i].articles
		if failed > 0 && p.policy == config.WatermarkConfirm {
			seen = seen[:published]
			p.logger.Warn().
				Str("user_id", work[i].sub.UserID).
				Str("platform", work[i].sub.Platform.String()).
				Int("failed", failed).
				Msg("watermark held at the last published article")
		}
		if p.advance(ctx, &work[i].sub, seen) {
			result.Advanced++
		}
	}

	p.logger.Info().
		Int("subscriptions", result.Subscriptions).
		Int("discovered", result.Discovered).
		Int("published", result.Published).
		Int("failed", result.Failed).
		Int("advanced", result.Advanced).
		Msg("discovery run complete")
	return result, nil
}

// discover returns the articles newer than the watermark, oldest first.
// Feed failures skip the subscription.
func (p *Producer) discover(ctx context.Context, sub *models.Subscription) []models.Article {
	articles, err := p.source.Fetch(ctx, sub.Platform, sub.AccountID)
	if err != nil {
		p.logger.Warn().Err(err).
			Str("user_id", sub.UserID).
			Str("platform", sub.Platform.String()).
			Msg("feed fetch failed, subscription skipped")
		return nil
	}

	fresh := make([]models.Article, 0, len(articles))
	for i := range articles {
		if sub.LastSeenAt == nil || articles[i].PublishedAt.After(*sub.LastSeenAt) {
			fresh = append(fresh, articles[i])
		}
	}
	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].PublishedAt.Before(fresh[j].PublishedAt)
	})
	return fresh
}

// publish sends one new_posts event per article. Under the confirm policy
// it stops at the first failure, so the published articles always form a
// prefix of w.articles and the rest are rediscovered next run.
func (p *Producer) publish(ctx context.Context, w *pending) (published, failed int) {
	for i := range w.articles {
		event := models.NewNewPostEvent(w.sub.UserID, w.sub.Platform, &w.articles[i])
		if err := p.publisher.PublishJSON(ctx, models.QueueNewPosts, event); err != nil {
			p.logger.Error().Err(err).
				Str("user_id", w.sub.UserID).
				Str("link", event.Article.Link).
				Msg("failed to publish new post")
			if p.policy == config.WatermarkConfirm {
				failed = len(w.articles) - i
				break
			}
			failed++
			continue
		}
		published++
	}
	p.settle(ctx, w, failed)
	return published, failed
}

// settle publishes one progress signal for every article whose new_posts
// event never went out. The init already counted them and no worker will
// ever report them.
func (p *Producer) settle(ctx context.Context, w *pending, missing int) {
	lost := 0
	for n := 0; n < missing; n++ {
		if err := p.publisher.PublishJSON(ctx, models.QueueRefresh, models.ProgressSignal()); err != nil {
			lost++
		}
	}
	if lost > 0 {
		p.logger.Error().
			Str("user_id", w.sub.UserID).
			Str("platform", w.sub.Platform.String()).
			Int("lost", lost).
			Msg("failed to settle progress for unpublished posts, global batch will not close")
	}
}

func (p *Producer) advance(ctx context.Context, sub *models.Subscription, articles []models.Article) bool {
	newest := models.NewestPublished(articles)
	if newest == nil {
		return false
	}
	changed, err := p.store.AdvanceWatermark(ctx, sub.UserID, sub.Platform, *newest)
	if err != nil {
		p.logger.Error().Err(err).
			Str("user_id", sub.UserID).
			Str("platform", sub.Platform.String()).
			Msg("failed to advance watermark")
		return false
	}
	return changed
}
