// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package enrichment

import (
	"context"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/jandi/internal/classifier"
	"github.com/tomtom215/jandi/internal/crawler"
	"github.com/tomtom215/jandi/internal/eventprocessor"
	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/models"
)

// ContentStore is the post table access the worker needs.
type ContentStore interface {
	ContentExists(ctx context.Context, url, userID string, platform models.Platform) (bool, error)
	InsertContent(ctx context.Context, item models.ContentItem) (bool, error)
}

// Worker classifies and stores articles.
type Worker struct {
	store      ContentStore
	fetcher    crawler.Fetcher
	classifier classifier.Classifier
	publisher  eventprocessor.JSONPublisher
}

// NewWorker creates a worker.
func NewWorker(store ContentStore, fetcher crawler.Fetcher, cls classifier.Classifier, publisher eventprocessor.JSONPublisher) *Worker {
	return &Worker{store: store, fetcher: fetcher, classifier: cls, publisher: publisher}
}

// job is the queue-independent view of one article to enrich.
type job struct {
	userID      string
	platform    models.Platform
	link        string
	title       string
	publishedAt time.Time

	progress         models.RefreshSignal
	silentDuplicates bool
}

// HandleNewPost handles one new_posts delivery.
func (w *Worker) HandleNewPost(ctx context.Context, msg *message.Message) error {
	event, err := eventprocessor.Decode[models.NewPostEvent](msg)
	if err != nil {
		return err
	}
	return w.enrich(ctx, &job{
		userID:           event.UserID,
		platform:         event.Platform,
		link:             event.Article.Link,
		title:            event.Article.Title,
		publishedAt:      event.Article.PublishedAt,
		progress:         models.ProgressSignal(),
		silentDuplicates: true,
	})
}

// HandleBacklog handles one platform_register delivery.
func (w *Worker) HandleBacklog(ctx context.Context, msg *message.Message) error {
	event, err := eventprocessor.Decode[models.BacklogEvent](msg)
	if err != nil {
		return err
	}
	return w.enrich(ctx, &job{
		userID:      event.UserID,
		platform:    event.Platform,
		link:        event.Link,
		title:       event.Title,
		publishedAt: event.PublishedAt,
		progress:    models.ProgressPlatformRegisterSignal(event.UserID, event.Platform),
	})
}

func (w *Worker) enrich(ctx context.Context, j *job) error {
	log := logging.Ctx(ctx).With().
		Str("user_id", j.userID).
		Str("platform", j.platform.String()).
		Str("link", j.link).
		Logger()

	exists, err := w.store.ContentExists(ctx, j.link, j.userID, j.platform)
	if err != nil {
		return w.fail(ctx, &log, j, "check existing post", err)
	}
	if exists {
		if j.silentDuplicates {
			log.Debug().Msg("post already stored, skipping")
			return nil
		}
		log.Debug().Msg("post already stored, reporting progress")
		w.reportProgress(ctx, &log, j)
		return nil
	}

	page, err := w.fetcher.Fetch(ctx, j.link)
	if err != nil {
		if ctx.Err() != nil {
			return eventprocessor.NewRetryableError("crawl interrupted", ctx.Err())
		}
		log.Warn().Err(err).Msg("article could not be crawled, dropping")
		w.reportProgress(ctx, &log, j)
		return nil
	}

	title := j.title
	if title == "" {
		title = page.Title
	}
	promptTitle := page.Title
	if promptTitle == "" {
		promptTitle = title
	}

	labels, err := w.classifier.Classify(ctx, promptTitle, page.Content)
	if err != nil {
		return w.fail(ctx, &log, j, "classify article", err)
	}

	item := models.ContentItem{
		URL:           j.link,
		UserID:        j.userID,
		Platform:      j.platform,
		Title:         title,
		Category:      labels[0],
		PublishedDate: j.publishedAt,
	}
	inserted, err := w.store.InsertContent(ctx, item)
	if err != nil {
		return w.fail(ctx, &log, j, "store post", err)
	}

	log.Info().
		Str("category", string(item.Category)).
		Bool("inserted", inserted).
		Msg("post enriched")
	w.reportProgress(ctx, &log, j)
	return nil
}

// fail reports progress and asks for redelivery. The barrier must not wait
// on a message that may keep failing.
func (w *Worker) fail(ctx context.Context, log *zerolog.Logger, j *job, op string, err error) error {
	log.Error().Err(err).Msg(op + " failed")
	w.reportProgress(ctx, log, j)
	if eventprocessor.IsPermanentError(err) || errors.Is(err, classifier.ErrEmptyInput) {
		return eventprocessor.NewPermanentError(op, err)
	}
	return eventprocessor.NewRetryableError(op, err)
}

func (w *Worker) reportProgress(ctx context.Context, log *zerolog.Logger, j *job) {
	if err := w.publisher.PublishJSON(ctx, models.QueueRefresh, j.progress); err != nil {
		log.Error().Err(err).Str("signal", string(j.progress.Type)).Msg("failed to publish progress")
	}
}
