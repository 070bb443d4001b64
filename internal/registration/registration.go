// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

// Package registration binds and unbinds a user's blog accounts.
//
// Registering a platform ingests the account's whole feed as a backlog:
// the binding is stored with its watermark at the newest backlog article,
// then one init_platform_register signal opens the user's batch and one
// platform_register event per article goes to enrichment. When the last
// of them reports progress the tracker recomputes the aggregates.
package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/jandi/internal/eventprocessor"
	"github.com/tomtom215/jandi/internal/feed"
	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/models"
	"github.com/tomtom215/jandi/internal/validation"
)

// ErrFeedUnavailable means the account's feed could not be read, so the
// account was not registered.
var ErrFeedUnavailable = errors.New("feed unavailable")

// Store is the persistence registration needs.
type Store interface {
	UpsertUser(ctx context.Context, u models.User) error
	UpsertSubscription(ctx context.Context, s models.Subscription) error
	DeleteSubscription(ctx context.Context, userID string, platform models.Platform) error
	RefreshAggregates(ctx context.Context) error
}

// Request registers one platform account for a user.
type Request struct {
	UserID    string `json:"user_id" validate:"required,max=128"`
	Email     string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Name      string `json:"name,omitempty" validate:"max=64"`
	Platform  string `json:"platform" validate:"required,platform"`
	AccountID string `json:"account_id" validate:"required,account_id"`
}

// UnregisterRequest removes one platform binding.
type UnregisterRequest struct {
	UserID   string `json:"user_id" validate:"required,max=128"`
	Platform string `json:"platform" validate:"required,platform"`
}

// Service runs registrations.
type Service struct {
	store     Store
	source    feed.Source
	publisher eventprocessor.JSONPublisher
	logger    zerolog.Logger
}

// NewService creates a registration service.
func NewService(store Store, source feed.Source, publisher eventprocessor.JSONPublisher) *Service {
	return &Service{
		store:     store,
		source:    source,
		publisher: publisher,
		logger:    logging.WithComponent("registration"),
	}
}

// Register validates req, stores the binding and queues its backlog.
// Validation failures are returned as *validation.RequestValidationError.
func (s *Service) Register(ctx context.Context, req Request) (models.RegisterResult, error) {
	if verr := validation.ValidateStruct(&req); verr != nil {
		return models.RegisterResult{}, verr
	}
	platform, err := models.ParsePlatform(req.Platform)
	if err != nil {
		return models.RegisterResult{}, err
	}

	articles, err := s.source.Fetch(ctx, platform, req.AccountID)
	if err != nil {
		return models.RegisterResult{}, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	if err := s.store.UpsertUser(ctx, models.User{UserID: req.UserID, Email: req.Email, Name: req.Name}); err != nil {
		return models.RegisterResult{}, fmt.Errorf("store user: %w", err)
	}

	watermark := models.NewestPublished(articles)
	sub := models.Subscription{
		UserID:     req.UserID,
		Platform:   platform,
		AccountID:  req.AccountID,
		LastSeenAt: watermark,
	}
	if err := s.store.UpsertSubscription(ctx, sub); err != nil {
		return models.RegisterResult{}, fmt.Errorf("store subscription: %w", err)
	}

	result := models.RegisterResult{
		UserID:    req.UserID,
		Platform:  platform,
		AccountID: req.AccountID,
		Watermark: watermark,
	}
	if len(articles) == 0 {
		s.logger.Info().Str("user_id", req.UserID).Str("platform", platform.String()).Msg("registered with empty feed")
		return result, nil
	}

	signal := models.InitPlatformRegisterSignal(req.UserID, platform, len(articles))
	if err := s.publisher.PublishJSON(ctx, models.QueueRefresh, signal); err != nil {
		return result, fmt.Errorf("publish backlog init: %w", err)
	}
	for i := range articles {
		event := models.BacklogEvent{
			Link:        articles[i].Link,
			UserID:      req.UserID,
			Platform:    platform,
			PublishedAt: articles[i].PublishedAt,
			Title:       articles[i].Title,
		}
		if err := s.publisher.PublishJSON(ctx, models.QueuePlatformRegister, event); err != nil {
			s.settle(ctx, req.UserID, platform, len(articles)-i)
			return result, fmt.Errorf("publish backlog event %d/%d: %w", i+1, len(articles), err)
		}
		result.Backlog++
	}

	s.logger.Info().
		Str("user_id", req.UserID).
		Str("platform", platform.String()).
		Str("account_id", req.AccountID).
		Int("backlog", result.Backlog).
		Msg("platform registered")
	return result, nil
}

// settle reports progress for backlog items that were counted by the init
// but never queued, so the user's batch can still close.
func (s *Service) settle(ctx context.Context, userID string, platform models.Platform, missing int) {
	signal := models.ProgressPlatformRegisterSignal(userID, platform)
	lost := 0
	for n := 0; n < missing; n++ {
		if err := s.publisher.PublishJSON(ctx, models.QueueRefresh, signal); err != nil {
			lost++
		}
	}
	if lost > 0 {
		s.logger.Error().
			Str("user_id", userID).
			Str("platform", platform.String()).
			Int("lost", lost).
			Msg("failed to settle backlog progress, user batch will not close")
	}
}

// Unregister deletes the binding with its posts and refreshes the
// aggregates. It returns the store's not-found error when nothing was bound.
func (s *Service) Unregister(ctx context.Context, req UnregisterRequest) error {
	if verr := validation.ValidateStruct(&req); verr != nil {
		return verr
	}
	platform, err := models.ParsePlatform(req.Platform)
	if err != nil {
		return err
	}

	if err := s.store.DeleteSubscription(ctx, req.UserID, platform); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if err := s.store.RefreshAggregates(ctx); err != nil {
		return fmt.Errorf("refresh aggregates: %w", err)
	}

	s.logger.Info().Str("user_id", req.UserID).Str("platform", platform.String()).Msg("platform unregistered")
	return nil
}
