// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/jandi/internal/config"
	"github.com/tomtom215/jandi/internal/database"
	"github.com/tomtom215/jandi/internal/discovery"
	"github.com/tomtom215/jandi/internal/eventprocessor"
	"github.com/tomtom215/jandi/internal/feed"
	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/registration"
	"github.com/tomtom215/jandi/internal/scheduler"
)

const (
	defaultRetryDelay = time.Second
	batchGCInterval   = 10 * time.Minute
)

// brokerConfig maps the nats config section onto the transport settings.
func brokerConfig(cfg *config.Config) eventprocessor.BrokerConfig {
	n := cfg.NATS

	bc := eventprocessor.BrokerConfig{
		Embedded: n.EmbeddedServer,
		Server: eventprocessor.ServerConfig{
			Host:              n.Host,
			Port:              n.Port,
			StoreDir:          n.StoreDir,
			JetStreamMaxMem:   n.MaxMemory,
			JetStreamMaxStore: n.MaxStore,
		},
		URL:        n.URL,
		Stream:     eventprocessor.DefaultStreamConfig(),
		Publisher:  eventprocessor.DefaultPublisherConfig(n.URL),
		Subscriber: eventprocessor.DefaultSubscriberConfig(n.URL),
	}

	bc.Stream.Name = n.StreamName
	if n.RetentionDays > 0 {
		bc.Stream.MaxAge = time.Duration(n.RetentionDays) * 24 * time.Hour
	}

	bc.Subscriber.StreamName = n.StreamName
	bc.Subscriber.DurablePrefix = n.DurablePrefix
	bc.Subscriber.MaxDeliver = n.MaxDeliver
	bc.Subscriber.AckWaitTimeout = n.AckWait
	if n.CloseTimeout > 0 {
		bc.Subscriber.CloseTimeout = n.CloseTimeout
	}
	return bc
}

// consumerConfig dead-letters at the same attempt count JetStream stops redelivering.
func consumerConfig(cfg *config.Config) eventprocessor.ConsumerConfig {
	cc := eventprocessor.DefaultConsumerConfig()
	cc.RetryDelay = defaultRetryDelay
	if cfg.Broker.Kind == "nats" {
		cc.MaxAttempts = cfg.NATS.MaxDeliver
	}
	return cc
}

func openBroker(ctx context.Context, cfg *config.Config) (*eventprocessor.Broker, error) {
	adapter := logging.NewWatermillAdapter()
	if cfg.Broker.Kind == "memory" {
		return eventprocessor.OpenMemory(adapter)
	}
	return eventprocessor.OpenNATS(ctx, brokerConfig(cfg), adapter)
}

func closeBroker(b *eventprocessor.Broker, timeout time.Duration) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := b.Close(ctx); err != nil {
		logging.Error().Err(err).Msg("Error closing broker")
	}
}

func openDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logging.Info().Str("driver", db.Driver()).Msg("Database initialized")
	return db, nil
}

func closeDatabase(db *database.DB) {
	if err := db.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database")
	}
}

// observerSchedule prefers the cron expression when one is configured.
func observerSchedule(cfg config.ObserverConfig) (scheduler.Schedule, error) {
	if cfg.Cron != "" {
		return scheduler.ParseCron(cfg.Cron, cfg.Timezone)
	}
	return scheduler.Every(cfg.Interval), nil
}

func newObserver(cfg *config.Config, db *database.DB, pub eventprocessor.JSONPublisher) *discovery.Observer {
	producer := discovery.NewProducer(db, feed.NewRegistry(cfg.Feed), pub, cfg.Observer.WatermarkPolicy)
	notifier := discovery.NewNotifier(db, pub, cfg.Observer.InactivityThreshold)
	return discovery.NewObserver(producer, notifier)
}

func newRegistrar(cfg *config.Config, db *database.DB, pub eventprocessor.JSONPublisher) *registration.Service {
	return registration.NewService(db, feed.NewRegistry(cfg.Feed), pub)
}
