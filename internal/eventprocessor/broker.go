// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/jandi/internal/breaker"
	"github.com/tomtom215/jandi/internal/logging"
)

// Broker bundles the publisher and subscriber of one transport, plus the
// embedded server when this process owns it.
type Broker struct {
	Publisher  *Publisher
	Subscriber message.Subscriber

	server *EmbeddedServer
}

// OpenNATS connects to NATS JetStream, starting an embedded server first
// when cfg.Embedded is set, and makes sure the queue stream exists.
func OpenNATS(ctx context.Context, cfg BrokerConfig, logger watermill.LoggerAdapter) (*Broker, error) {
	if logger == nil {
		logger = logging.NewWatermillAdapter()
	}

	b := &Broker{}
	url := cfg.URL

	if cfg.Embedded {
		srv, err := NewEmbeddedServer(&cfg.Server)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		b.server = srv
		url = srv.ClientURL()
		logging.Info().Str("url", url).Msg("embedded NATS server started")
	}

	if err := EnsureStreamAt(ctx, url, &cfg.Stream); err != nil {
		b.shutdownServer(ctx)
		return nil, fmt.Errorf("provision stream: %w", err)
	}

	pubCfg := cfg.Publisher
	pubCfg.URL = url
	pub, err := NewNATSPublisher(pubCfg, logger)
	if err != nil {
		b.shutdownServer(ctx)
		return nil, err
	}
	pub.SetCircuitBreaker(breaker.New(breaker.DefaultConfig("nats-publisher")))
	b.Publisher = pub

	subCfg := cfg.Subscriber
	subCfg.URL = url
	if subCfg.StreamName == "" {
		subCfg.StreamName = cfg.Stream.Name
	}
	sub, err := NewNATSSubscriber(&subCfg, logger)
	if err != nil {
		_ = pub.Close()
		b.shutdownServer(ctx)
		return nil, err
	}
	b.Subscriber = sub

	return b, nil
}

// OpenMemory returns a broker backed by an in-process gochannel.
func OpenMemory(logger watermill.LoggerAdapter) (*Broker, error) {
	ps := NewMemoryPubSub(logger)
	pub, err := NewPublisher(ps, logger)
	if err != nil {
		return nil, err
	}
	return &Broker{Publisher: pub, Subscriber: ps}, nil
}

// Close shuts down subscriber, publisher and the embedded server in that order.
func (b *Broker) Close(ctx context.Context) error {
	var errs []error
	if b.Subscriber != nil {
		if err := b.Subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if b.Publisher != nil {
		if err := b.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if b.server != nil {
		if err := b.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown NATS server: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Embedded reports whether this broker runs its own NATS server.
func (b *Broker) Embedded() bool {
	return b.server != nil
}

func (b *Broker) shutdownServer(ctx context.Context) {
	if b.server == nil {
		return
	}
	if err := b.server.Shutdown(ctx); err != nil {
		logging.Warn().Err(err).Msg("embedded NATS shutdown failed")
	}
}
