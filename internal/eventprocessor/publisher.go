// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package eventprocessor

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/jandi/internal/breaker"
	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/metrics"
	"github.com/tomtom215/jandi/internal/models"
)

// Metadata keys set on every published message.
const (
	MetadataCorrelationID = "correlation_id"
	MetadataReason        = "reason"
	MetadataQueue         = "queue"
	MetadataCategory      = "category"
	MetadataAttempts      = "attempts"
)

// Publisher wraps a Watermill publisher with resilience patterns.
// It provides circuit breaker protection, message ID stamping for
// JetStream deduplication and JSON encoding of queue payloads.
type Publisher struct {
	publisher message.Publisher
	breaker   *breaker.Breaker
	mu        sync.RWMutex
	closed    bool
	logger    watermill.LoggerAdapter
}

// NewPublisher wraps any Watermill publisher (NATS or gochannel).
func NewPublisher(pub message.Publisher, logger watermill.LoggerAdapter) (*Publisher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	if logger == nil {
		logger = logging.NewWatermillAdapter()
	}
	return &Publisher{publisher: pub, logger: logger}, nil
}

// NewNATSPublisher creates a resilient Watermill NATS publisher.
// The publisher is configured for JetStream with message ID tracking for deduplication.
func NewNATSPublisher(cfg PublisherConfig, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = logging.NewWatermillAdapter()
	}

	natsOpts := []natsgo.Option{
		natsgo.Name("jandi-publisher"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false, // Stream is pre-created by StreamInitializer
			TrackMsgId:    cfg.EnableTrackMsgID,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return NewPublisher(pub, logger)
}

// JSONPublisher is the publish side pipeline components depend on.
// *Publisher implements it.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, queue string, v interface{}) error
}

var _ JSONPublisher = (*Publisher)(nil)

// SetCircuitBreaker configures the circuit breaker for publish operations.
func (p *Publisher) SetCircuitBreaker(b *breaker.Breaker) {
	p.breaker = b
}

// Publish sends a message to the given queue.
// The message UUID is used as Nats-Msg-Id for deduplication if not already set.
func (p *Publisher) Publish(ctx context.Context, queue string, msg *message.Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPublisherClosed
	}
	p.mu.RUnlock()

	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}
	if id := logging.CorrelationIDFromContext(ctx); id != "" && msg.Metadata.Get(MetadataCorrelationID) == "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}

	var err error
	if p.breaker != nil {
		err = breaker.Run(p.breaker, func() error {
			return p.publisher.Publish(queue, msg)
		})
	} else {
		err = p.publisher.Publish(queue, msg)
	}
	if err != nil {
		return fmt.Errorf("publish to %s: %w", queue, err)
	}

	metrics.RecordPublish(queue)
	return nil
}

// PublishJSON encodes v and publishes it to queue.
func (p *Publisher) PublishJSON(ctx context.Context, queue string, v interface{}) error {
	msg, err := NewJSONMessage(v)
	if err != nil {
		return err
	}
	return p.Publish(ctx, queue, msg)
}

// DeadLetter copies msg to the dead_letters queue with the failure attached.
// It implements DeadLetterSink.
func (p *Publisher) DeadLetter(ctx context.Context, queue string, msg *message.Message, cause error, attempts int) error {
	entry := NewDeadLetter(queue, msg, cause, attempts)

	out, err := NewJSONMessage(entry)
	if err != nil {
		return err
	}
	out.Metadata.Set(MetadataQueue, queue)
	out.Metadata.Set(MetadataReason, entry.Reason)
	out.Metadata.Set(MetadataCategory, entry.Category)
	out.Metadata.Set(MetadataAttempts, strconv.Itoa(attempts))
	if id := msg.Metadata.Get(MetadataCorrelationID); id != "" {
		out.Metadata.Set(MetadataCorrelationID, id)
	}

	return p.Publish(ctx, models.QueueDeadLetters, out)
}

// Close gracefully shuts down the publisher.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.publisher.Close()
}
