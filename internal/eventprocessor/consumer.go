// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/metrics"
)

// Delivery outcomes, as recorded in metrics.
const (
	OutcomeAck        = "ack"
	OutcomeRequeue    = "requeue"
	OutcomeDeadLetter = "dead_letter"
)

// HandlerFunc processes one message. See the package documentation for how
// the returned error settles the delivery.
type HandlerFunc func(ctx context.Context, msg *message.Message) error

// Consumer drains one queue, one message at a time.
// It implements suture.Service through Serve.
type Consumer struct {
	subscriber  message.Subscriber
	queue       string
	handler     HandlerFunc
	deadLetters DeadLetterSink
	config      ConsumerConfig
	logger      zerolog.Logger

	mu       sync.Mutex
	attempts map[string]attempt
	now      func() time.Time
}

// attempt is the failure count for one message UUID.
type attempt struct {
	count int
	last  time.Time
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithDeadLetters sets where permanently failed messages are copied.
func WithDeadLetters(sink DeadLetterSink) ConsumerOption {
	return func(c *Consumer) { c.deadLetters = sink }
}

// WithConsumerConfig overrides retry behaviour.
func WithConsumerConfig(cfg ConsumerConfig) ConsumerOption {
	return func(c *Consumer) { c.config = cfg }
}

// NewConsumer creates a consumer for queue.
func NewConsumer(sub message.Subscriber, queue string, handler HandlerFunc, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		subscriber: sub,
		queue:      queue,
		handler:    handler,
		config:     DefaultConsumerConfig(),
		logger:     logging.With().Str("component", "consumer").Str("queue", queue).Logger(),
		attempts:   make(map[string]attempt),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Queue returns the queue this consumer drains.
func (c *Consumer) Queue() string {
	return c.queue
}

// String names the consumer in supervisor logs.
func (c *Consumer) String() string {
	return "consumer:" + c.queue
}

// Serve subscribes and processes messages until ctx is canceled.
func (c *Consumer) Serve(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.queue)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.queue, err)
	}

	c.logger.Info().Msg("consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("subscription to %s closed", c.queue)
			}
			c.process(ctx, msg)
		}
	}
}

// process runs the handler and settles the delivery. It returns the outcome.
func (c *Consumer) process(ctx context.Context, msg *message.Message) string {
	start := time.Now()

	correlationID := msg.Metadata.Get(MetadataCorrelationID)
	if correlationID == "" {
		correlationID = logging.GenerateCorrelationID()
	}
	log := c.logger.With().Str("message_uuid", msg.UUID).Logger()
	msgCtx := logging.ContextWithLogger(ctx, log)
	msgCtx = logging.ContextWithCorrelationID(msgCtx, correlationID)

	err := c.handler(msgCtx, msg)
	outcome := c.settle(msgCtx, msg, err)

	metrics.RecordConsume(c.queue, outcome, time.Since(start))
	return outcome
}

func (c *Consumer) settle(ctx context.Context, msg *message.Message, err error) string {
	log := logging.Ctx(ctx)

	if err == nil {
		c.forget(msg.UUID)
		msg.Ack()
		return OutcomeAck
	}

	if IsPermanentError(err) {
		attempts := c.forget(msg.UUID) + 1
		log.Warn().Err(err).Msg("permanent failure, dead-lettering message")
		c.deadLetter(ctx, msg, err, attempts)
		msg.Ack()
		return OutcomeDeadLetter
	}

	attempts := c.recordFailure(msg.UUID)
	if c.config.MaxAttempts > 0 && attempts >= c.config.MaxAttempts {
		c.forget(msg.UUID)
		log.Error().Err(err).Int("attempts", attempts).Msg("delivery attempts exhausted, dead-lettering message")
		exhausted := &PermanentError{
			Message:  fmt.Sprintf("gave up after %d attempts", attempts),
			Cause:    err,
			Category: ErrorCategoryExhausted,
		}
		c.deadLetter(ctx, msg, exhausted, attempts)
		msg.Ack()
		return OutcomeDeadLetter
	}

	log.Warn().Err(err).Int("attempt", attempts).Msg("processing failed, requeueing message")
	if c.config.RetryDelay > 0 {
		timer := time.NewTimer(c.config.RetryDelay)
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
		timer.Stop()
	}
	msg.Nack()
	return OutcomeRequeue
}

func (c *Consumer) deadLetter(ctx context.Context, msg *message.Message, cause error, attempts int) {
	if c.deadLetters == nil {
		return
	}
	if err := c.deadLetters.DeadLetter(ctx, c.queue, msg, cause, attempts); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to publish dead letter")
	}
}

func (c *Consumer) recordFailure(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	a, known := c.attempts[id]
	if known && now.Sub(a.last) > c.config.attemptTTL() {
		a = attempt{}
	}
	if !known && len(c.attempts) >= c.config.maxTracked() {
		c.prune(now)
	}
	a.count++
	a.last = now
	c.attempts[id] = a
	return a.count
}

// prune drops expired counts, then the oldest ones until there is room for
// one more. Callers hold c.mu.
func (c *Consumer) prune(now time.Time) {
	ttl := c.config.attemptTTL()
	for id, a := range c.attempts {
		if now.Sub(a.last) > ttl {
			delete(c.attempts, id)
		}
	}
	for len(c.attempts) >= c.config.maxTracked() {
		var oldest string
		var oldestAt time.Time
		for id, a := range c.attempts {
			if oldest == "" || a.last.Before(oldestAt) {
				oldest, oldestAt = id, a.last
			}
		}
		delete(c.attempts, oldest)
	}
}

// forget drops the failure count for id and returns what it was.
func (c *Consumer) forget(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.attempts[id].count
	delete(c.attempts, id)
	return n
}
