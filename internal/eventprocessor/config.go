// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package eventprocessor

import (
	"time"

	"github.com/tomtom215/jandi/internal/models"
)

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// DefaultServerConfig returns production defaults for the embedded server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats/jetstream",
		JetStreamMaxMem:   256 << 20, // 256MB
		JetStreamMaxStore: 4 << 30,   // 4GB
	}
}

// PublisherConfig holds Watermill NATS publisher configuration.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool // nolint:revive // ID is correct per Go conventions
}

// DefaultPublisherConfig returns publisher defaults for the given URL.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1, // Unlimited
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024, // 8MB
		EnableTrackMsgID: true,
	}
}

// SubscriberConfig holds Watermill NATS subscriber configuration.
type SubscriberConfig struct {
	URL string

	// DurablePrefix names JetStream durables explicitly. When empty the
	// queue group name is used as the durable, so every process bound to a
	// queue shares one consumer.
	DurablePrefix    string
	QueueGroupPrefix string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	MaxDeliver       int
	MaxAckPending    int
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration

	// StreamName binds consumers to the pre-created stream.
	StreamName string
}

// DefaultSubscriberConfig returns subscriber defaults for the given URL.
// One subscriber with one unacknowledged message at a time gives every
// worker process a prefetch of exactly one.
func DefaultSubscriberConfig(url string) SubscriberConfig {
	return SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: "jandi",
		SubscribersCount: 1,
		AckWaitTimeout:   2 * time.Minute,
		MaxDeliver:       5,
		MaxAckPending:    1,
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		StreamName:       "JANDI",
	}
}

// StreamConfig holds JetStream stream configuration.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	DuplicateWindow time.Duration
	Replicas        int
}

// DefaultStreamConfig returns the stream that carries every queue.
func DefaultStreamConfig() StreamConfig {
	subjects := make([]string, 0, len(models.WorkQueues)+1)
	subjects = append(subjects, models.WorkQueues...)
	subjects = append(subjects, models.QueueDeadLetters)

	return StreamConfig{
		Name:            "JANDI",
		Subjects:        subjects,
		MaxAge:          7 * 24 * time.Hour,
		MaxBytes:        -1,
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// ConsumerConfig controls how a Consumer settles failed deliveries.
type ConsumerConfig struct {
	// MaxAttempts is the number of failed deliveries after which a message
	// is dead-lettered instead of requeued. Zero requeues forever.
	MaxAttempts int

	// RetryDelay is waited before a Nack so a failing dependency is not
	// hammered by immediate redelivery.
	RetryDelay time.Duration

	// AttemptTTL drops a failure count once its message has not come back
	// for this long. A message nacked here may be redelivered to another
	// process and never return.
	AttemptTTL time.Duration

	// MaxTracked caps how many failure counts are held. The oldest go first.
	MaxTracked int
}

const (
	defaultAttemptTTL = time.Hour
	defaultMaxTracked = 10000
)

// DefaultConsumerConfig matches the subscriber's MaxDeliver.
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		MaxAttempts: 5,
		RetryDelay:  time.Second,
		AttemptTTL:  defaultAttemptTTL,
		MaxTracked:  defaultMaxTracked,
	}
}

func (c *ConsumerConfig) attemptTTL() time.Duration {
	if c.AttemptTTL <= 0 {
		return defaultAttemptTTL
	}
	return c.AttemptTTL
}

func (c *ConsumerConfig) maxTracked() int {
	if c.MaxTracked <= 0 {
		return defaultMaxTracked
	}
	return c.MaxTracked
}

// BrokerConfig assembles everything OpenNATS needs.
type BrokerConfig struct {
	// Embedded starts an in-process nats-server before connecting.
	Embedded bool
	Server   ServerConfig

	// URL is used when Embedded is false.
	URL string

	Stream     StreamConfig
	Publisher  PublisherConfig
	Subscriber SubscriberConfig
}
