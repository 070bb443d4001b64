// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package eventprocessor is Jandi's broker layer.

It carries the pipeline's four work queues (new_posts, platform_register,
refresh, mail_reminders) plus dead_letters over Watermill. Two transports
are supported:

  - NATS JetStream through watermill-nats, optionally backed by an embedded
    nats-server. One stream holds every queue subject with WorkQueuePolicy
    retention, so a message lives until a consumer acks it.
  - Watermill's gochannel pub/sub for single-process runs and tests.

# Delivery Model

Each queue is drained by a Consumer with one message in flight. The handler's
return value decides how the delivery is settled:

  - nil: Ack
  - *PermanentError (malformed payload, missing recipient): copy to
    dead_letters, then Ack
  - anything else: Nack so the broker redelivers, until MaxAttempts
    deliveries have failed, after which the message is dead-lettered

Publishing goes through Publisher, which stamps every message with its UUID
as Nats-Msg-Id (deduplicated by JetStream inside the duplicate window),
propagates the correlation ID from the context, and runs behind a circuit
breaker.

# Usage

	b, err := eventprocessor.OpenNATS(ctx, brokerCfg, logger)
	if err != nil {
	    return err
	}
	defer b.Close(ctx)

	_ = b.Publisher.PublishJSON(ctx, models.QueueRefresh, models.InitSignal(3))

	c := eventprocessor.NewConsumer(b.Subscriber, models.QueueRefresh, tracker.Handle,
	    eventprocessor.WithDeadLetters(b.Publisher))
	go c.Serve(ctx)
*/
package eventprocessor
