// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package eventprocessor

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/jandi/internal/logging"
)

// NewMemoryPubSub returns an in-process pub/sub for single-process runs.
//
// Messages published before a queue is subscribed are kept and delivered
// once it is, matching a durable queue for the life of the process.
// Nothing survives a restart.
func NewMemoryPubSub(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	if logger == nil {
		logger = logging.NewWatermillAdapter()
	}
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
		Persistent:          true,
	}, logger)
}
