// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package tracker implements the completion barrier on the refresh queue.

Two kinds of batch are counted:

  - the global batch, opened by init with the number of articles a
    discovery run published, and advanced by bare progress signals
  - one batch per user, opened by init_platform_register when the user
    registers a platform, and advanced by progress_platform_register

When a batch's count reaches its total the aggregates are recomputed,
exactly once per batch. A new init replaces whatever batch was open under
the same key. Progress for a missing batch, or for one that already fired,
is discarded and counted in metrics.

Every signal is acked. Redelivery can double count, which closes a barrier
early; holding the queue would be worse. Malformed payloads are dead
lettered like on every other queue.

Per-user batches are always deleted when they fire. The global batch is
deleted too under config.GlobalBatchDelete; config.GlobalBatchRetain keeps
the fired entry until the next init, and later progress is absorbed.
*/
package tracker
