// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package batch holds completion-barrier counters.

A batch is opened with the number of completions it expects and counts
progress until current reaches total. The increment that reaches total is
reported as Completed exactly once; the batch is then either deleted or kept
as fired, in which case further increments are absorbed.

Two implementations share the Store interface:

  - MemoryStore: a mutex-guarded map. Lost on restart.
  - BadgerStore: one JSON value per batch in BadgerDB. Increments run in a
    read-write transaction, so counters survive restarts and several
    trackers can share one store directory through one process.
*/
package batch
