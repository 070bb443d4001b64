// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package enrichment turns discovered articles into classified posts.

The worker consumes two queues that differ only in how completion is
reported:

  - new_posts events come from the daily scan and report a bare progress
    signal to the global batch.
  - platform_register events come from a user's registration backlog and
    report progress_platform_register scoped to that user.

Each delivery produces exactly one progress signal, with one exception: a
new_posts event whose post already exists is acked silently, because the
first delivery already counted it. Backlog events always report, since the
registration batch must close even when a post was stored before.

Failure handling:

  - crawl failure or an empty page: progress, ack, nothing stored
  - classification or store failure: progress, then a RetryableError so
    the broker redelivers
  - malformed payload: PermanentError, dead-lettered, no progress
*/
package enrichment
