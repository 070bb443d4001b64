// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package discovery is the producer side of the pipeline.

A run has two halves, executed in this order by Observer:

 1. Producer scans every subscription, keeps the feed articles published
    strictly after the subscription watermark, publishes one init signal
    on the refresh queue carrying the total, then one new_posts event per
    article. Watermarks then move to the newest discovered article.
 2. Notifier finds subscriptions that have been silent longer than the
    inactivity threshold, publishes a reminder for each and resets the
    watermark to now, so the next reminder comes one threshold later.

# Watermark Policy

With config.WatermarkAdvance the watermark advances once a subscription's
events were attempted, whatever the publish outcome. Articles whose event
failed to publish are then never rediscovered. With
config.WatermarkConfirm the watermark only moves when every event of that
subscription was published, so the next run retries the rest. The global
batch opened by the init signal is sized for all discovered articles either
way; the next run's init replaces a batch that can no longer close.

The notifier reuses last_seen_at to suppress repeats. After a reminder the
column holds the reminder time, not the time of the last real post.
*/
package discovery
