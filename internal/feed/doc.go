// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package feed reads a blogger's published articles from their platform feed.

Every supported platform exposes RSS, so a single gofeed-backed RSSSource
serves all of them; the platform only decides the feed URL
(models.Platform.FeedURL). Registry holds one source per platform, each
behind its own circuit breaker so one platform being down does not trip
the others.

Articles without a parseable publish time are dropped: discovery compares
publish times against the subscription watermark and cannot place them.
*/
package feed
