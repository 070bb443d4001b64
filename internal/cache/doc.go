// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package cache provides a thread-safe in-memory TTL cache for API reads.

The admin API caches aggregate reads (activity grids and topic stats) per
user for a short TTL. Writes that change a user's data drop that user's
keys with DeletePrefix; a manual recompute clears everything. Aggregates
refreshed by a tracker in another process become visible once the TTL
expires.

Expired entries are removed lazily on Get and periodically by Serve, which
runs under the supervisor tree.

Example:

	c := cache.New(time.Minute)
	key := cache.UserKey(userID, cache.GenerateKey("topics", nil))
	if v, ok := c.Get(key); ok {
	    return v.([]models.TopicStat), nil
	}
*/
package cache
