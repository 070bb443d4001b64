// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package models defines the data types shared across Jandi.

# Entities

  - Platform: the closed set of supported blog platforms and their feed URLs
  - Subscription: a (user, platform, account) binding with its last_seen_at watermark
  - Article: an item read from a platform feed, in flight only
  - ContentItem: a classified post, unique per (URL, user, platform)
  - Topic: the closed classification vocabulary

# Queue Payloads

Every queue carries a JSON object. The shapes are fixed because workers in
other processes decode them:

  - NewPostEvent on new_posts
  - BacklogEvent on platform_register
  - RefreshSignal on refresh (init, init_platform_register, progress, progress_platform_register)
  - ReminderEvent on mail_reminders

# API Types

APIResponse, Metadata and APIError form the envelope every admin HTTP
endpoint answers with. ActivityRow and TopicStat are the aggregate rows the
dashboard reads.
*/
package models
