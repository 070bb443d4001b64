// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

// Package database is Jandi's relational store.
//
// # Overview
//
// The store owns five tables:
//   - users: account holders and their contact details
//   - user_platforms: one row per (user, platform) binding with the
//     last_seen_at watermark
//   - posts: classified content items, unique per (url, user, platform)
//   - post_agg: posts per (category, day, user), rebuilt by RefreshAggregates
//   - user_stat: posts per (user, category), rebuilt by RefreshAggregates
//
// # Drivers
//
// Two database/sql drivers are supported behind the same queries:
//   - duckdb (github.com/duckdb/duckdb-go/v2): embedded, the default
//   - pgx (github.com/jackc/pgx/v5/stdlib): PostgreSQL
//
// Queries are built with squirrel using $n placeholders, which both
// engines accept.
//
// # File Organization
//
//   - database.go: lifecycle (open, pool, close)
//   - database_schema.go: idempotent table creation
//   - database_connection.go: pool tuning and conflict retry
//   - subscriptions.go: users, bindings and watermarks
//   - content.go: posts
//   - aggregates.go: aggregate rebuild and dashboard reads
package database
