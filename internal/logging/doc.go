// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

// Package logging provides centralized zerolog-based structured logging for Jandi.
//
// Every process (observer, enrichment worker, completion tracker, mailer and
// admin API) logs through the same global zerolog instance. JSON output is the
// default and console output is available for development.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("queue", "new_posts").Msg("Consumer started")
//	logging.Err(err).Msg("Recompute failed")
//
//	// Each consumed message carries a correlation ID
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Info().Msg("Processing message")
//
// # Adapters
//
// Two libraries want their own logger interfaces:
//   - sutureslog takes a *slog.Logger: use NewSlogLogger.
//   - watermill takes a watermill.LoggerAdapter: use NewWatermillAdapter.
//
// Both forward into zerolog so that the supervisor, the broker client and the
// pipeline code produce one consistent stream.
//
// Always terminate log chains with .Msg() or .Send(), otherwise nothing is written.
package logging
