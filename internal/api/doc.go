// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package api is the operator-facing HTTP surface of Jandi, routed with chi.

Routes:

	PUT    /api/platforms                 register a blog account and queue its backlog
	DELETE /api/platforms                 remove a binding and its posts
	GET    /api/users/{userID}/platforms  bindings with account and watermark
	GET    /api/users/{userID}/activity   daily post counts per topic (?date=YYYY-MM-DD&days=30)
	GET    /api/users/{userID}/topics     post counts per topic
	POST   /api/recompute                 refresh the aggregates now
	GET    /healthz                       database reachability
	GET    /metrics                       Prometheus exposition

Every /api response uses the models.APIResponse envelope. /api is rate
limited per client IP with httprate. Request bodies are decoded with
goccy/go-json and validated through internal/validation.
*/
package api
