// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package middleware holds the HTTP middleware of the admin API.

All of it uses the func(http.Handler) http.Handler shape so it can be
passed to chi's r.Use:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)

RequestID accepts an upstream X-Request-ID or generates one, echoes it on
the response and stores it with a fresh correlation ID in the context, so
handler logs made through logging.Ctx carry both. Metrics records request
counts and latency labelled with the chi route pattern rather than the raw
path, which keeps user IDs out of label values.
*/
package middleware
