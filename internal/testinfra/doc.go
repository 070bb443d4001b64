// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

// Package testinfra holds shared test doubles and starts containers for
// integration tests.
//
// RecordingPublisher captures published payloads for unit tests. The
// container helpers are behind the integration build tag and use
// testcontainers-go:
//
//	func TestStoreOnPostgres(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(ctx, t, pg)
//
//	    db, err := database.New(&config.DatabaseConfig{Driver: "pgx", DSN: pg.DSN})
//	    // ...
//	}
//
// Tests are skipped when Docker is unavailable. The first run pulls images.
package testinfra
