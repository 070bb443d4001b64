// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package services adapts Jandi components to suture v4 services.

Queue consumers already implement suture.Service through
eventprocessor.Consumer.Serve and are added to the tree directly. The
wrappers here cover the components with other lifecycles:

  - HTTPServerService runs the admin API's *http.Server and drains it on
    shutdown.
  - LifecycleService drives anything with Start(ctx)/Stop(), which is how
    scheduler.Scheduler runs the observer cycle and the batch store GC.

Every wrapper returns ctx.Err() on a requested shutdown and a wrapped error
on failure, so suture restarts it with backoff.
*/
package services
