// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package supervisor runs Jandi's long-lived services under suture v4.

The tree has three layers, each its own supervisor so that restarts stay
local to the layer that failed:

	jandi
	├── data-layer
	│   └── batch-gc           Badger value log GC (badger batch store only)
	├── messaging-layer
	│   ├── consumer:new_posts         enricher role
	│   ├── consumer:platform_register enricher role
	│   ├── consumer:refresh           tracker role
	│   ├── consumer:mail_reminders    mailer role
	│   └── observer                   observer role
	└── api-layer
	    ├── http-server                api role
	    └── api-cache                  read cache cleanup (when enabled)

Which services are added depends on the roles a process serves; see
Roles. Supervisor events are logged through sutureslog into the zerolog
stream.

Canceling the context passed to Serve stops every service. Messages a
consumer had not acknowledged are redelivered by the broker.
*/
package supervisor
