// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

// Package main is the entry point for the jandi binary.
//
// Jandi tracks blog activity on Naver, Tistory and Velog. It discovers new
// articles through RSS, classifies them into developer topics, keeps
// per-user activity aggregates and mails reminders to silent writers.
//
// # Commands
//
//	jandi serve [--roles enricher,tracker,mailer,observer,api]
//	jandi observe
//	jandi platform register --user u1 --platform velog --account alice
//	jandi platform unregister --user u1 --platform velog
//	jandi recompute
//
// serve runs the selected roles under one suture supervisor tree. Every
// role scales by running more processes against the same broker and
// database; roles left out of --roles are simply not started.
//
// # Configuration
//
// Configuration is loaded via koanf with layered sources (highest priority wins):
//   - Environment variables (a .env file is applied first when present)
//   - Config file (--config, CONFIG_PATH or config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// serve stops on SIGINT and SIGTERM. The supervisor tree stops its services
// first, then the batch store, the broker and the database are closed.
package main

import (
	"os"

	"github.com/tomtom215/jandi/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Error().Err(err).Msg("jandi failed")
		os.Exit(1)
	}
}
