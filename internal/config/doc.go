// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package config provides centralized configuration management for Jandi.

Configuration is layered with koanf. Built-in defaults are loaded first,
then an optional YAML file, then environment variables. Load additionally
applies a .env file to the process environment before reading it, which is
how local runs supply SMTP and model credentials.

# Configuration Sources

  - defaults from defaultConfig
  - YAML file at CONFIG_PATH, or the first of DefaultConfigPaths that exists
  - environment variables, mapped by envTransformFunc

# Environment Variables

Broker and storage:
  - BROKER: nats or memory (default: nats)
  - NATS_URL, NATS_EMBEDDED, NATS_STORE_DIR, NATS_STREAM, NATS_MAX_DELIVER, NATS_ACK_WAIT
  - DB_DRIVER: duckdb or pgx (default: duckdb)
  - DUCKDB_PATH, DATABASE_URL
  - BATCH_STORE: memory or badger (default: badger), BATCH_PATH, BATCH_GLOBAL_POLICY

Pipeline:
  - OBSERVER_INTERVAL (default: 24h), OBSERVER_RUN_ON_STARTUP
  - INACTIVITY_THRESHOLD (default: 720h)
  - WATERMARK_POLICY: advance or confirm (default: advance)
  - CRAWLER_TIMEOUT, CRAWLER_USER_AGENT, CRAWLER_MAX_RUNES, CRAWLER_MIN_INTERVAL
  - ANTHROPIC_API_KEY, CLASSIFIER_MODEL

Mail:
  - MAIL_ENABLED, SMTP_HOST, SMTP_PORT, MAIL_USERNAME, MAIL_PASSWORD, MAIL_FROM

HTTP:
  - HTTP_HOST, HTTP_PORT, RATE_LIMIT_REQS, RATE_LIMIT_WINDOW

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config
