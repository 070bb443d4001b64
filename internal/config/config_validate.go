// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateBroker(); err != nil {
		return err
	}

	if err := c.validateObserver(); err != nil {
		return err
	}

	if err := c.validateBatch(); err != nil {
		return err
	}

	if err := c.validateCrawler(); err != nil {
		return err
	}

	if err := c.validateMail(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "duckdb":
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DB_DRIVER=duckdb")
		}
	case "pgx":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=pgx")
		}
		if err := validatePostgresDSN(c.Database.DSN); err != nil {
			return fmt.Errorf("DATABASE_URL is invalid: %w", err)
		}
	default:
		return fmt.Errorf("DB_DRIVER must be 'duckdb' or 'pgx', got %q", c.Database.Driver)
	}
	return nil
}

func (c *Config) validateBroker() error {
	switch c.Broker.Kind {
	case "memory":
		return nil
	case "nats":
		return c.validateNATS()
	default:
		return fmt.Errorf("BROKER must be 'nats' or 'memory', got %q", c.Broker.Kind)
	}
}

// validateNATS validates NATS configuration
func (c *Config) validateNATS() error {
	if !c.NATS.EmbeddedServer {
		if err := validateNATSURL(c.NATS.URL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
	} else if c.NATS.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
	}
	if c.NATS.StreamName == "" {
		return fmt.Errorf("NATS_STREAM must not be empty")
	}
	if c.NATS.MaxDeliver < 1 {
		return fmt.Errorf("NATS_MAX_DELIVER must be at least 1, got %d", c.NATS.MaxDeliver)
	}
	if c.NATS.AckWait <= 0 {
		return fmt.Errorf("NATS_ACK_WAIT must be positive, got %v", c.NATS.AckWait)
	}
	return nil
}

func (c *Config) validateObserver() error {
	if c.Observer.InactivityThreshold <= 0 {
		return fmt.Errorf("INACTIVITY_THRESHOLD must be positive, got %v", c.Observer.InactivityThreshold)
	}
	if c.Observer.Interval <= 0 {
		return fmt.Errorf("OBSERVER_INTERVAL must be positive, got %v", c.Observer.Interval)
	}
	switch c.Observer.WatermarkPolicy {
	case WatermarkAdvance, WatermarkConfirm:
		return nil
	default:
		return fmt.Errorf("WATERMARK_POLICY must be '%s' or '%s', got %q",
			WatermarkAdvance, WatermarkConfirm, c.Observer.WatermarkPolicy)
	}
}

func (c *Config) validateBatch() error {
	switch c.Batch.Store {
	case "memory":
	case "badger":
		if c.Batch.Path == "" {
			return fmt.Errorf("BATCH_PATH is required when BATCH_STORE=badger")
		}
	default:
		return fmt.Errorf("BATCH_STORE must be 'memory' or 'badger', got %q", c.Batch.Store)
	}

	switch c.Batch.GlobalPolicy {
	case GlobalBatchDelete, GlobalBatchRetain:
		return nil
	default:
		return fmt.Errorf("BATCH_GLOBAL_POLICY must be '%s' or '%s', got %q",
			GlobalBatchDelete, GlobalBatchRetain, c.Batch.GlobalPolicy)
	}
}

func (c *Config) validateCrawler() error {
	if c.Crawler.Timeout <= 0 {
		return fmt.Errorf("CRAWLER_TIMEOUT must be positive, got %v", c.Crawler.Timeout)
	}
	if c.Crawler.MaxRunes < 1 {
		return fmt.Errorf("CRAWLER_MAX_RUNES must be at least 1, got %d", c.Crawler.MaxRunes)
	}
	if c.Crawler.MinInterval < 0 {
		return fmt.Errorf("CRAWLER_MIN_INTERVAL must not be negative, got %v", c.Crawler.MinInterval)
	}
	return nil
}

// validateMail only checks SMTP settings when delivery is enabled.
func (c *Config) validateMail() error {
	if !c.Mail.Enabled {
		return nil
	}
	if c.Mail.Host == "" {
		return fmt.Errorf("SMTP_HOST is required when MAIL_ENABLED=true")
	}
	if c.Mail.Port < 1 || c.Mail.Port > 65535 {
		return fmt.Errorf("SMTP_PORT must be between 1 and 65535, got %d", c.Mail.Port)
	}
	if c.Mail.Username == "" || c.Mail.Password == "" {
		return fmt.Errorf("MAIL_USERNAME and MAIL_PASSWORD are required when MAIL_ENABLED=true")
	}
	if c.Mail.From == "" {
		c.Mail.From = c.Mail.Username
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be at least 1, got %d", c.Server.RateLimitReqs)
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Server.RateLimitWindow)
	}
	if c.Server.CacheTTL < 0 {
		return fmt.Errorf("API_CACHE_TTL must not be negative, got %v", c.Server.CacheTTL)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}
