// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Logging    LoggingConfig    `koanf:"logging"`
	Database   DatabaseConfig   `koanf:"database"`
	Broker     BrokerConfig     `koanf:"broker"`
	NATS       NATSConfig       `koanf:"nats"`
	Observer   ObserverConfig   `koanf:"observer"`
	Batch      BatchConfig      `koanf:"batch"`
	Crawler    CrawlerConfig    `koanf:"crawler"`
	Feed       FeedConfig       `koanf:"feed"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Mail       MailConfig       `koanf:"mail"`
	Server     ServerConfig     `koanf:"server"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig selects the relational store.
//
// Driver "duckdb" opens an embedded DuckDB file at Path (":memory:" for
// ephemeral runs). Driver "pgx" connects to PostgreSQL using DSN.
type DatabaseConfig struct {
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
	DSN    string `koanf:"dsn"`
}

// BrokerConfig selects the queue transport.
type BrokerConfig struct {
	// Kind is "nats" (JetStream, durable) or "memory" (single process, tests and local runs).
	Kind string `koanf:"kind"`
}

// NATSConfig holds NATS JetStream configuration.
type NATSConfig struct {
	URL            string        `koanf:"url"`
	EmbeddedServer bool          `koanf:"embedded_server"`
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port"`
	StoreDir       string        `koanf:"store_dir"`
	MaxMemory      int64         `koanf:"max_memory"`
	MaxStore       int64         `koanf:"max_store"`
	StreamName     string        `koanf:"stream_name"`
	RetentionDays  int           `koanf:"retention_days"`
	DurablePrefix  string        `koanf:"durable_prefix"`
	MaxDeliver     int           `koanf:"max_deliver"`
	AckWait        time.Duration `koanf:"ack_wait"`
	CloseTimeout   time.Duration `koanf:"close_timeout"`
}

// ObserverConfig controls the discovery and inactivity scan.
type ObserverConfig struct {
	// Interval between scheduled runs when the observer role is served.
	Interval time.Duration `koanf:"interval"`

	// Cron, when set, replaces Interval with a five-field cron expression
	// evaluated in Timezone (UTC when empty).
	Cron     string `koanf:"cron"`
	Timezone string `koanf:"timezone"`

	// RunOnStartup triggers one cycle as soon as the observer service starts.
	RunOnStartup bool `koanf:"run_on_startup"`

	// InactivityThreshold is how long a subscription may stay silent before a reminder.
	InactivityThreshold time.Duration `koanf:"inactivity_threshold"`

	// WatermarkPolicy is "advance" (move past discovered articles regardless of
	// publish outcome) or "confirm" (move only when every event was published).
	WatermarkPolicy string `koanf:"watermark_policy"`
}

// BatchConfig controls completion barrier state.
type BatchConfig struct {
	// Store is "memory" or "badger".
	Store string `koanf:"store"`

	// Path is the BadgerDB directory when Store is "badger".
	Path string `koanf:"path"`

	// GlobalPolicy is "delete" (remove the global batch when it fires) or
	// "retain" (keep the fired entry until the next init replaces it).
	GlobalPolicy string `koanf:"global_policy"`
}

// CrawlerConfig controls article content fetching.
type CrawlerConfig struct {
	Timeout     time.Duration `koanf:"timeout"`
	UserAgent   string        `koanf:"user_agent"`
	MaxRunes    int           `koanf:"max_runes"`
	MinInterval time.Duration `koanf:"min_interval"`
}

// FeedConfig controls RSS fetching.
type FeedConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// ClassifierConfig controls topic classification.
type ClassifierConfig struct {
	APIKey      string  `koanf:"api_key"`
	Model       string  `koanf:"model"`
	MaxTokens   int     `koanf:"max_tokens"`
	Temperature float64 `koanf:"temperature"`
}

// MailConfig controls reminder delivery.
type MailConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

// ServerConfig holds admin HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CacheTTL bounds how stale cached activity and topic reads may be.
	// Zero disables the cache.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// CORSOrigins lists browser origins allowed to call /api. Empty disables CORS.
	CORSOrigins []string `koanf:"cors_origins"`
}

// SupervisorConfig holds suture tree tuning.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Watermark policies.
const (
	WatermarkAdvance = "advance"
	WatermarkConfirm = "confirm"
)

// Global batch policies.
const (
	GlobalBatchDelete = "delete"
	GlobalBatchRetain = "retain"
)
