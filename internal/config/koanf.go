// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/jandi/config.yaml",
	"/etc/jandi/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPath is loaded into the process environment before env vars are read.
// A missing file is not an error.
var DotEnvPath = ".env"

func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Database: DatabaseConfig{
			Driver: "duckdb",
			Path:   "/data/jandi.duckdb",
		},
		Broker: BrokerConfig{
			Kind: "nats",
		},
		NATS: NATSConfig{
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: true,
			Host:           "127.0.0.1",
			Port:           4222,
			StoreDir:       "/data/nats/jetstream",
			MaxMemory:      256 << 20, // 256MB
			MaxStore:       4 << 30,   // 4GB
			StreamName:     "JANDI",
			RetentionDays:  7,
			DurablePrefix:  "",
			MaxDeliver:     5,
			AckWait:        2 * time.Minute,
			CloseTimeout:   30 * time.Second,
		},
		Observer: ObserverConfig{
			Interval:            24 * time.Hour,
			RunOnStartup:        false,
			InactivityThreshold: 720 * time.Hour, // 30 days
			WatermarkPolicy:     WatermarkAdvance,
		},
		Batch: BatchConfig{
			Store:        "badger",
			Path:         "/data/batches",
			GlobalPolicy: GlobalBatchDelete,
		},
		Crawler: CrawlerConfig{
			Timeout:     10 * time.Second,
			UserAgent:   "Mozilla/5.0",
			MaxRunes:    5000,
			MinInterval: 2 * time.Second,
		},
		Feed: FeedConfig{
			Timeout: 10 * time.Second,
		},
		Classifier: ClassifierConfig{
			Model:       "claude-3-5-haiku-latest",
			MaxTokens:   50,
			Temperature: 0.1,
		},
		Mail: MailConfig{
			Enabled: false,
			Host:    "smtp.gmail.com",
			Port:    587,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
			CacheTTL:        time.Minute,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and the
// environment (after applying a .env file when present), then validates it.
//
// Precedence, lowest to highest:
//  1. built-in defaults
//  2. config file (CONFIG_PATH or DefaultConfigPaths)
//  3. environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvPath, err)
	}
	return LoadWithKoanf()
}

// LoadWithKoanf loads configuration without touching .env files.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

var envMappings = map[string]string{
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"db_driver":    "database.driver",
	"duckdb_path":  "database.path",
	"database_url": "database.dsn",

	"broker": "broker.kind",

	"nats_url":            "nats.url",
	"nats_embedded":       "nats.embedded_server",
	"nats_host":           "nats.host",
	"nats_port":           "nats.port",
	"nats_store_dir":      "nats.store_dir",
	"nats_max_memory":     "nats.max_memory",
	"nats_max_store":      "nats.max_store",
	"nats_stream":         "nats.stream_name",
	"nats_retention_days": "nats.retention_days",
	"nats_durable_prefix": "nats.durable_prefix",
	"nats_max_deliver":    "nats.max_deliver",
	"nats_ack_wait":       "nats.ack_wait",
	"nats_close_timeout":  "nats.close_timeout",

	"observer_interval":       "observer.interval",
	"observer_run_on_startup": "observer.run_on_startup",
	"inactivity_threshold":    "observer.inactivity_threshold",
	"watermark_policy":        "observer.watermark_policy",

	"batch_store":         "batch.store",
	"batch_path":          "batch.path",
	"batch_global_policy": "batch.global_policy",

	"crawler_timeout":      "crawler.timeout",
	"crawler_user_agent":   "crawler.user_agent",
	"crawler_max_runes":    "crawler.max_runes",
	"crawler_min_interval": "crawler.min_interval",

	"feed_timeout": "feed.timeout",

	"anthropic_api_key":      "classifier.api_key",
	"classifier_model":       "classifier.model",
	"classifier_max_tokens":  "classifier.max_tokens",
	"classifier_temperature": "classifier.temperature",

	"mail_enabled":  "mail.enabled",
	"smtp_host":     "mail.host",
	"smtp_port":     "mail.port",
	"mail_username": "mail.username",
	"mail_password": "mail.password",
	"mail_from":     "mail.from",

	"http_host":          "server.host",
	"http_port":          "server.port",
	"http_read_timeout":  "server.read_timeout",
	"http_write_timeout": "server.write_timeout",
	"http_shutdown":      "server.shutdown_timeout",
	"rate_limit_reqs":    "server.rate_limit_reqs",
	"rate_limit_window":  "server.rate_limit_window",
	"api_cache_ttl":      "server.cache_ttl",
	"cors_origins":       "server.cors_origins",

	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc maps flat environment variable names onto koanf keys.
// Unknown variables are dropped so the rest of the environment does not
// leak into the config tree.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
