// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the Userbird server configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"USERBIRD_DB_PATH" envDefault:"./data/userbird.db"`
	ServerHost string `env:"USERBIRD_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"USERBIRD_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"USERBIRD_ENV" envDefault:"development"`
	LogLevel   string `env:"USERBIRD_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"USERBIRD_LOG_FORMAT" envDefault:"text"`

	// PublicURL is the externally reachable base URL, used in install snippets.
	PublicURL string `env:"USERBIRD_PUBLIC_URL" envDefault:"http://localhost:8080"`

	// DashboardOrigins lists the origins allowed to call the admin API.
	DashboardOrigins []string `env:"USERBIRD_DASHBOARD_ORIGINS" envSeparator:","`

	// RequestTimeout is the per-request timeout in seconds.
	RequestTimeout int `env:"USERBIRD_REQUEST_TIMEOUT" envDefault:"30"`

	// Cache configuration
	RedisURL     string `env:"USERBIRD_REDIS_URL"`                           // Optional Redis URL for shared form cache
	CachePrefix  string `env:"USERBIRD_CACHE_PREFIX" envDefault:"userbird:"` // Redis key prefix
	CacheTTL     int    `env:"USERBIRD_CACHE_TTL" envDefault:"3600"`         // Form cache TTL in seconds
	CacheMaxSize int    `env:"USERBIRD_CACHE_MAX_SIZE" envDefault:"10000"`   // Max memory cache entries

	// Webhook notification on new feedback
	WebhookURL    string `env:"USERBIRD_WEBHOOK_URL"`
	WebhookSecret string `env:"USERBIRD_WEBHOOK_SECRET"`
	// WebhookAllowPrivate permits webhook targets on private or loopback addresses.
	WebhookAllowPrivate bool `env:"USERBIRD_WEBHOOK_ALLOW_PRIVATE" envDefault:"false"`

	// Event log retention; 0 keeps events forever.
	EventRetentionDays int    `env:"USERBIRD_EVENT_RETENTION_DAYS" envDefault:"30"`
	RetentionSchedule  string `env:"USERBIRD_RETENTION_SCHEDULE" envDefault:"@daily"`

	// GeoIPDBPath is an optional GeoLite2-Country database used to label
	// feedback with the submitter's country.
	GeoIPDBPath string `env:"USERBIRD_GEOIP_DB_PATH"`

	// WidgetDir holds the compiled widget.wasm and wasm_exec.js.
	WidgetDir string `env:"USERBIRD_WIDGET_DIR" envDefault:"./dist/widget"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// WebhookEnabled returns true if feedback notifications should be delivered.
func (c Config) WebhookEnabled() bool {
	return c.WebhookURL != ""
}

// CacheTTLDuration returns the form cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// EventRetention returns how long event log rows are kept, or 0 for forever.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// RequestTimeoutDuration returns the request timeout as a duration.
func (c Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("USERBIRD_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}

	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("USERBIRD_ENV must be development or production, got %q", c.Env)
	}

	levelOK := false
	for _, l := range validLogLevels {
		if c.LogLevel == l {
			levelOK = true
			break
		}
	}
	if !levelOK {
		return fmt.Errorf("USERBIRD_LOG_LEVEL must be one of %s, got %q",
			strings.Join(validLogLevels, ", "), c.LogLevel)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("USERBIRD_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("USERBIRD_REQUEST_TIMEOUT must be positive, got %d", c.RequestTimeout)
	}

	if c.EventRetentionDays < 0 {
		return fmt.Errorf("USERBIRD_EVENT_RETENTION_DAYS must not be negative, got %d", c.EventRetentionDays)
	}

	if c.WebhookURL != "" {
		u, err := url.Parse(c.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("USERBIRD_WEBHOOK_URL must be an absolute http or https URL")
		}
	}

	return nil
}
