// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains example secrets that must never be used.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"I18NTABS_DB_PATH" envDefault:"./data/i18ntabs.db"`
	SessionSecret string `env:"I18NTABS_SESSION_SECRET,required"`
	ServerHost    string `env:"I18NTABS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"I18NTABS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"I18NTABS_ENV" envDefault:"development"`
	LogLevel      string `env:"I18NTABS_LOG_LEVEL" envDefault:"info"`

	// LocalesFile is a YAML or TOML locale settings file. Empty uses the
	// built-in locales.
	LocalesFile string `env:"I18NTABS_LOCALES_FILE"`

	// Cache configuration
	RedisURL     string        `env:"I18NTABS_REDIS_URL"` // Optional; memory cache when empty
	CachePrefix  string        `env:"I18NTABS_CACHE_PREFIX" envDefault:"i18ntabs:"`
	CacheTTL     time.Duration `env:"I18NTABS_CACHE_TTL" envDefault:"1h"`
	CacheMaxSize int           `env:"I18NTABS_CACHE_MAX_SIZE" envDefault:"10000"`

	RequestTimeout time.Duration `env:"I18NTABS_REQUEST_TIMEOUT" envDefault:"30s"`

	// Preview requests per second and burst, per client.
	PreviewRate  float64 `env:"I18NTABS_PREVIEW_RATE" envDefault:"2"`
	PreviewBurst int     `env:"I18NTABS_PREVIEW_BURST" envDefault:"10"`

	// Revision and event log housekeeping
	RevisionKeep    int           `env:"I18NTABS_REVISION_KEEP" envDefault:"20"`
	PruneSchedule   string        `env:"I18NTABS_PRUNE_SCHEDULE" envDefault:"@daily"`
	EventsRetention time.Duration `env:"I18NTABS_EVENTS_RETENTION" envDefault:"720h"`

	DoSeed bool `env:"I18NTABS_DO_SEED" envDefault:"false"`
	// DemoMode resets the database every day and reseeds it.
	DemoMode bool `env:"I18NTABS_DEMO_MODE" envDefault:"false"`
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

// SlogLevel returns the configured log level. Unknown names mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("I18NTABS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("I18NTABS_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.RevisionKeep < 1 {
		return nil, fmt.Errorf("I18NTABS_REVISION_KEEP must be at least 1, got %d", cfg.RevisionKeep)
	}
	if cfg.PreviewRate <= 0 || cfg.PreviewBurst < 1 {
		return nil, fmt.Errorf("I18NTABS_PREVIEW_RATE and I18NTABS_PREVIEW_BURST must be positive")
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("I18NTABS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes.
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
