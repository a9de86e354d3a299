// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "I18NTABS_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/i18ntabs.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/i18ntabs.db")
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:8080")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.LocalesFile != "" {
		t.Errorf("LocalesFile = %q, want empty", cfg.LocalesFile)
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() = true, want false")
	}
	if cfg.CachePrefix != "i18ntabs:" {
		t.Errorf("CachePrefix = %q", cfg.CachePrefix)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.CacheTTL)
	}
	if cfg.RevisionKeep != 20 {
		t.Errorf("RevisionKeep = %d, want 20", cfg.RevisionKeep)
	}
	if cfg.PruneSchedule != "@daily" {
		t.Errorf("PruneSchedule = %q, want @daily", cfg.PruneSchedule)
	}
	if cfg.EventsRetention != 720*time.Hour {
		t.Errorf("EventsRetention = %v, want 720h", cfg.EventsRetention)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "I18NTABS_SESSION_SECRET", testSecret)
	setEnv(t, "I18NTABS_DB_PATH", "/custom/path.db")
	setEnv(t, "I18NTABS_SERVER_HOST", "0.0.0.0")
	setEnv(t, "I18NTABS_SERVER_PORT", "3000")
	setEnv(t, "I18NTABS_ENV", "production")
	setEnv(t, "I18NTABS_LOCALES_FILE", "locales.toml")
	setEnv(t, "I18NTABS_REDIS_URL", "redis://localhost:6379/0")
	setEnv(t, "I18NTABS_CACHE_TTL", "90s")
	setEnv(t, "I18NTABS_PREVIEW_RATE", "0.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if cfg.LocalesFile != "locales.toml" {
		t.Errorf("LocalesFile = %q", cfg.LocalesFile)
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() = false, want true")
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v, want 90s", cfg.CacheTTL)
	}
	if cfg.PreviewRate != 0.5 {
		t.Errorf("PreviewRate = %v, want 0.5", cfg.PreviewRate)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", nil},
		{"short secret", map[string]string{"I18NTABS_SESSION_SECRET": "short"}},
		{"31 bytes", map[string]string{"I18NTABS_SESSION_SECRET": "1234567890123456789012345678901"}},
		{"weak secret", map[string]string{"I18NTABS_SESSION_SECRET": "change-me-to-32-byte-secret-key!"}},
		{"bad port", map[string]string{"I18NTABS_SESSION_SECRET": testSecret, "I18NTABS_SERVER_PORT": "http"}},
		{"bad ttl", map[string]string{"I18NTABS_SESSION_SECRET": testSecret, "I18NTABS_CACHE_TTL": "soon"}},
		{"no revisions", map[string]string{"I18NTABS_SESSION_SECRET": testSecret, "I18NTABS_REVISION_KEEP": "0"}},
		{"zero burst", map[string]string{"I18NTABS_SESSION_SECRET": testSecret, "I18NTABS_PREVIEW_BURST": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				setEnv(t, k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("Load() should fail")
			}
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := (Config{LogLevel: tt.level}).SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"abcdefghijklmnopqrstuvwxyzabcdef", false},
		{"abcdefghijklmnopqrstuvwxyz123456", false},
		{"abcdefghijklmnopqrstuvwxyZ123456", true},
		{testSecret, true},
	}

	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
