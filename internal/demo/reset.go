// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package demo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// timestampFile is the name of the file storing the last reset time.
	timestampFile = ".last_reset"

	// ResetInterval is how often the demo data is refreshed.
	ResetInterval = 24 * time.Hour
)

// ResetIfNeeded deletes the database when the last reset is older than
// ResetInterval or unknown. It reports whether a reset happened.
func ResetIfNeeded(dbPath, dataDir string) (bool, error) {
	tsPath := filepath.Join(dataDir, timestampFile)

	data, err := os.ReadFile(tsPath)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading reset timestamp: %w", err)
	}

	if err == nil {
		unixSec, parseErr := strconv.ParseInt(string(data), 10, 64)
		if parseErr == nil {
			lastReset := time.Unix(unixSec, 0)
			if time.Since(lastReset) < ResetInterval {
				slog.Info("demo reset not needed",
					"last_reset", lastReset.UTC().Format(time.RFC3339),
					"next_reset", lastReset.Add(ResetInterval).UTC().Format(time.RFC3339),
				)
				return false, nil
			}
		}
	}

	slog.Info("demo reset overdue, resetting database")
	return true, Reset(dbPath, dataDir)
}

// Reset deletes the database files and writes a fresh reset timestamp.
func Reset(dbPath, dataDir string) error {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", dbPath+suffix, err)
		}
	}
	slog.Info("demo database deleted", "path", dbPath)

	if err := writeTimestamp(dataDir); err != nil {
		return fmt.Errorf("writing reset timestamp: %w", err)
	}

	slog.Info("demo reset complete")
	return nil
}

// writeTimestamp writes the current UTC unix timestamp to the data directory.
func writeTimestamp(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	tsPath := filepath.Join(dataDir, timestampFile)
	data := []byte(strconv.FormatInt(time.Now().UTC().Unix(), 10))
	return os.WriteFile(tsPath, data, 0o644)
}
