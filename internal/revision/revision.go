// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package revision serialises records with their translations and rebuilds
// them from stored snapshots.
package revision

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/olegiv/ocms-i18ntabs/internal/record"
)

// Snapshot is the stored content of a record at one point in time.
type Snapshot struct {
	ID           int64                    `json:"id"`
	Values       record.Values            `json:"values"`
	Translations map[string]record.Values `json:"translations"`
}

// Take captures the parent values and persisted translations of a record.
func Take(ctx context.Context, rec *record.Record) (*Snapshot, error) {
	codes, err := rec.AvailableLanguages(ctx, false)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:           rec.ID,
		Values:       rec.Values.Clone(),
		Translations: make(map[string]record.Values, len(codes)),
	}
	for _, code := range codes {
		t, err := rec.Translation(ctx, code)
		if err != nil {
			return nil, err
		}
		snap.Translations[code] = t.Values.Clone()
	}
	return snap, nil
}

// Encode returns the JSON form of a snapshot of rec.
func Encode(ctx context.Context, rec *record.Record) ([]byte, error) {
	snap, err := Take(ctx, rec)
	if err != nil {
		return nil, err
	}
	return json.Marshal(snap)
}

// Decode parses a stored snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding revision: %w", err)
	}
	if snap.Values == nil {
		snap.Values = record.Values{}
	}
	return &snap, nil
}

// Restore rebuilds a detached record from a snapshot. Locales with content
// become in-memory translations; every other locale in codes is cached as a
// fallback so reading the record never touches storage.
func Restore(ctx context.Context, schema *record.Schema, snap *Snapshot, codes []string, fallbacks func(string) []string) (*record.Record, error) {
	rec := record.New(schema, record.WithFallbacks(fallbacks))
	rec.ID = snap.ID
	rec.Values = snap.Values.Clone()

	locales := make([]string, 0, len(snap.Translations))
	for code := range snap.Translations {
		locales = append(locales, code)
	}
	slices.Sort(locales)

	for _, code := range locales {
		values := snap.Translations[code]
		if values.IsEmpty() {
			continue
		}
		if _, err := rec.SetTranslatedFields(ctx, code, values); err != nil {
			return nil, err
		}
	}

	for _, code := range codes {
		if values, ok := snap.Translations[code]; ok && !values.IsEmpty() {
			continue
		}
		if err := rec.CacheFallback(ctx, code); err != nil {
			return nil, err
		}
	}
	if len(codes) > 0 {
		rec.SetCurrentLanguage(codes[0])
	}
	return rec, nil
}
