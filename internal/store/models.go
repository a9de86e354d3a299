// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "time"

// Record is a row of records. Data holds the parent field values as JSON.
type Record struct {
	ID         int64     `json:"id"`
	SchemaName string    `json:"schema_name"`
	Data       string    `json:"data"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RecordTranslation is a row of record_translations.
type RecordTranslation struct {
	ID           int64     `json:"id"`
	RecordID     int64     `json:"record_id"`
	LanguageCode string    `json:"language_code"`
	Data         string    `json:"data"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecordRevision is a row of record_revisions.
type RecordRevision struct {
	ID         string    `json:"id"`
	RecordID   int64     `json:"record_id"`
	SchemaName string    `json:"schema_name"`
	Data       string    `json:"data"`
	CreatedAt  time.Time `json:"created_at"`
}

// Event is a row of events.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}
