// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const listRecordTranslations = `
SELECT id, record_id, language_code, data, created_at, updated_at FROM record_translations
WHERE record_id = ?
ORDER BY language_code
`

func (q *Queries) ListRecordTranslations(ctx context.Context, recordID int64) ([]RecordTranslation, error) {
	rows, err := q.db.QueryContext(ctx, listRecordTranslations, recordID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []RecordTranslation
	for rows.Next() {
		var i RecordTranslation
		if err := rows.Scan(&i.ID, &i.RecordID, &i.LanguageCode, &i.Data, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertRecordTranslation = `
INSERT INTO record_translations (record_id, language_code, data, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (record_id, language_code) DO UPDATE SET
    data = excluded.data,
    updated_at = excluded.updated_at
RETURNING id, record_id, language_code, data, created_at, updated_at
`

type UpsertRecordTranslationParams struct {
	RecordID     int64
	LanguageCode string
	Data         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) UpsertRecordTranslation(ctx context.Context, arg UpsertRecordTranslationParams) (RecordTranslation, error) {
	row := q.db.QueryRowContext(ctx, upsertRecordTranslation,
		arg.RecordID, arg.LanguageCode, arg.Data, arg.CreatedAt, arg.UpdatedAt)
	var i RecordTranslation
	err := row.Scan(&i.ID, &i.RecordID, &i.LanguageCode, &i.Data, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const deleteRecordTranslation = `
DELETE FROM record_translations WHERE record_id = ? AND language_code = ?
`

type DeleteRecordTranslationParams struct {
	RecordID     int64
	LanguageCode string
}

func (q *Queries) DeleteRecordTranslation(ctx context.Context, arg DeleteRecordTranslationParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteRecordTranslation, arg.RecordID, arg.LanguageCode)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countTranslationsByLanguage = `
SELECT t.language_code, COUNT(*) FROM record_translations t
JOIN records r ON r.id = t.record_id
WHERE r.schema_name = ?
GROUP BY t.language_code
`

// CountTranslationsByLanguage returns how many records of a schema are
// translated in each language.
func (q *Queries) CountTranslationsByLanguage(ctx context.Context, schemaName string) (map[string]int64, error) {
	rows, err := q.db.QueryContext(ctx, countTranslationsByLanguage, schemaName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int64)
	for rows.Next() {
		var code string
		var n int64
		if err := rows.Scan(&code, &n); err != nil {
			return nil, err
		}
		counts[code] = n
	}
	return counts, rows.Err()
}
