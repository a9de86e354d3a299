// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createRecord = `
INSERT INTO records (schema_name, data, created_at, updated_at)
VALUES (?, ?, ?, ?)
RETURNING id, schema_name, data, created_at, updated_at
`

type CreateRecordParams struct {
	SchemaName string
	Data       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) CreateRecord(ctx context.Context, arg CreateRecordParams) (Record, error) {
	row := q.db.QueryRowContext(ctx, createRecord, arg.SchemaName, arg.Data, arg.CreatedAt, arg.UpdatedAt)
	var i Record
	err := row.Scan(&i.ID, &i.SchemaName, &i.Data, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const updateRecord = `
UPDATE records SET data = ?, updated_at = ?
WHERE id = ? AND schema_name = ?
RETURNING id, schema_name, data, created_at, updated_at
`

type UpdateRecordParams struct {
	Data       string
	UpdatedAt  time.Time
	ID         int64
	SchemaName string
}

func (q *Queries) UpdateRecord(ctx context.Context, arg UpdateRecordParams) (Record, error) {
	row := q.db.QueryRowContext(ctx, updateRecord, arg.Data, arg.UpdatedAt, arg.ID, arg.SchemaName)
	var i Record
	err := row.Scan(&i.ID, &i.SchemaName, &i.Data, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getRecord = `
SELECT id, schema_name, data, created_at, updated_at FROM records
WHERE id = ? AND schema_name = ?
`

type GetRecordParams struct {
	ID         int64
	SchemaName string
}

func (q *Queries) GetRecord(ctx context.Context, arg GetRecordParams) (Record, error) {
	row := q.db.QueryRowContext(ctx, getRecord, arg.ID, arg.SchemaName)
	var i Record
	err := row.Scan(&i.ID, &i.SchemaName, &i.Data, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listRecords = `
SELECT id, schema_name, data, created_at, updated_at FROM records
WHERE schema_name = ?
ORDER BY id DESC
LIMIT ? OFFSET ?
`

type ListRecordsParams struct {
	SchemaName string
	Limit      int64
	Offset     int64
}

func (q *Queries) ListRecords(ctx context.Context, arg ListRecordsParams) ([]Record, error) {
	rows, err := q.db.QueryContext(ctx, listRecords, arg.SchemaName, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Record
	for rows.Next() {
		var i Record
		if err := rows.Scan(&i.ID, &i.SchemaName, &i.Data, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countRecords = `SELECT COUNT(*) FROM records WHERE schema_name = ?`

func (q *Queries) CountRecords(ctx context.Context, schemaName string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countRecords, schemaName).Scan(&count)
	return count, err
}

const deleteRecord = `DELETE FROM records WHERE id = ? AND schema_name = ?`

type DeleteRecordParams struct {
	ID         int64
	SchemaName string
}

func (q *Queries) DeleteRecord(ctx context.Context, arg DeleteRecordParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteRecord, arg.ID, arg.SchemaName)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
