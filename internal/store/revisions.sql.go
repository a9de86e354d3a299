// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createRevision = `
INSERT INTO record_revisions (id, record_id, schema_name, data, created_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateRevisionParams struct {
	ID         string
	RecordID   int64
	SchemaName string
	Data       string
	CreatedAt  time.Time
}

func (q *Queries) CreateRevision(ctx context.Context, arg CreateRevisionParams) error {
	_, err := q.db.ExecContext(ctx, createRevision, arg.ID, arg.RecordID, arg.SchemaName, arg.Data, arg.CreatedAt)
	return err
}

const getRevision = `
SELECT id, record_id, schema_name, data, created_at FROM record_revisions
WHERE id = ? AND record_id = ?
`

type GetRevisionParams struct {
	ID       string
	RecordID int64
}

func (q *Queries) GetRevision(ctx context.Context, arg GetRevisionParams) (RecordRevision, error) {
	row := q.db.QueryRowContext(ctx, getRevision, arg.ID, arg.RecordID)
	var i RecordRevision
	err := row.Scan(&i.ID, &i.RecordID, &i.SchemaName, &i.Data, &i.CreatedAt)
	return i, err
}

const listRevisions = `
SELECT id, record_id, schema_name, data, created_at FROM record_revisions
WHERE record_id = ?
ORDER BY created_at DESC, rowid DESC
LIMIT ?
`

type ListRevisionsParams struct {
	RecordID int64
	Limit    int64
}

func (q *Queries) ListRevisions(ctx context.Context, arg ListRevisionsParams) ([]RecordRevision, error) {
	rows, err := q.db.QueryContext(ctx, listRevisions, arg.RecordID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []RecordRevision
	for rows.Next() {
		var i RecordRevision
		if err := rows.Scan(&i.ID, &i.RecordID, &i.SchemaName, &i.Data, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const pruneRevisions = `
DELETE FROM record_revisions
WHERE rowid IN (
    SELECT rowid FROM (
        SELECT rowid, ROW_NUMBER() OVER (
            PARTITION BY record_id ORDER BY created_at DESC, rowid DESC
        ) AS n
        FROM record_revisions
    ) WHERE n > ?
)
`

// PruneRevisions keeps the newest keep revisions of every record.
func (q *Queries) PruneRevisions(ctx context.Context, keep int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, pruneRevisions, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
