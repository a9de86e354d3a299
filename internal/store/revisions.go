// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
)

// SaveRevision stores a snapshot of a record and returns its id.
func (s *Store) SaveRevision(ctx context.Context, schemaName string, recordID int64, data []byte) (string, error) {
	id := uuid.NewString()
	err := s.queries.CreateRevision(ctx, CreateRevisionParams{
		ID:         id,
		RecordID:   recordID,
		SchemaName: schemaName,
		Data:       string(data),
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("saving revision of %s %d: %w", schemaName, recordID, err)
	}
	return id, nil
}

// Revisions returns the newest revisions of a record.
func (s *Store) Revisions(ctx context.Context, recordID int64, limit int64) ([]RecordRevision, error) {
	return s.queries.ListRevisions(ctx, ListRevisionsParams{RecordID: recordID, Limit: limit})
}

// Revision returns one revision of a record.
func (s *Store) Revision(ctx context.Context, recordID int64, id string) (RecordRevision, error) {
	rev, err := s.queries.GetRevision(ctx, GetRevisionParams{ID: id, RecordID: recordID})
	if errors.Is(err, sql.ErrNoRows) {
		return rev, fmt.Errorf("%w: revision %s", model.ErrNotFound, id)
	}
	return rev, err
}

// PruneRevisions keeps the newest keep revisions of every record and
// returns the number of removed rows.
func (s *Store) PruneRevisions(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}
	return s.queries.PruneRevisions(ctx, int64(keep))
}
