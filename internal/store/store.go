// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/ocms-i18ntabs/internal/cache"
	"github.com/olegiv/ocms-i18ntabs/internal/locale"
	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/record"
)

// Store loads and saves translatable records.
type Store struct {
	db       *sql.DB
	queries  *Queries
	registry *locale.Registry
	cache    *cache.TranslationCache
	logger   *slog.Logger
}

// NewStore creates a store. tc may be nil to disable translation caching.
func NewStore(db *sql.DB, registry *locale.Registry, tc *cache.TranslationCache, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:       db,
		queries:  New(db),
		registry: registry,
		cache:    tc,
		logger:   logger,
	}
}

// Queries returns the queries running on the store database.
func (s *Store) Queries() *Queries {
	return s.queries
}

// LoadOptions controls how a record is loaded.
type LoadOptions struct {
	// BypassCache reads translations from the database only and never
	// stores them in the shared cache. Used by previews.
	BypassCache bool
	// Prefetch loads translations immediately instead of on first use.
	Prefetch bool
	// Language is the initial current language. Defaults to the default locale.
	Language string
}

// NewRecord returns an unsaved record of schema.
func (s *Store) NewRecord(schema *record.Schema) *record.Record {
	return record.New(schema,
		record.WithFallbacks(s.registry.Fallbacks),
		record.WithLanguage(s.registry.Default()))
}

// Load returns a record by id.
func (s *Store) Load(ctx context.Context, schema *record.Schema, id int64, opts LoadOptions) (*record.Record, error) {
	row, err := s.queries.GetRecord(ctx, GetRecordParams{ID: id, SchemaName: schema.Name})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %d", model.ErrNotFound, schema.Name, id)
		}
		return nil, fmt.Errorf("loading %s %d: %w", schema.Name, id, err)
	}
	return s.toRecord(ctx, schema, row, opts)
}

func (s *Store) toRecord(ctx context.Context, schema *record.Schema, row Record, opts LoadOptions) (*record.Record, error) {
	values, err := decodeValues(row.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s %d: %w", schema.Name, row.ID, err)
	}

	lang := opts.Language
	if !s.registry.Contains(lang) {
		lang = s.registry.Default()
	}

	rec := record.Existing(schema, row.ID, values,
		record.WithLoader(s.loader(schema.Name, row.ID, opts.BypassCache)),
		record.WithFallbacks(s.registry.Fallbacks),
		record.WithLanguage(lang))
	rec.CreatedAt = row.CreatedAt
	rec.UpdatedAt = row.UpdatedAt

	if opts.Prefetch {
		if _, err := rec.AvailableLanguages(ctx, false); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// loader returns the translation loader of a record.
func (s *Store) loader(schema string, id int64, bypass bool) record.Loader {
	return func(ctx context.Context) (map[string]*record.Translation, error) {
		load := func() (cache.TranslationSet, error) {
			rows, err := s.queries.ListRecordTranslations(ctx, id)
			if err != nil {
				return nil, err
			}
			set := make(cache.TranslationSet, len(rows))
			for _, r := range rows {
				values, err := decodeValues(r.Data)
				if err != nil {
					return nil, fmt.Errorf("decoding %s translation of %s %d: %w", r.LanguageCode, schema, id, err)
				}
				set[r.LanguageCode] = values
			}
			return set, nil
		}

		var set cache.TranslationSet
		var err error
		if s.cache != nil {
			set, err = s.cache.Get(ctx, schema, id, bypass, load)
		} else {
			set, err = load()
		}
		if err != nil {
			return nil, err
		}

		// Cached sets are shared between requests; records get their own copy.
		out := make(map[string]*record.Translation, len(set))
		for code, values := range set {
			out[code] = &record.Translation{LanguageCode: code, Values: record.Values(values).Clone()}
		}
		return out, nil
	}
}

// List returns a page of records of a schema, newest first, and the total count.
func (s *Store) List(ctx context.Context, schema *record.Schema, limit, offset int64) ([]*record.Record, int64, error) {
	total, err := s.queries.CountRecords(ctx, schema.Name)
	if err != nil {
		return nil, 0, fmt.Errorf("counting %s: %w", schema.Name, err)
	}

	rows, err := s.queries.ListRecords(ctx, ListRecordsParams{SchemaName: schema.Name, Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, fmt.Errorf("listing %s: %w", schema.Name, err)
	}

	recs := make([]*record.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := s.toRecord(ctx, schema, row, LoadOptions{})
		if err != nil {
			return nil, 0, err
		}
		recs = append(recs, rec)
	}
	return recs, total, nil
}

// Delete removes a record with its translations and revisions.
func (s *Store) Delete(ctx context.Context, schema *record.Schema, id int64) error {
	n, err := s.queries.DeleteRecord(ctx, DeleteRecordParams{ID: id, SchemaName: schema.Name})
	if err != nil {
		return fmt.Errorf("deleting %s %d: %w", schema.Name, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", model.ErrNotFound, schema.Name, id)
	}
	s.invalidate(ctx, schema.Name, id)
	return nil
}

// InTx runs fn in one transaction. Any error rolls the transaction back;
// cached translations of the written records are dropped after commit.
func (s *Store) InTx(ctx context.Context, fn func(w record.Writer) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	w := &txWriter{queries: s.queries.WithTx(tx), touched: make(map[touchedKey]struct{})}

	if err := fn(w); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w: rollback: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	for k := range w.touched {
		s.invalidate(ctx, k.schema, k.id)
	}
	return nil
}

func (s *Store) invalidate(ctx context.Context, schema string, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, schema, id); err != nil {
		s.logger.Warn("failed to invalidate translation cache",
			"error", err, "schema", schema, "id", id, "category", model.EventCategoryCache)
	}
}

// TranslationCounts returns the number of records of a schema translated
// in each language.
func (s *Store) TranslationCounts(ctx context.Context, schema *record.Schema) (map[string]int64, error) {
	return s.queries.CountTranslationsByLanguage(ctx, schema.Name)
}

type touchedKey struct {
	schema string
	id     int64
}

// txWriter writes records inside a transaction.
type txWriter struct {
	queries *Queries
	touched map[touchedKey]struct{}
}

func (w *txWriter) touch(rec *record.Record) {
	w.touched[touchedKey{rec.Schema.Name, rec.ID}] = struct{}{}
}

// SaveRecord inserts or updates the parent row. Inserts set rec.ID.
func (w *txWriter) SaveRecord(ctx context.Context, rec *record.Record) error {
	data, err := json.Marshal(rec.Values)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	var row Record
	if rec.ID == 0 {
		row, err = w.queries.CreateRecord(ctx, CreateRecordParams{
			SchemaName: rec.Schema.Name,
			Data:       string(data),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	} else {
		row, err = w.queries.UpdateRecord(ctx, UpdateRecordParams{
			Data:       string(data),
			UpdatedAt:  now,
			ID:         rec.ID,
			SchemaName: rec.Schema.Name,
		})
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s %d", model.ErrNotFound, rec.Schema.Name, rec.ID)
		}
	}
	if err != nil {
		return err
	}

	rec.ID = row.ID
	rec.CreatedAt = row.CreatedAt
	rec.UpdatedAt = row.UpdatedAt
	w.touch(rec)
	return nil
}

// SaveTranslation inserts or updates the translation row of t.LanguageCode.
func (w *txWriter) SaveTranslation(ctx context.Context, rec *record.Record, t *record.Translation) error {
	data, err := json.Marshal(t.Values)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	row, err := w.queries.UpsertRecordTranslation(ctx, UpsertRecordTranslationParams{
		RecordID:     rec.ID,
		LanguageCode: t.LanguageCode,
		Data:         string(data),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}
	t.ID = row.ID
	w.touch(rec)
	return nil
}

// DeleteTranslation removes the translation row of a locale and returns
// the number of rows removed.
func (w *txWriter) DeleteTranslation(ctx context.Context, rec *record.Record, code string) (int64, error) {
	n, err := w.queries.DeleteRecordTranslation(ctx, DeleteRecordTranslationParams{
		RecordID:     rec.ID,
		LanguageCode: code,
	})
	if err != nil {
		return 0, err
	}
	w.touch(rec)
	return n, nil
}

func decodeValues(data string) (record.Values, error) {
	values := record.Values{}
	if data == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	return values, nil
}

var (
	_ record.Transactor = (*Store)(nil)
	_ record.Writer     = (*txWriter)(nil)
)
