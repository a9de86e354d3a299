// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"context"
	"errors"
	"maps"
	"net/url"
	"testing"

	"github.com/olegiv/ocms-i18ntabs/internal/locale"
	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/record"
)

var foodSchema = &record.Schema{
	Name: "food",
	Fields: []record.FieldDef{
		{Name: "yummy", Widget: model.WidgetCheckbox},
		{Name: "calories", Widget: model.WidgetNumber},
	},
	TranslatedFields: []record.FieldDef{
		{Name: "name", Required: true, MaxLength: 20},
		{Name: "slug", Widget: model.WidgetSlug},
		{Name: "summary", Widget: model.WidgetRichText},
	},
	TitleField: "name",
}

func testRegistry(t *testing.T) *locale.Registry {
	t.Helper()
	return locale.MustNew(locale.Settings{Languages: []model.Language{
		{Code: "fr", Label: "French"},
		{Code: "en", Label: "English"},
		{Code: "es", Label: "Spanish"},
	}})
}

func testSpec(t *testing.T) *Spec {
	t.Helper()
	spec, err := Build(foodSchema, testRegistry(t), nil, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return spec
}

// memStore is an in-memory Transactor. Writes are staged and only applied
// when the transaction function succeeds.
type memStore struct {
	nextID       int64
	records      map[int64]record.Values
	translations map[int64]map[string]record.Values

	failOn string
	writes int
}

func newMemStore() *memStore {
	return &memStore{
		records:      make(map[int64]record.Values),
		translations: make(map[int64]map[string]record.Values),
	}
}

func (s *memStore) InTx(ctx context.Context, fn func(w record.Writer) error) error {
	tx := &memTx{
		s:            s,
		nextID:       s.nextID,
		records:      maps.Clone(s.records),
		translations: make(map[int64]map[string]record.Values),
	}
	for id, m := range s.translations {
		tx.translations[id] = maps.Clone(m)
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.nextID = tx.nextID
	s.records = tx.records
	s.translations = tx.translations
	return nil
}

func (s *memStore) loader(id int64) record.Loader {
	return func(context.Context) (map[string]*record.Translation, error) {
		out := make(map[string]*record.Translation)
		for code, v := range s.translations[id] {
			out[code] = &record.Translation{ID: 1, LanguageCode: code, Values: v.Clone()}
		}
		return out, nil
	}
}

func (s *memStore) load(t *testing.T, reg *locale.Registry, id int64) *record.Record {
	t.Helper()
	vals, ok := s.records[id]
	if !ok {
		t.Fatalf("record %d not found", id)
	}
	return record.Existing(foodSchema, id, vals,
		record.WithLoader(s.loader(id)),
		record.WithFallbacks(reg.Fallbacks),
		record.WithLanguage(reg.Default()))
}

type memTx struct {
	s            *memStore
	nextID       int64
	records      map[int64]record.Values
	translations map[int64]map[string]record.Values
}

var errWrite = errors.New("write failed")

func (tx *memTx) fail(op string) error {
	tx.s.writes++
	if tx.s.failOn == op {
		return errWrite
	}
	return nil
}

func (tx *memTx) SaveRecord(_ context.Context, rec *record.Record) error {
	if err := tx.fail("record"); err != nil {
		return err
	}
	if rec.ID == 0 {
		tx.nextID++
		rec.ID = tx.nextID
	}
	tx.records[rec.ID] = rec.Values.Clone()
	return nil
}

func (tx *memTx) SaveTranslation(_ context.Context, rec *record.Record, t *record.Translation) error {
	if err := tx.fail("save:" + t.LanguageCode); err != nil {
		return err
	}
	if tx.translations[rec.ID] == nil {
		tx.translations[rec.ID] = make(map[string]record.Values)
	}
	tx.translations[rec.ID][t.LanguageCode] = t.Values.Clone()
	if t.ID == 0 {
		t.ID = 1
	}
	return nil
}

func (tx *memTx) DeleteTranslation(_ context.Context, rec *record.Record, code string) (int64, error) {
	if err := tx.fail("delete:" + code); err != nil {
		return 0, err
	}
	if _, ok := tx.translations[rec.ID][code]; !ok {
		return 0, nil
	}
	delete(tx.translations[rec.ID], code)
	return 1, nil
}

func values(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}
