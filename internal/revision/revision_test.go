// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package revision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-i18ntabs/internal/record"
)

var schema = &record.Schema{
	Name:             "food",
	Fields:           []record.FieldDef{{Name: "yummy"}},
	TranslatedFields: []record.FieldDef{{Name: "name"}},
	TitleField:       "name",
}

func fallbacks(code string) []string {
	if code == "fr" {
		return nil
	}
	return []string{"fr"}
}

func existing(t *testing.T) *record.Record {
	t.Helper()
	return record.Existing(schema, 7, record.Values{"yummy": "true"},
		record.WithFallbacks(fallbacks),
		record.WithLoader(func(context.Context) (map[string]*record.Translation, error) {
			return map[string]*record.Translation{
				"fr": {LanguageCode: "fr", Values: record.Values{"name": "Pomme"}},
				"en": {LanguageCode: "en", Values: record.Values{"name": "Apple"}},
			}, nil
		}))
}

func TestEncodeDecode(t *testing.T) {
	ctx := context.Background()

	data, err := Encode(ctx, existing(t))
	require.NoError(t, err)

	snap, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, int64(7), snap.ID)
	assert.Equal(t, "true", snap.Values["yummy"])
	assert.Equal(t, "Apple", snap.Translations["en"]["name"])
	assert.Len(t, snap.Translations, 2)
}

func TestTake_SkipsUnsaved(t *testing.T) {
	ctx := context.Background()
	rec := existing(t)
	_, err := rec.SetTranslatedFields(ctx, "es", record.Values{"name": "Manzana"})
	require.NoError(t, err)

	snap, err := Take(ctx, rec)
	require.NoError(t, err)
	assert.NotContains(t, snap.Translations, "es")
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("{"))
	assert.Error(t, err)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	snap := &Snapshot{
		ID:     7,
		Values: record.Values{"yummy": "true"},
		Translations: map[string]record.Values{
			"fr": {"name": "Pomme"},
			"en": {"name": " "},
		},
	}

	rec, err := Restore(ctx, schema, snap, []string{"fr", "en", "es"}, fallbacks)
	require.NoError(t, err)

	assert.Equal(t, int64(7), rec.ID)
	assert.Equal(t, "fr", rec.CurrentLanguage())

	for _, code := range []string{"en", "es"} {
		has, err := rec.HasTranslation(ctx, code)
		require.NoError(t, err)
		assert.False(t, has, code)

		rec.SetCurrentLanguage(code)
		assert.Equal(t, "Pomme", rec.Title(ctx), code)
	}

	has, err := rec.HasTranslation(ctx, "fr")
	require.NoError(t, err)
	assert.True(t, has)
}
