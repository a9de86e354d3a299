// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"context"
	"errors"
	"testing"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/record"
)

func TestBuild(t *testing.T) {
	spec := testSpec(t)

	var names []string
	for _, f := range spec.Fields {
		names = append(names, f.Name)
	}
	want := []string{
		"yummy", "calories",
		"translations_fr_name", "translations_fr_slug", "translations_fr_summary",
		"translations_en_name", "translations_en_slug", "translations_en_summary",
		"translations_es_name", "translations_es_slug", "translations_es_summary",
	}
	if len(names) != len(want) {
		t.Fatalf("fields = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("field %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestBuild_RequiredAndLabels(t *testing.T) {
	spec := testSpec(t)

	tests := []struct {
		name     string
		required bool
		label    string
	}{
		{"translations_fr_name", true, "Name"},
		{"translations_en_name", false, "Name (EN)"},
		{"translations_es_name", false, "Name (ES)"},
		{"translations_fr_slug", false, "Slug"},
	}

	for _, tt := range tests {
		f, ok := spec.Field(tt.name)
		if !ok {
			t.Fatalf("missing field %s", tt.name)
		}
		if f.Required != tt.required {
			t.Errorf("%s required = %v, want %v", tt.name, f.Required, tt.required)
		}
		if f.Label != tt.label {
			t.Errorf("%s label = %q, want %q", tt.name, f.Label, tt.label)
		}
	}

	f, _ := spec.Field("translations_es_summary")
	if f.Widget != model.WidgetRichText || f.Locale != "es" || f.Source != "summary" {
		t.Errorf("unexpected field %+v", f)
	}
}

func TestBuild_Options(t *testing.T) {
	base := &BaseForm{Extra: []record.FieldDef{{Name: "comment"}}}
	spec, err := Build(foodSchema, testRegistry(t), []string{"name", "language_code", "name"}, BuildOptions{
		Base:    base,
		Exclude: []string{"calories"},
		Targets: map[string][]string{"translations_fr_name": {"translations_fr_slug"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var parents []string
	for _, f := range spec.ParentFields() {
		parents = append(parents, f.Name)
	}
	if len(parents) != 2 || parents[0] != "yummy" || parents[1] != "comment" {
		t.Errorf("parent fields = %v", parents)
	}
	if len(spec.Translated) != 1 || len(spec.LocaleFields("en")) != 1 {
		t.Errorf("translated = %v", spec.Translated)
	}
	f, _ := spec.Field("translations_fr_name")
	if len(f.Targets) != 1 {
		t.Errorf("targets = %v", f.Targets)
	}

	spec, err = Build(foodSchema, testRegistry(t), nil, BuildOptions{Fields: []string{"calories"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := spec.ParentFields(); len(got) != 1 || got[0].Name != "calories" {
		t.Errorf("parent fields = %+v", got)
	}
}

func TestBuild_Errors(t *testing.T) {
	reg := testRegistry(t)

	if _, err := Build(&record.Schema{Name: "x"}, reg, nil, BuildOptions{}); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("no translated fields: %v", err)
	}
	if _, err := Build(foodSchema, reg, []string{"nope"}, BuildOptions{}); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("unknown field: %v", err)
	}
	if _, err := Build(foodSchema, nil, nil, BuildOptions{}); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("no registry: %v", err)
	}
}

func TestSpecNew_Initials(t *testing.T) {
	reg := testRegistry(t)
	spec := testSpec(t)
	store := newMemStore()
	store.records[1] = record.Values{"yummy": "true", "calories": "52"}
	store.translations[1] = map[string]record.Values{
		"fr": {"name": "Pomme", "slug": "pomme"},
		"en": {"name": "Apple"},
	}

	f, err := spec.New(context.Background(), store.load(t, reg, 1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := map[string]string{
		"yummy":                "true",
		"calories":             "52",
		"translations_fr_name": "Pomme",
		"translations_fr_slug": "pomme",
		"translations_en_name": "Apple",
		"translations_es_name": "",
	}
	for name, want := range tests {
		if got := f.Value(name); got != want {
			t.Errorf("Value(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestSpecNew_Unsaved(t *testing.T) {
	f, err := testSpec(t).New(context.Background(), record.New(foodSchema))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f.IsBound() || f.IsValid() {
		t.Error("new form should be unbound and invalid")
	}
}
