// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/record"
)

func bind(t *testing.T, spec *Spec, data map[string]string) *Form {
	t.Helper()
	f, err := spec.New(context.Background(), record.New(spec.Schema))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v := values()
	for k, val := range data {
		v.Set(k, val)
	}
	f.Bind(v)
	return f
}

func TestIsValid_DefaultLocaleRequired(t *testing.T) {
	spec := testSpec(t)

	f := bind(t, spec, map[string]string{"translations_en_name": "Apple"})
	if f.IsValid() {
		t.Fatal("form without default locale name should be invalid")
	}
	if _, ok := f.Errors["translations_fr_name"]; !ok {
		t.Errorf("errors = %v", f.Errors)
	}
	if got := f.LocaleErrors(); !slices.Equal(got, []string{"fr"}) {
		t.Errorf("LocaleErrors() = %v", got)
	}

	f = bind(t, spec, map[string]string{"translations_fr_name": "Pomme"})
	if !f.IsValid() {
		t.Fatalf("errors = %v", f.Errors)
	}
	if !f.CleanedByLocale["en"].IsEmpty() || !f.CleanedByLocale["es"].IsEmpty() {
		t.Errorf("CleanedByLocale = %v", f.CleanedByLocale)
	}
}

func TestCleanField(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		raw     string
		want    string
		wantErr bool
	}{
		{"trim", Field{Widget: model.WidgetText}, "  a  ", "a", false},
		{"required", Field{Label: "Name", Widget: model.WidgetText, Required: true}, " ", "", true},
		{"max length runes", Field{Widget: model.WidgetText, MaxLength: 3}, "été", "été", false},
		{"too long", Field{Widget: model.WidgetText, MaxLength: 3}, "abcd", "", true},
		{"email", Field{Widget: model.WidgetEmail}, "chef@example.com", "chef@example.com", false},
		{"bad email", Field{Widget: model.WidgetEmail}, "chef", "", true},
		{"number", Field{Widget: model.WidgetNumber}, "052.50", "52.5", false},
		{"bad number", Field{Widget: model.WidgetNumber}, "lots", "", true},
		{"date", Field{Widget: model.WidgetDate}, "2026-02-28", "2026-02-28", false},
		{"bad date", Field{Widget: model.WidgetDate}, "2026-02-30", "", true},
		{"slug", Field{Widget: model.WidgetSlug}, "green-apple", "green-apple", false},
		{"bad slug", Field{Widget: model.WidgetSlug}, "Green Apple", "", true},
		{"checkbox on", Field{Widget: model.WidgetCheckbox}, "on", "true", false},
		{"checkbox off", Field{Widget: model.WidgetCheckbox}, "", "", false},
		{"checkbox required", Field{Widget: model.WidgetCheckbox, Required: true}, "no", "", true},
		{"rich text", Field{Widget: model.WidgetRichText}, `<p>Hi<script>alert(1)</script></p>`, "<p>Hi</p>", false},
		{"rich text only script", Field{Widget: model.WidgetRichText, Required: true}, `<script>x</script>`, "", true},
		{"markdown keeps spacing", Field{Widget: model.WidgetMarkdown}, "# T\n\n", "# T\n\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := cleanField(tt.field, tt.raw)
			if (msg != "") != tt.wantErr {
				t.Fatalf("cleanField() msg = %q, wantErr %v", msg, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("cleanField() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPopulateTargets(t *testing.T) {
	spec, err := Build(foodSchema, testRegistry(t), nil, BuildOptions{
		Targets: map[string][]string{
			"translations_fr_name": {"translations_fr_slug"},
			"translations_en_name": {"translations_en_slug", "missing"},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	f := bind(t, spec, map[string]string{
		"translations_fr_name": "Crème brûlée",
		"translations_en_name": "Custard",
		"translations_en_slug": "my-custard",
	})
	if !f.IsValid() {
		t.Fatalf("errors = %v", f.Errors)
	}
	if got := f.CleanedByLocale["fr"]["slug"]; got != "creme-brulee" {
		t.Errorf("fr slug = %q", got)
	}
	if got := f.CleanedByLocale["en"]["slug"]; got != "my-custard" {
		t.Errorf("en slug = %q", got)
	}
}

func TestBaseFormClean(t *testing.T) {
	spec, err := Build(foodSchema, testRegistry(t), nil, BuildOptions{Base: &BaseForm{
		Clean: func(f *Form) {
			if strings.EqualFold(f.Cleaned["translations_fr_name"], "forbidden") {
				f.AddError("translations_fr_name", "This name is not allowed")
			}
		},
	}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	f := bind(t, spec, map[string]string{"translations_fr_name": "Forbidden"})
	if f.IsValid() {
		t.Fatal("expected invalid form")
	}
	if f.Errors["translations_fr_name"] != "This name is not allowed" {
		t.Errorf("errors = %v", f.Errors)
	}
}

func TestBind_ActivePreviewLocale(t *testing.T) {
	f := bind(t, testSpec(t), map[string]string{model.ActivePreviewLocaleField: "es"})
	if f.ActivePreviewLocale != "es" {
		t.Errorf("ActivePreviewLocale = %q", f.ActivePreviewLocale)
	}
}
