// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package record defines translatable records: a parent row with its own
// fields plus one translation row per locale.
package record

import (
	"fmt"
	"strings"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
)

// FieldDef describes one editable field.
type FieldDef struct {
	Name      string
	Label     string
	Widget    string
	Required  bool
	MaxLength int
	Default   string
	HelpText  string
}

// DisplayLabel returns the label, or a label derived from the name.
func (f FieldDef) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	s := strings.ReplaceAll(f.Name, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Schema describes a translatable record type.
type Schema struct {
	// Name is the identifier used in URLs and storage.
	Name  string
	Label string

	// Fields are the fields of the parent record.
	Fields []FieldDef
	// TranslatedFields are the fields of the translation rows.
	TranslatedFields []FieldDef

	// TitleField names the field shown in listings. It may be a parent
	// or a translated field.
	TitleField string
}

// Validate checks that the schema is usable.
func (s *Schema) Validate() error {
	if s == nil || s.Name == "" {
		return fmt.Errorf("%w: schema without name", model.ErrConfiguration)
	}
	if len(s.TranslatedFields) == 0 {
		return fmt.Errorf("%w: schema %q has no translated fields", model.ErrConfiguration, s.Name)
	}

	seen := make(map[string]bool)
	for _, f := range append(append([]FieldDef{}, s.Fields...), s.TranslatedFields...) {
		if f.Name == "" {
			return fmt.Errorf("%w: schema %q has a field without name", model.ErrConfiguration, s.Name)
		}
		if f.Name == model.LanguageCodeField {
			return fmt.Errorf("%w: schema %q: %s is reserved", model.ErrConfiguration, s.Name, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: schema %q: duplicate field %q", model.ErrConfiguration, s.Name, f.Name)
		}
		if f.Widget != "" && !model.IsValidWidget(f.Widget) {
			return fmt.Errorf("%w: schema %q: field %q has unknown widget %q", model.ErrConfiguration, s.Name, f.Name, f.Widget)
		}
		seen[f.Name] = true
	}
	return nil
}

// DisplayLabel returns the label, or the name.
func (s *Schema) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// TranslationFieldNames returns the columns of a translation row: the
// locale key followed by the translated fields.
func (s *Schema) TranslationFieldNames() []string {
	names := make([]string, 0, len(s.TranslatedFields)+1)
	names = append(names, model.LanguageCodeField)
	for _, f := range s.TranslatedFields {
		names = append(names, f.Name)
	}
	return names
}

// Field returns the parent field with the given name.
func (s *Schema) Field(name string) (FieldDef, bool) {
	return find(s.Fields, name)
}

// TranslatedField returns the translated field with the given name.
func (s *Schema) TranslatedField(name string) (FieldDef, bool) {
	return find(s.TranslatedFields, name)
}

// IsTranslated reports whether name is a translated field.
func (s *Schema) IsTranslated(name string) bool {
	_, ok := s.TranslatedField(name)
	return ok
}

func find(fields []FieldDef, name string) (FieldDef, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}
