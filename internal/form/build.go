// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form builds the composite edit form of a translatable record and
// commits its submissions: the parent fields plus one copy of every
// translated field per locale, named translations_<code>_<field>.
package form

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/olegiv/ocms-i18ntabs/internal/locale"
	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/record"
)

// Field is one field of a form spec.
type Field struct {
	Name      string
	Label     string
	Widget    string
	HelpText  string
	Required  bool
	MaxLength int

	// Locale and Source are set on translated fields: the locale code and
	// the name of the field in the translation row.
	Locale string
	Source string

	// Targets are filled with a slug of this field when left empty.
	Targets []string
}

// IsTranslated reports whether the field belongs to a translation.
func (f Field) IsTranslated() bool {
	return f.Locale != ""
}

// BaseForm adds behaviour to the generated form.
type BaseForm struct {
	// Extra fields not stored on the record.
	Extra []record.FieldDef
	// Clean runs after field validation and may add errors.
	Clean func(f *Form)
}

// BuildOptions restricts the parent fields of a form.
type BuildOptions struct {
	Base *BaseForm
	// Fields lists the parent fields to include. Empty means all.
	Fields []string
	// Exclude lists parent fields to leave out.
	Exclude []string
	// Targets maps a form field name to the fields auto-populated from it.
	Targets map[string][]string
}

// Spec describes a composite form. It is immutable and can be shared.
type Spec struct {
	Schema *record.Schema
	Fields []Field

	// Translated lists the translated fields present for every locale.
	Translated []string

	registry *locale.Registry
	base     *BaseForm
	index    map[string]int
}

// Build assembles the form spec of a schema. displayed lists the translated
// fields shown by the edit handler; empty means every translated field.
func Build(schema *record.Schema, registry *locale.Registry, displayed []string, opts BuildOptions) (*Spec, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: no locale registry", model.ErrConfiguration)
	}

	if len(displayed) == 0 {
		for _, f := range schema.TranslatedFields {
			displayed = append(displayed, f.Name)
		}
	}

	s := &Spec{
		Schema:   schema,
		registry: registry,
		base:     opts.Base,
		index:    make(map[string]int),
	}

	for _, def := range schema.Fields {
		if len(opts.Fields) > 0 && !slices.Contains(opts.Fields, def.Name) {
			continue
		}
		if slices.Contains(opts.Exclude, def.Name) {
			continue
		}
		s.add(fieldFromDef(def, opts.Targets))
	}
	if opts.Base != nil {
		for _, def := range opts.Base.Extra {
			s.add(fieldFromDef(def, opts.Targets))
		}
	}

	for _, name := range displayed {
		if name == model.LanguageCodeField {
			continue
		}
		if _, ok := schema.TranslatedField(name); !ok {
			return nil, fmt.Errorf("%w: %q is not a translated field of %s", model.ErrConfiguration, name, schema.Name)
		}
		if !slices.Contains(s.Translated, name) {
			s.Translated = append(s.Translated, name)
		}
	}

	for _, code := range registry.Codes() {
		isDefault := registry.IsDefault(code)
		for _, name := range s.Translated {
			def, _ := schema.TranslatedField(name)
			f := fieldFromDef(def, nil)
			f.Name = model.LocalizedFieldName(code, name)
			f.Locale = code
			f.Source = name
			f.Targets = opts.Targets[f.Name]
			if !isDefault {
				f.Required = false
				f.Label += " (" + strings.ToUpper(code) + ")"
			}
			s.add(f)
		}
	}

	return s, nil
}

func fieldFromDef(def record.FieldDef, targets map[string][]string) Field {
	widget := def.Widget
	if widget == "" {
		widget = model.WidgetText
	}
	return Field{
		Name:      def.Name,
		Label:     def.DisplayLabel(),
		Widget:    widget,
		HelpText:  def.HelpText,
		Required:  def.Required,
		MaxLength: def.MaxLength,
		Targets:   targets[def.Name],
	}
}

func (s *Spec) add(f Field) {
	s.index[f.Name] = len(s.Fields)
	s.Fields = append(s.Fields, f)
}

// Field returns the field with the given name.
func (s *Spec) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// ParentFields returns the fields that are not translated.
func (s *Spec) ParentFields() []Field {
	var out []Field
	for _, f := range s.Fields {
		if !f.IsTranslated() {
			out = append(out, f)
		}
	}
	return out
}

// LocaleFields returns the fields of one locale.
func (s *Spec) LocaleFields(code string) []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Locale == code {
			out = append(out, f)
		}
	}
	return out
}

// Registry returns the locale registry of the form.
func (s *Spec) Registry() *locale.Registry {
	return s.registry
}

// New creates an unbound form for rec. Initial values come from the record
// and its translations.
func (s *Spec) New(ctx context.Context, rec *record.Record) (*Form, error) {
	f := &Form{
		spec:     s,
		Instance: rec,
		Initial:  make(map[string]string),
		Errors:   make(map[string]string),
	}

	for _, field := range s.ParentFields() {
		if v, ok := rec.Values[field.Name]; ok {
			f.Initial[field.Name] = v
		}
	}

	if !rec.IsPersisted() {
		return f, nil
	}

	translations, err := rec.Translations(ctx)
	if err != nil {
		return nil, err
	}
	for code, t := range translations {
		for _, name := range s.Translated {
			if v, ok := t.Values[name]; ok {
				f.Initial[model.LocalizedFieldName(code, name)] = v
			}
		}
	}
	return f, nil
}
