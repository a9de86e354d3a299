// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package panel

import (
	"errors"
	"fmt"
	"slices"

	"github.com/olegiv/ocms-i18ntabs/internal/heading"
	"github.com/olegiv/ocms-i18ntabs/internal/locale"
	"github.com/olegiv/ocms-i18ntabs/internal/model"
)

// ErrNoTranslatedFields is returned when a model exposes no translated field.
var ErrNoTranslatedFields = fmt.Errorf("%w: no translated fields", model.ErrTranslationMissing)

// FieldSet is an ordered set of field names.
type FieldSet struct {
	names []string
	seen  map[string]struct{}
}

// Add appends name unless already present.
func (s *FieldSet) Add(name string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[name]; ok {
		return
	}
	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
}

// Has reports whether name is in the set.
func (s FieldSet) Has(name string) bool {
	_, ok := s.seen[name]
	return ok
}

// Names returns the names in insertion order.
func (s FieldSet) Names() []string {
	return slices.Clone(s.names)
}

// Len returns the number of names.
func (s FieldSet) Len() int {
	return len(s.names)
}

// Options are the collaborators of Remap.
type Options struct {
	Registry  *locale.Registry
	Formatter *heading.Formatter

	// Status returns the heading category of a locale. Nil means every
	// locale is being created.
	Status func(code string) heading.Category
}

// Result holds the locale panels and the translated fields they display.
type Result struct {
	Panels    []*Node
	Displayed FieldSet
}

// Remap builds one panel per configured locale from a translations template.
//
// Field panels bound to a translated field are renamed to
// translations_<code>_<field>. Targets naming a translated field are renamed
// the same way; other targets are kept on the first locale only.
func Remap(tpl *Node, fields []string, opts Options) (Result, error) {
	var res Result

	if len(fields) == 0 {
		return res, ErrNoTranslatedFields
	}
	if opts.Registry == nil || opts.Formatter == nil {
		return res, errors.New("remap: registry and formatter are required")
	}

	translated := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		translated[f] = struct{}{}
	}

	tpl = synthesize(tpl, fields)
	if err := tpl.Validate(); err != nil {
		return res, err
	}

	usedTargets := make(map[string]struct{})

	for _, lang := range opts.Registry.Languages() {
		code := lang.Code

		p := Transform(tpl, func(n *Node) *Node {
			if !n.IsLeaf() {
				return n
			}
			if _, ok := translated[n.FieldName]; !ok {
				return n
			}
			res.Displayed.Add(n.FieldName)
			n.FieldName = model.LocalizedFieldName(code, n.FieldName)
			n.Targets = remapTargets(n.Targets, code, translated, usedTargets)
			return n
		})

		cat := heading.Creating
		if opts.Status != nil {
			cat = opts.Status(code)
		}

		p.Kind = KindContainer
		p.CurrentLocale = code
		p.InitialHeading = tpl.Heading
		p.Heading = opts.Formatter.Format(cat, lang, opts.Registry.LabelFor(code), tpl.Heading)

		res.Panels = append(res.Panels, p)
	}

	return res, nil
}

// synthesize returns tpl, or a translations panel with one field per
// translated field when tpl has no children.
func synthesize(tpl *Node, fields []string) *Node {
	if tpl != nil && len(tpl.Children) > 0 {
		return tpl
	}

	out := Translations("")
	if tpl != nil {
		out.Heading = tpl.Heading
	}
	for _, f := range fields {
		if f == model.LanguageCodeField {
			continue
		}
		out.Children = append(out.Children, Field(f))
	}
	return out
}

func remapTargets(targets []string, code string, translated, used map[string]struct{}) []string {
	if len(targets) == 0 {
		return nil
	}

	out := make([]string, 0, len(targets))
	for _, t := range targets {
		if _, ok := translated[t]; ok {
			out = append(out, model.LocalizedFieldName(code, t))
			continue
		}
		if _, dup := used[t]; dup {
			continue
		}
		used[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
