// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package admin assembles translation-aware edit handlers for record
// schemas and serves the admin create, edit and preview pages.
package admin

import (
	"context"
	"fmt"
	"slices"

	"github.com/olegiv/ocms-i18ntabs/internal/form"
	"github.com/olegiv/ocms-i18ntabs/internal/heading"
	"github.com/olegiv/ocms-i18ntabs/internal/locale"
	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/panel"
	"github.com/olegiv/ocms-i18ntabs/internal/record"
)

// UntranslatedHeading is the tab holding the parent fields when the edit
// handler has no translations panel of its own.
const UntranslatedHeading = "Untranslated data"

// ModelAdmin configures the admin of one schema.
type ModelAdmin struct {
	Schema *record.Schema

	// EditHandler is the panel layout. A KindTranslations node anywhere in
	// it is replaced by the locale tabs. Nil shows every parent field in an
	// "Untranslated data" tab followed by one tab per locale.
	EditHandler *panel.Node

	BaseForm *form.BaseForm
	// Fields restricts the parent fields of the form. Empty means all.
	Fields  []string
	Exclude []string

	// ListPerPage is the page size of the list view. Defaults to 25.
	ListPerPage int
}

// Validate checks the schema and the panel layout.
func (m *ModelAdmin) Validate() error {
	if m.Schema == nil {
		return fmt.Errorf("%w: model admin without schema", model.ErrConfiguration)
	}
	if err := m.Schema.Validate(); err != nil {
		return err
	}
	if m.EditHandler != nil {
		if err := m.EditHandler.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EditHandler is the panel tree and form spec of one request.
type EditHandler struct {
	Tabs []*panel.Node
	Form *form.Spec
	// Displayed lists the translated fields shown in the locale tabs.
	Displayed []string
}

// BuildEditHandler returns the edit handler for instance. Tab headings
// reflect which locales instance is translated in; a nil or unsaved
// instance gets the "creating" headings.
func (m *ModelAdmin) BuildEditHandler(ctx context.Context, reg *locale.Registry, f *heading.Formatter, instance *record.Record) (*EditHandler, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	status, err := statuses(ctx, reg, instance)
	if err != nil {
		return nil, err
	}

	var tpl *panel.Node
	if m.EditHandler != nil {
		tpl = m.EditHandler.Find(panel.KindTranslations)
	}

	res, err := panel.Remap(tpl, m.Schema.TranslationFieldNames(), panel.Options{
		Registry:  reg,
		Formatter: f,
		Status:    func(code string) heading.Category { return status[code] },
	})
	if err != nil {
		return nil, err
	}

	eh := &EditHandler{
		Tabs:      m.tabs(tpl, res.Panels),
		Displayed: res.Displayed.Names(),
	}

	targets := make(map[string][]string)
	for _, tab := range eh.Tabs {
		for _, leaf := range tab.Leaves() {
			if len(leaf.Targets) > 0 {
				targets[leaf.FieldName] = leaf.Targets
			}
		}
	}

	eh.Form, err = form.Build(m.Schema, reg, eh.Displayed, form.BuildOptions{
		Base:    m.BaseForm,
		Fields:  m.Fields,
		Exclude: m.excluded(eh.Tabs),
		Targets: targets,
	})
	if err != nil {
		return nil, err
	}
	return eh, nil
}

// excluded returns the parent fields left out of the form. With a custom
// layout, parent fields it does not place are left out too, so saving
// keeps their stored values.
func (m *ModelAdmin) excluded(tabs []*panel.Node) []string {
	if m.EditHandler == nil {
		return m.Exclude
	}

	shown := make(map[string]struct{})
	for _, tab := range tabs {
		for _, name := range tab.FieldNames() {
			shown[name] = struct{}{}
		}
	}

	out := slices.Clone(m.Exclude)
	for _, def := range m.Schema.Fields {
		if _, ok := shown[def.Name]; !ok && !slices.Contains(out, def.Name) {
			out = append(out, def.Name)
		}
	}
	return out
}

// statuses returns the heading category of every locale for instance.
func statuses(ctx context.Context, reg *locale.Registry, instance *record.Record) (map[string]heading.Category, error) {
	out := make(map[string]heading.Category, len(reg.Codes()))
	persisted := instance != nil && instance.IsPersisted()
	for _, code := range reg.Codes() {
		has := false
		if persisted {
			var err error
			if has, err = instance.HasTranslation(ctx, code); err != nil {
				return nil, err
			}
		}
		out[code] = heading.CategoryFor(persisted, has)
	}
	return out, nil
}

// tabs places the locale panels in the configured layout.
func (m *ModelAdmin) tabs(tpl *panel.Node, locales []*panel.Node) []*panel.Node {
	if m.EditHandler == nil {
		var tabs []*panel.Node
		if parent := m.parentPanel(); parent != nil {
			tabs = append(tabs, parent)
		}
		return append(tabs, locales...)
	}

	if tpl == nil {
		parent := panel.Clone(m.EditHandler)
		if parent.IsLeaf() {
			parent = panel.Container(UntranslatedHeading, parent)
		}
		if parent.Heading == "" {
			parent.Heading = UntranslatedHeading
		}
		return append([]*panel.Node{parent}, locales...)
	}

	if m.EditHandler.Kind == panel.KindTranslations {
		return locales
	}

	root := panel.Transform(m.EditHandler, func(n *panel.Node) *panel.Node {
		if n.IsLeaf() {
			return n
		}
		children := make([]*panel.Node, 0, len(n.Children))
		for _, c := range n.Children {
			if c.Kind == panel.KindTranslations {
				children = append(children, locales...)
				continue
			}
			children = append(children, c)
		}
		n.Children = children
		return n
	})
	return root.Children
}

// parentPanel returns one field panel per editable parent field, or nil
// when the schema has none.
func (m *ModelAdmin) parentPanel() *panel.Node {
	var fields []*panel.Node
	for _, def := range m.Schema.Fields {
		if !m.includes(def.Name) {
			continue
		}
		fields = append(fields, panel.Field(def.Name))
	}
	if m.BaseForm != nil {
		for _, def := range m.BaseForm.Extra {
			fields = append(fields, panel.Field(def.Name))
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return panel.Container(UntranslatedHeading, fields...)
}

func (m *ModelAdmin) includes(name string) bool {
	if len(m.Fields) > 0 && !slices.Contains(m.Fields, name) {
		return false
	}
	return !slices.Contains(m.Exclude, name)
}

// LanguagesColumn returns the translation status of rec in every locale.
// current marks the locale the list is displayed in.
func LanguagesColumn(ctx context.Context, reg *locale.Registry, rec *record.Record, current string) ([]model.LanguageStatus, error) {
	langs := reg.Languages()
	out := make([]model.LanguageStatus, 0, len(langs))
	for _, lang := range langs {
		has, err := rec.HasTranslation(ctx, lang.Code)
		if err != nil {
			return nil, err
		}
		out = append(out, model.LanguageStatus{
			Code:         lang.Code,
			Label:        reg.LabelFor(lang.Code),
			Current:      lang.Code == current,
			Untranslated: !has,
			Extra:        lang.Extra,
		})
	}
	return out, nil
}
