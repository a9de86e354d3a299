// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"strings"

	"github.com/olegiv/ocms-i18ntabs/internal/form"
	"github.com/olegiv/ocms-i18ntabs/internal/locale"
	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/panel"
)

// FieldView is one form field ready for the templates.
type FieldView struct {
	Name      string
	Label     string
	Widget    string
	HelpText  string
	Value     string
	Error     string
	Required  bool
	Multiline bool
	Checked   bool
	MaxLength int
	Lang      string
	Dir       string
	// Targets lists the fields filled from this one, space separated.
	Targets string
}

// NodeView is one panel of the edit page.
type NodeView struct {
	ID        string
	Heading   string
	Locale    string
	HasErrors bool
	Field     *FieldView
	Children  []*NodeView
}

// tabViews turns the edit handler tabs into views bound to f.
func tabViews(eh *EditHandler, f *form.Form, reg *locale.Registry) []*NodeView {
	views := make([]*NodeView, 0, len(eh.Tabs))
	for _, tab := range eh.Tabs {
		if v := nodeView(tab, f, reg); v != nil {
			views = append(views, v)
		}
	}
	return views
}

func nodeView(n *panel.Node, f *form.Form, reg *locale.Registry) *NodeView {
	if n.IsLeaf() {
		field, ok := f.Spec().Field(n.FieldName)
		if !ok {
			return nil
		}
		fv := fieldView(field, f, reg)
		if len(n.Targets) > 0 {
			fv.Targets = strings.Join(n.Targets, " ")
		}
		return &NodeView{ID: n.CleanName(), Heading: n.Heading, Field: fv, HasErrors: fv.Error != ""}
	}

	v := &NodeView{ID: n.CleanName(), Heading: n.Heading, Locale: n.CurrentLocale}
	for _, c := range n.Children {
		cv := nodeView(c, f, reg)
		if cv == nil {
			continue
		}
		v.HasErrors = v.HasErrors || cv.HasErrors
		v.Children = append(v.Children, cv)
	}
	if len(v.Children) == 0 {
		return nil
	}
	return v
}

func fieldView(field form.Field, f *form.Form, reg *locale.Registry) *FieldView {
	value := f.Value(field.Name)
	fv := &FieldView{
		Name:      field.Name,
		Label:     field.Label,
		Widget:    field.Widget,
		HelpText:  field.HelpText,
		Value:     value,
		Error:     f.Errors[field.Name],
		Required:  field.Required,
		Multiline: model.IsMultiline(field.Widget),
		Checked:   field.Widget == model.WidgetCheckbox && value != "",
		MaxLength: field.MaxLength,
		Lang:      field.Locale,
		Dir:       model.DirectionLTR,
	}
	if field.Locale != "" {
		if lang, err := reg.Lookup(field.Locale); err == nil && lang.IsRTL() {
			fv.Dir = model.DirectionRTL
		}
	}
	return fv
}
