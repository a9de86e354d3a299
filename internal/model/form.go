// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model contains domain models and constants for the application.
package model

// Widget kinds for editable fields
const (
	WidgetText     = "text"
	WidgetEmail    = "email"
	WidgetTextarea = "textarea"
	WidgetRichText = "richtext"
	WidgetMarkdown = "markdown"
	WidgetNumber   = "number"
	WidgetCheckbox = "checkbox"
	WidgetDate     = "date"
	WidgetSlug     = "slug"
)

// ValidWidgets returns all valid widget kinds.
func ValidWidgets() []string {
	return []string{
		WidgetText,
		WidgetEmail,
		WidgetTextarea,
		WidgetRichText,
		WidgetMarkdown,
		WidgetNumber,
		WidgetCheckbox,
		WidgetDate,
		WidgetSlug,
	}
}

// IsValidWidget checks if a widget kind is valid.
func IsValidWidget(widget string) bool {
	for _, w := range ValidWidgets() {
		if w == widget {
			return true
		}
	}
	return false
}

// IsMultiline reports whether the widget renders as a textarea.
func IsMultiline(widget string) bool {
	switch widget {
	case WidgetTextarea, WidgetRichText, WidgetMarkdown:
		return true
	}
	return false
}
