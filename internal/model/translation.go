// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Translation field naming
const (
	// LanguageCodeField is the locale key column of translation rows.
	// It is never offered as an editable field.
	LanguageCodeField = "language_code"

	// TranslationFieldPrefix prefixes locale-qualified form field names.
	TranslationFieldPrefix = "translations_"

	// ActivePreviewLocaleField is the submitted key naming the locale tab
	// that was active when a preview was requested.
	ActivePreviewLocaleField = "active_preview_locale"
)

// LocalizedFieldName returns the form field name routing a value to the
// translation of the given locale: translations_<locale>_<field>.
func LocalizedFieldName(locale, field string) string {
	return TranslationFieldPrefix + locale + "_" + field
}

// LanguageStatus summarises one locale of a record for list views.
type LanguageStatus struct {
	Code         string            `json:"code"`
	Label        string            `json:"label"`
	Current      bool              `json:"current"`
	Untranslated bool              `json:"untranslated"`
	Extra        map[string]string `json:"extra,omitempty"`
}
