// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Language text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// Language describes one configured content locale.
// Extra holds free-form display attributes (flags, alternate labels) that
// heading templates may interpolate.
type Language struct {
	Code      string            `json:"code" yaml:"code" toml:"code"`
	Label     string            `json:"label,omitempty" yaml:"label" toml:"label"`
	Direction string            `json:"direction,omitempty" yaml:"direction" toml:"direction"`
	Fallbacks []string          `json:"fallbacks,omitempty" yaml:"fallbacks" toml:"fallbacks"`
	Extra     map[string]string `json:"extra,omitempty" yaml:"extra" toml:"extra"`
}

// IsRTL returns true if the language is right-to-left.
func (l Language) IsRTL() bool {
	return l.Direction == DirectionRTL
}

// Attrs returns the language attributes available to heading templates.
// Extra attributes never override "code".
func (l Language) Attrs() map[string]string {
	attrs := make(map[string]string, len(l.Extra)+1)
	for k, v := range l.Extra {
		attrs[k] = v
	}
	attrs["code"] = l.Code
	return attrs
}

// CommonLanguage is a well-known language used to complete missing labels.
type CommonLanguage struct {
	Code       string
	Name       string
	NativeName string
	Direction  string
}

// CommonLanguages provides a list of commonly used languages.
var CommonLanguages = []CommonLanguage{
	{"en", "English", "English", "ltr"},
	{"ru", "Russian", "Русский", "ltr"},
	{"de", "German", "Deutsch", "ltr"},
	{"fr", "French", "Français", "ltr"},
	{"es", "Spanish", "Español", "ltr"},
	{"it", "Italian", "Italiano", "ltr"},
	{"pt", "Portuguese", "Português", "ltr"},
	{"nl", "Dutch", "Nederlands", "ltr"},
	{"pl", "Polish", "Polski", "ltr"},
	{"uk", "Ukrainian", "Українська", "ltr"},
	{"zh", "Chinese", "中文", "ltr"},
	{"ja", "Japanese", "日本語", "ltr"},
	{"ko", "Korean", "한국어", "ltr"},
	{"ar", "Arabic", "العربية", "rtl"},
	{"he", "Hebrew", "עברית", "rtl"},
	{"fa", "Persian", "فارسی", "rtl"},
	{"tr", "Turkish", "Türkçe", "ltr"},
	{"vi", "Vietnamese", "Tiếng Việt", "ltr"},
	{"th", "Thai", "ไทย", "ltr"},
	{"hi", "Hindi", "हिन्दी", "ltr"},
}

// FindCommonLanguage returns the common language with the given code.
func FindCommonLanguage(code string) (CommonLanguage, bool) {
	for _, l := range CommonLanguages {
		if l.Code == code {
			return l, true
		}
	}
	return CommonLanguage{}, false
}
