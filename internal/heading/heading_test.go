// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package heading

import (
	"testing"

	"github.com/olegiv/ocms-i18ntabs/internal/locale"
	"github.com/olegiv/ocms-i18ntabs/internal/model"
)

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		persisted, has bool
		want           Category
	}{
		{false, false, Creating},
		{false, true, Creating},
		{true, true, Translated},
		{true, false, Untranslated},
	}

	for _, tt := range tests {
		if got := CategoryFor(tt.persisted, tt.has); got != tt.want {
			t.Errorf("CategoryFor(%v, %v) = %v, want %v", tt.persisted, tt.has, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	f := NewFormatter(DefaultConfig())
	fr := model.Language{Code: "fr", Extra: map[string]string{"flag": "🇫🇷"}}

	tests := []struct {
		name     string
		cat      Category
		template string
		want     string
	}{
		{"creating", Creating, "", "French"},
		{"translated", Translated, "", "French 🟢"},
		{"untranslated", Untranslated, "", "French 🔴"},
		{"explicit template", Translated, "{flag} {locale} {status}", "🇫🇷 French 🟢"},
		{"code key", Untranslated, "[{code}] {locale}", "[fr] French"},
		{"template without marker", Translated, "Translations", "French 🟢"},
		{"unknown key kept", Creating, "{locale} {nope}", "French {nope}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Format(tt.cat, fr, "French", tt.template); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_Idempotent(t *testing.T) {
	f := NewFormatter(DefaultConfig())
	lang := model.Language{Code: "es", Extra: map[string]string{"flag": "🇪🇸"}}

	for _, cat := range []Category{Creating, Translated, Untranslated} {
		first := f.Format(cat, lang, "Spanish", "{flag} {locale} {status}")
		second := f.Format(cat, lang, "Spanish", "{flag} {locale} {status}")
		if first != second {
			t.Errorf("%v: %q != %q", cat, first, second)
		}
	}
}

func TestFormat_ExtraOverridesLocaleAndStatus(t *testing.T) {
	f := NewFormatter(nil)
	lang := model.Language{Code: "en", Extra: map[string]string{"locale": "Anglais", "status": "!", "code": "xx"}}

	if got := f.Format(Untranslated, lang, "English", "{locale} {status} {code}"); got != "Anglais ! en" {
		t.Errorf("Format() = %q, want %q", got, "Anglais ! en")
	}
}

func TestConfigFromSettings(t *testing.T) {
	empty := ""
	star := "*"
	cfg := ConfigFromSettings(locale.HeadingSettings{
		Default: "{flag} {locale}",
		Status: locale.StatusSettings{
			Creating:   &star,
			Translated: &empty,
		},
	})

	if cfg[Creating].Label != "{flag} {locale}" || cfg[Creating].Status != "*" {
		t.Errorf("Creating = %+v", cfg[Creating])
	}
	if cfg[Translated].Label != "{flag} {locale} {status}" || cfg[Translated].Status != "" {
		t.Errorf("Translated = %+v", cfg[Translated])
	}
	if cfg[Untranslated].Status != DefaultUntranslatedStatus {
		t.Errorf("Untranslated = %+v", cfg[Untranslated])
	}
}

func TestHasMarker(t *testing.T) {
	tests := map[string]bool{
		"":           false,
		"plain":      false,
		"{}":         false,
		"{locale}":   true,
		"a {b} c":    true,
		"only { one": false,
		"{}{locale}": true,
		"} {x":       false,
		"{{locale}}": true,
	}
	for in, want := range tests {
		if got := HasMarker(in); got != want {
			t.Errorf("HasMarker(%q) = %v, want %v", in, got, want)
		}
	}
}
