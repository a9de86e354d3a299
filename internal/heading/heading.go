// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package heading computes the labels of locale tabs.
//
// A label is chosen from one of three categories depending on the state of
// the parent record: being created, translated in the locale, or not yet
// translated. Templates use {key} markers, for example "{flag} {locale} {status}".
package heading

import (
	"io"
	"maps"
	"regexp"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/olegiv/ocms-i18ntabs/internal/locale"
	"github.com/olegiv/ocms-i18ntabs/internal/model"
)

// Category is a heading label category.
type Category int

const (
	// Creating is used while the parent record has no identity yet.
	Creating Category = iota
	// Translated is used when the parent has a translation for the locale.
	Translated
	// Untranslated is used when the parent exists without a translation
	// for the locale.
	Untranslated
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case Translated:
		return "translated"
	case Untranslated:
		return "untranslated"
	default:
		return "creating"
	}
}

// CategoryFor selects the category of a locale tab.
func CategoryFor(persisted, hasTranslation bool) Category {
	switch {
	case !persisted:
		return Creating
	case hasTranslation:
		return Translated
	default:
		return Untranslated
	}
}

// Built-in templates and status markers.
const (
	DefaultLabel       = "{locale}"
	DefaultStatusLabel = "{locale} {status}"

	DefaultTranslatedStatus   = "🟢"
	DefaultUntranslatedStatus = "🔴"
)

// Style is the label template and status marker of one category.
type Style struct {
	Label  string
	Status string
}

// Config maps every category to its style.
type Config map[Category]Style

// DefaultConfig returns the built-in heading configuration.
func DefaultConfig() Config {
	return Config{
		Creating:     {Label: DefaultLabel},
		Translated:   {Label: DefaultStatusLabel, Status: DefaultTranslatedStatus},
		Untranslated: {Label: DefaultStatusLabel, Status: DefaultUntranslatedStatus},
	}
}

// ConfigFromSettings builds a Config from locale heading settings.
// A category without its own template uses Default (plus " {status}" for
// translated and untranslated), then the built-in template.
func ConfigFromSettings(s locale.HeadingSettings) Config {
	cfg := DefaultConfig()

	base := s.Default
	if base == "" {
		base = DefaultLabel
	}
	withStatus := base + " {status}"

	cfg[Creating] = Style{Label: base, Status: pick(s.Status.Creating, "")}
	cfg[Translated] = Style{
		Label:  firstNonEmpty(s.Translated, withStatus),
		Status: pick(s.Status.Translated, DefaultTranslatedStatus),
	}
	cfg[Untranslated] = Style{
		Label:  firstNonEmpty(s.Untranslated, withStatus),
		Status: pick(s.Status.Untranslated, DefaultUntranslatedStatus),
	}
	return cfg
}

func pick(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Formatter renders tab labels. It holds no mutable state.
type Formatter struct {
	cfg Config
}

// markerRegex matches a {key} marker with a non-empty key.
var markerRegex = regexp.MustCompile(`\{[^{}]+\}`)

// NewFormatter creates a formatter. Missing categories use the built-in style.
func NewFormatter(cfg Config) *Formatter {
	merged := DefaultConfig()
	for cat, style := range cfg {
		merged[cat] = style
	}
	return &Formatter{cfg: merged}
}

// Style returns the style of a category.
func (f *Formatter) Style(cat Category) Style {
	return f.cfg[cat]
}

// Format renders the label of a locale tab.
//
// template is used only when it contains a {key} marker; otherwise the
// category label is used. label is the human name of the locale.
// Markers with unknown keys are kept as they are.
func (f *Formatter) Format(cat Category, lang model.Language, label, template string) string {
	style := f.cfg[cat]

	tpl := style.Label
	if HasMarker(template) {
		tpl = template
	}

	// Language attributes take precedence over locale and status.
	values := map[string]string{"locale": label, "status": style.Status}
	maps.Copy(values, lang.Attrs())

	out := fasttemplate.ExecuteFuncString(tpl, "{", "}", func(w io.Writer, tag string) (int, error) {
		if v, ok := values[tag]; ok {
			return w.Write([]byte(v))
		}
		return w.Write([]byte("{" + tag + "}"))
	})
	return strings.TrimSpace(out)
}

// HasMarker reports whether s contains a {key} interpolation marker.
func HasMarker(s string) bool {
	return markerRegex.MatchString(s)
}
