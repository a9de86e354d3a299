// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package locale holds the configured content locales: their order, labels
// and fallback chains. A Registry is read-only once built.
package locale

import (
	"fmt"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
)

// Registry is the ordered set of configured locales.
type Registry struct {
	languages []model.Language
	index     map[string]int
	labels    map[string]string
	fallbacks []string
	headings  HeadingSettings
}

// New validates settings and builds a Registry.
func New(s Settings) (*Registry, error) {
	if len(s.Languages) == 0 {
		return nil, fmt.Errorf("%w: no languages configured", model.ErrConfiguration)
	}

	r := &Registry{
		languages: make([]model.Language, 0, len(s.Languages)),
		index:     make(map[string]int, len(s.Languages)),
		labels:    make(map[string]string, len(s.Languages)),
		headings:  s.Headings,
	}

	for _, lang := range s.Languages {
		if lang.Code == "" {
			return nil, fmt.Errorf("%w: language without code", model.ErrConfiguration)
		}
		if _, dup := r.index[lang.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate language code %q", model.ErrConfiguration, lang.Code)
		}
		tag, err := language.Parse(lang.Code)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid language code %q: %v", model.ErrConfiguration, lang.Code, err)
		}
		if lang.Direction == "" {
			lang.Direction = model.DirectionLTR
			if common, ok := model.FindCommonLanguage(lang.Code); ok {
				lang.Direction = common.Direction
			}
		}

		r.index[lang.Code] = len(r.languages)
		r.labels[lang.Code] = resolveLabel(lang, tag)
		r.languages = append(r.languages, lang)
	}

	r.fallbacks = s.Fallbacks
	if len(r.fallbacks) == 0 {
		r.fallbacks = []string{r.languages[0].Code}
	}
	if err := r.checkChain("default", r.fallbacks); err != nil {
		return nil, err
	}
	for _, lang := range r.languages {
		if err := r.checkChain(lang.Code, lang.Fallbacks); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// MustNew is like New but panics on error. Intended for tests and fixtures.
func MustNew(s Settings) *Registry {
	r, err := New(s)
	if err != nil {
		panic(err)
	}
	return r
}

// checkChain ensures every code of a fallback chain is configured.
func (r *Registry) checkChain(owner string, chain []string) error {
	for _, code := range chain {
		if _, ok := r.index[code]; !ok {
			return fmt.Errorf("%w: fallback %q of %s is not a configured language", model.ErrConfiguration, code, owner)
		}
	}
	return nil
}

// resolveLabel picks the human label of a language: configured label, then
// the common language list, then the CLDR English name.
func resolveLabel(lang model.Language, tag language.Tag) string {
	if lang.Label != "" {
		return lang.Label
	}
	if common, ok := model.FindCommonLanguage(lang.Code); ok {
		return common.Name
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return lang.Code
}

// Languages returns the configured languages in order.
func (r *Registry) Languages() []model.Language {
	return slices.Clone(r.languages)
}

// Codes returns the configured language codes in order.
func (r *Registry) Codes() []string {
	codes := make([]string, len(r.languages))
	for i, l := range r.languages {
		codes[i] = l.Code
	}
	return codes
}

// Default returns the default (first) language code.
func (r *Registry) Default() string {
	return r.languages[0].Code
}

// IsDefault reports whether code is the default language.
func (r *Registry) IsDefault(code string) bool {
	return code == r.Default()
}

// Contains reports whether code is configured.
func (r *Registry) Contains(code string) bool {
	_, ok := r.index[code]
	return ok
}

// Lookup returns the language with the given code.
func (r *Registry) Lookup(code string) (model.Language, error) {
	i, ok := r.index[code]
	if !ok {
		return model.Language{}, fmt.Errorf("%w: %q", model.ErrUnknownLocale, code)
	}
	return r.languages[i], nil
}

// LabelFor returns the display label of a code, or the code itself when
// it is not configured.
func (r *Registry) LabelFor(code string) string {
	if label, ok := r.labels[code]; ok {
		return label
	}
	return code
}

// Fallbacks returns the fallback chain of a language, excluding itself.
func (r *Registry) Fallbacks(code string) []string {
	chain := r.fallbacks
	if i, ok := r.index[code]; ok && len(r.languages[i].Fallbacks) > 0 {
		chain = r.languages[i].Fallbacks
	}

	out := make([]string, 0, len(chain))
	for _, c := range chain {
		if c != code && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// Headings returns the heading settings loaded with the languages.
func (r *Registry) Headings() HeadingSettings {
	return r.headings
}
