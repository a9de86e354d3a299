// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package record

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
)

// Values holds field values by field name.
type Values map[string]string

// IsEmpty reports whether every value is blank.
func (v Values) IsEmpty() bool {
	for _, val := range v {
		if strings.TrimSpace(val) != "" {
			return false
		}
	}
	return true
}

// Clone returns a copy of v.
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	return maps.Clone(v)
}

// Translation is the content of a record in one locale.
type Translation struct {
	ID           int64
	LanguageCode string
	Values       Values
}

// Loader returns the persisted translations of a record by locale code.
type Loader func(ctx context.Context) (map[string]*Translation, error)

// Writer persists records. Implementations run inside a transaction.
type Writer interface {
	SaveRecord(ctx context.Context, rec *Record) error
	SaveTranslation(ctx context.Context, rec *Record, t *Translation) error
	DeleteTranslation(ctx context.Context, rec *Record, code string) (int64, error)
}

// Transactor runs fn inside one atomic transaction.
// The transaction is rolled back when fn returns an error.
type Transactor interface {
	InTx(ctx context.Context, fn func(w Writer) error) error
}

type entry struct {
	t *Translation
	// fallback entries hold the content of another locale (or nothing)
	// and do not count as a translation.
	fallback bool
}

// Record is one translatable record loaded for a single request.
//
// Translations are kept in a per-record cache keyed by locale code. The
// cache is filled from the Loader on first use unless the record is being
// added. A Record is not safe for concurrent use.
type Record struct {
	Schema    *Schema
	ID        int64
	Values    Values
	CreatedAt time.Time
	UpdatedAt time.Time

	adding    bool
	current   string
	loader    Loader
	fallbacks func(code string) []string

	cache     map[string]*entry
	persisted map[string]bool
	loaded    bool
}

// Option configures a record.
type Option func(*Record)

// WithLoader sets the translation loader.
func WithLoader(l Loader) Option {
	return func(r *Record) { r.loader = l }
}

// WithFallbacks sets the fallback chain resolver.
func WithFallbacks(fn func(code string) []string) Option {
	return func(r *Record) { r.fallbacks = fn }
}

// WithLanguage sets the current language.
func WithLanguage(code string) Option {
	return func(r *Record) { r.current = code }
}

// New creates a record that is not persisted yet.
func New(schema *Schema, opts ...Option) *Record {
	r := &Record{
		Schema:    schema,
		Values:    Values{},
		adding:    true,
		cache:     make(map[string]*entry),
		persisted: make(map[string]bool),
	}
	for _, f := range schema.Fields {
		if f.Default != "" {
			r.Values[f.Name] = f.Default
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Existing creates a persisted record.
func Existing(schema *Schema, id int64, values Values, opts ...Option) *Record {
	r := New(schema, opts...)
	r.ID = id
	r.Values = values.Clone()
	r.adding = false
	return r
}

// IsPersisted reports whether the record has an identity.
func (r *Record) IsPersisted() bool {
	return r.ID != 0
}

// Adding reports whether the record is being added. Adding records never
// query storage for translations.
func (r *Record) Adding() bool {
	return r.adding
}

// SetAdding sets the adding flag.
func (r *Record) SetAdding(adding bool) {
	r.adding = adding
}

// CurrentLanguage returns the active language code.
func (r *Record) CurrentLanguage() string {
	return r.current
}

// SetCurrentLanguage sets the active language code.
func (r *Record) SetCurrentLanguage(code string) {
	r.current = code
}

func (r *Record) ensureLoaded(ctx context.Context) error {
	if r.adding || r.loaded || r.loader == nil {
		return nil
	}

	translations, err := r.loader(ctx)
	if err != nil {
		return fmt.Errorf("loading translations of %s %d: %w", r.Schema.Name, r.ID, err)
	}
	for code, t := range translations {
		r.persisted[code] = true
		if _, ok := r.cache[code]; !ok {
			r.cache[code] = &entry{t: t}
		}
	}
	r.loaded = true
	return nil
}

// HasTranslation reports whether the record has content in a locale,
// saved or not.
func (r *Record) HasTranslation(ctx context.Context, code string) (bool, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return false, err
	}
	e, ok := r.cache[code]
	return ok && !e.fallback, nil
}

// IsTranslationPersisted reports whether a translation row exists in storage
// for the locale.
func (r *Record) IsTranslationPersisted(ctx context.Context, code string) (bool, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return false, err
	}
	return r.persisted[code], nil
}

// Translation returns the translation of a locale.
func (r *Record) Translation(ctx context.Context, code string) (*Translation, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	e, ok := r.cache[code]
	if !ok || e.fallback {
		return nil, fmt.Errorf("%w: %s %d has no %q translation", model.ErrTranslationMissing, r.Schema.Name, r.ID, code)
	}
	return e.t, nil
}

// Translations returns the translations held by the record by locale code.
func (r *Record) Translations(ctx context.Context) (map[string]*Translation, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make(map[string]*Translation, len(r.cache))
	for code, e := range r.cache {
		if !e.fallback {
			out[code] = e.t
		}
	}
	return out, nil
}

// AvailableLanguages returns the sorted codes the record is translated in.
// With includeUnsaved, translations only held in memory are included.
func (r *Record) AvailableLanguages(ctx context.Context, includeUnsaved bool) ([]string, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	var codes []string
	for code, e := range r.cache {
		if e.fallback {
			continue
		}
		if includeUnsaved || r.persisted[code] {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return codes, nil
}

// SetTranslatedFields sets values on the translation of a locale, creating
// it in memory when missing, and returns it.
func (r *Record) SetTranslatedFields(ctx context.Context, code string, values Values) (*Translation, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	e, ok := r.cache[code]
	if !ok || e.fallback || e.t == nil {
		e = &entry{t: &Translation{LanguageCode: code, Values: Values{}}}
		r.cache[code] = e
	}
	for k, v := range values {
		e.t.Values[k] = v
	}
	return e.t, nil
}

// CacheFallback drops the translation of a locale from the cache and
// replaces it with the content of its first available fallback, without
// querying storage when the record is being added.
func (r *Record) CacheFallback(ctx context.Context, code string) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	delete(r.cache, code)
	fb := &entry{fallback: true}
	for _, c := range r.fallbackChain(code) {
		if e, ok := r.cache[c]; ok && !e.fallback {
			fb.t = e.t
			break
		}
	}
	r.cache[code] = fb
	return nil
}

// TranslatedValue returns a translated field in the current language,
// following the fallback chain when the language has no content.
func (r *Record) TranslatedValue(ctx context.Context, field string) (string, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return "", err
	}

	if e, ok := r.cache[r.current]; ok && e.t != nil {
		return e.t.Values[field], nil
	}
	for _, c := range r.fallbackChain(r.current) {
		if e, ok := r.cache[c]; ok && !e.fallback {
			return e.t.Values[field], nil
		}
	}
	return "", nil
}

// Value returns a field in the current language, translated or not.
func (r *Record) Value(ctx context.Context, field string) (string, error) {
	if r.Schema.IsTranslated(field) {
		return r.TranslatedValue(ctx, field)
	}
	return r.Values[field], nil
}

// Title returns the value of the schema title field.
func (r *Record) Title(ctx context.Context) string {
	if r.Schema.TitleField == "" {
		return fmt.Sprintf("%s %d", r.Schema.DisplayLabel(), r.ID)
	}
	v, err := r.Value(ctx, r.Schema.TitleField)
	if err != nil || v == "" {
		return fmt.Sprintf("%s %d", r.Schema.DisplayLabel(), r.ID)
	}
	return v
}

// ConfirmSaved records that a translation was written to storage.
func (r *Record) ConfirmSaved(t *Translation) {
	r.persisted[t.LanguageCode] = true
	r.cache[t.LanguageCode] = &entry{t: t}
}

// ConfirmDeleted records that the translation of a locale was deleted.
func (r *Record) ConfirmDeleted(code string) {
	delete(r.persisted, code)
	delete(r.cache, code)
}

// Discard drops every translation held in memory. The next access reloads
// from storage.
func (r *Record) Discard() {
	r.cache = make(map[string]*entry)
	r.persisted = make(map[string]bool)
	r.loaded = false
}

func (r *Record) fallbackChain(code string) []string {
	if r.fallbacks == nil {
		return nil
	}
	return r.fallbacks(code)
}
