// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/record"
)

// ErrInvalid is returned when saving a form that did not validate.
var ErrInvalid = errors.New("form is not valid")

// Action is what a submission did to the translation of one locale.
type Action int

const (
	Noop Action = iota
	Created
	Updated
	Deleted
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	default:
		return "noop"
	}
}

// Decide returns the action for a locale. Empty submissions delete an
// existing translation; others create or update it.
func Decide(existing bool, submitted record.Values) Action {
	if submitted.IsEmpty() {
		if existing {
			return Deleted
		}
		return Noop
	}
	if existing {
		return Updated
	}
	return Created
}

// LocaleResult is the outcome of one locale. Count is the number of values
// written, or of rows removed for deletions.
type LocaleResult struct {
	Locale string
	Action Action
	Count  int64
}

// SaveResult is the outcome of Save.
type SaveResult struct {
	// Created is true when the parent record was inserted.
	Created bool
	Locales []LocaleResult
}

// Locale returns the result of one locale.
func (r *SaveResult) Locale(code string) (LocaleResult, bool) {
	for _, lr := range r.Locales {
		if lr.Locale == code {
			return lr, true
		}
	}
	return LocaleResult{}, false
}

// Save commits the form. With commit, the parent record and every locale
// are written in one transaction through tx. Without commit, Preview runs
// instead and tx is not used.
func (f *Form) Save(ctx context.Context, tx record.Transactor, commit bool) (*SaveResult, error) {
	if !f.IsValid() {
		return nil, ErrInvalid
	}
	if !commit {
		return f.Preview(ctx)
	}

	rec := f.Instance

	// Load persisted translations before the transaction starts.
	if _, err := rec.AvailableLanguages(ctx, false); err != nil {
		return nil, err
	}

	prevID, prevAdding, prevValues := rec.ID, rec.Adding(), rec.Values.Clone()
	f.applyParentValues()

	res := &SaveResult{Created: !rec.IsPersisted()}
	var saved []*record.Translation
	var deleted []string

	err := tx.InTx(ctx, func(w record.Writer) error {
		if err := w.SaveRecord(ctx, rec); err != nil {
			return fmt.Errorf("saving %s: %w", rec.Schema.Name, err)
		}

		for _, code := range f.spec.registry.Codes() {
			exists, err := rec.IsTranslationPersisted(ctx, code)
			if err != nil {
				return err
			}
			data := f.CleanedByLocale[code]
			lr := LocaleResult{Locale: code, Action: Decide(exists, f.decisionValues(code))}

			switch lr.Action {
			case Deleted:
				n, err := w.DeleteTranslation(ctx, rec, code)
				if err != nil {
					return fmt.Errorf("deleting %s translation: %w", code, err)
				}
				lr.Count = n
				deleted = append(deleted, code)
			case Created, Updated:
				t := &record.Translation{LanguageCode: code, Values: data.Clone()}
				if cur, err := rec.Translation(ctx, code); err == nil && exists {
					t.ID = cur.ID
					t.Values = cur.Values.Clone()
					maps.Copy(t.Values, data)
				}
				if err := w.SaveTranslation(ctx, rec, t); err != nil {
					return fmt.Errorf("saving %s translation: %w", code, err)
				}
				lr.Count = int64(len(data))
				saved = append(saved, t)
			}
			res.Locales = append(res.Locales, lr)
		}
		return nil
	})
	if err != nil {
		rec.ID, rec.Values = prevID, prevValues
		rec.SetAdding(prevAdding)
		rec.Discard()
		return nil, err
	}

	rec.SetAdding(false)
	for _, t := range saved {
		rec.ConfirmSaved(t)
	}
	for _, code := range deleted {
		rec.ConfirmDeleted(code)
	}
	return res, nil
}

// Preview applies the form to the in-memory record only. Emptied locales
// are replaced by their fallback content. The record language is switched
// to the active preview locale when it is configured.
func (f *Form) Preview(ctx context.Context) (*SaveResult, error) {
	if !f.IsValid() {
		return nil, ErrInvalid
	}

	rec := f.Instance
	reg := f.spec.registry
	codes := reg.Codes()

	f.applyParentValues()

	res := &SaveResult{
		Created: !rec.IsPersisted(),
		Locales: make([]LocaleResult, len(codes)),
	}

	var empty []int
	for i, code := range codes {
		data := f.CleanedByLocale[code]
		exists, err := rec.HasTranslation(ctx, code)
		if err != nil {
			return nil, err
		}
		decision := f.decisionValues(code)
		res.Locales[i] = LocaleResult{Locale: code, Action: Decide(exists, decision)}

		if decision.IsEmpty() {
			empty = append(empty, i)
			continue
		}
		if _, err := rec.SetTranslatedFields(ctx, code, data); err != nil {
			return nil, err
		}
		res.Locales[i].Count = int64(len(data))
	}

	// Fallbacks are resolved once every non-empty locale holds its edits.
	for _, i := range empty {
		adding := rec.Adding()
		rec.SetAdding(true)
		err := rec.CacheFallback(ctx, codes[i])
		rec.SetAdding(adding)
		if err != nil {
			return nil, err
		}
		if res.Locales[i].Action == Deleted {
			res.Locales[i].Count = 1
		}
	}

	switch {
	case reg.Contains(f.ActivePreviewLocale):
		rec.SetCurrentLanguage(f.ActivePreviewLocale)
	case rec.CurrentLanguage() == "":
		rec.SetCurrentLanguage(reg.Default())
	}

	return res, nil
}

// decisionValues returns the cleaned values of a locale with numeric zeros
// blanked, so a locale holding only blanks and zeros counts as empty.
func (f *Form) decisionValues(code string) record.Values {
	data := f.CleanedByLocale[code]
	out := make(record.Values, len(data))
	for name, v := range data {
		out[name] = v
		field, ok := f.spec.Field(model.LocalizedFieldName(code, name))
		if ok && field.Widget == model.WidgetNumber && isZero(v) {
			out[name] = ""
		}
	}
	return out
}

func isZero(v string) bool {
	n, err := strconv.ParseFloat(v, 64)
	return err == nil && n == 0
}

func (f *Form) applyParentValues() {
	for _, field := range f.spec.ParentFields() {
		if _, ok := f.Instance.Schema.Field(field.Name); !ok {
			continue
		}
		f.Instance.Values[field.Name] = f.Cleaned[field.Name]
	}
}
