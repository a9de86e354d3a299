// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/record"
	"github.com/olegiv/ocms-i18ntabs/internal/util"
)

// htmlSanitizer cleans rich text submissions.
var htmlSanitizer = bluemonday.UGCPolicy()

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Form is a bound or unbound instance of a Spec.
type Form struct {
	spec     *Spec
	Instance *record.Record

	Initial map[string]string
	Data    map[string]string
	Errors  map[string]string

	// Cleaned holds validated values by form field name.
	Cleaned map[string]string
	// CleanedByLocale holds validated translated values by locale code and
	// source field name. Rebuilt by every Clean.
	CleanedByLocale map[string]record.Values

	// ActivePreviewLocale is the locale tab active when a preview was
	// requested. Only read by Preview.
	ActivePreviewLocale string

	bound     bool
	validated bool
}

// Spec returns the spec of the form.
func (f *Form) Spec() *Spec {
	return f.spec
}

// Bind attaches submitted data to the form.
func (f *Form) Bind(values url.Values) {
	f.Data = make(map[string]string, len(f.spec.Fields))
	for _, field := range f.spec.Fields {
		f.Data[field.Name] = values.Get(field.Name)
	}
	f.ActivePreviewLocale = values.Get(model.ActivePreviewLocaleField)
	f.Errors = make(map[string]string)
	f.bound = true
	f.validated = false
}

// IsBound reports whether data was bound to the form.
func (f *Form) IsBound() bool {
	return f.bound
}

// Value returns the value to display for a field: submitted data on a bound
// form, initial value otherwise.
func (f *Form) Value(name string) string {
	if f.bound {
		return f.Data[name]
	}
	return f.Initial[name]
}

// IsValid validates the bound data. Unbound forms are never valid.
func (f *Form) IsValid() bool {
	if !f.bound {
		return false
	}
	if !f.validated {
		f.fullClean()
	}
	return len(f.Errors) == 0
}

// AddError records an error on a field. Use "_form" for form-wide errors.
func (f *Form) AddError(field, msg string) {
	if _, ok := f.Errors[field]; !ok {
		f.Errors[field] = msg
	}
}

// LocaleErrors returns the locales, in tab order, whose fields have errors.
func (f *Form) LocaleErrors() []string {
	var out []string
	for _, code := range f.spec.registry.Codes() {
		for _, field := range f.spec.LocaleFields(code) {
			if _, ok := f.Errors[field.Name]; ok {
				out = append(out, code)
				break
			}
		}
	}
	return out
}

func (f *Form) fullClean() {
	f.Errors = make(map[string]string)
	f.Cleaned = make(map[string]string, len(f.spec.Fields))

	f.populateTargets()

	for _, field := range f.spec.Fields {
		value, msg := cleanField(field, f.Data[field.Name])
		if msg != "" {
			f.Errors[field.Name] = msg
			continue
		}
		f.Cleaned[field.Name] = value
	}

	f.Clean()
	if f.spec.base != nil && f.spec.base.Clean != nil {
		f.spec.base.Clean(f)
	}
	f.validated = true
}

// populateTargets fills empty target fields with a slug of their source.
func (f *Form) populateTargets() {
	for _, field := range f.spec.Fields {
		src := strings.TrimSpace(f.Data[field.Name])
		if src == "" {
			continue
		}
		for _, target := range field.Targets {
			if _, ok := f.spec.Field(target); !ok {
				continue
			}
			if strings.TrimSpace(f.Data[target]) == "" {
				f.Data[target] = util.Slugify(src)
			}
		}
	}
}

// Clean buckets the cleaned translated values by locale.
func (f *Form) Clean() {
	f.CleanedByLocale = make(map[string]record.Values)
	for _, code := range f.spec.registry.Codes() {
		data := record.Values{}
		for _, name := range f.spec.Translated {
			key := model.LocalizedFieldName(code, name)
			if v, ok := f.Cleaned[key]; ok {
				data[name] = v
			}
		}
		f.CleanedByLocale[code] = data
	}
}

// cleanField validates and normalises one submitted value.
// It returns the cleaned value or an error message.
func cleanField(field Field, raw string) (string, string) {
	value := raw
	if field.Widget != model.WidgetRichText && field.Widget != model.WidgetMarkdown {
		value = strings.TrimSpace(raw)
	}

	if field.Widget == model.WidgetCheckbox {
		switch strings.ToLower(value) {
		case "on", "true", "1", "yes":
			value = "true"
		default:
			value = ""
		}
	}

	if field.Widget == model.WidgetRichText {
		value = strings.TrimSpace(htmlSanitizer.Sanitize(value))
	}

	if strings.TrimSpace(value) == "" {
		if field.Required {
			return "", fmt.Sprintf("%s is required", field.Label)
		}
		return "", ""
	}

	if field.MaxLength > 0 && utf8.RuneCountInString(value) > field.MaxLength {
		return "", fmt.Sprintf("%s must be no more than %d characters", field.Label, field.MaxLength)
	}

	switch field.Widget {
	case model.WidgetEmail:
		if _, err := mail.ParseAddress(value); err != nil {
			return "", "Please enter a valid email address"
		}
	case model.WidgetNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", "Please enter a valid number"
		}
		value = strconv.FormatFloat(n, 'f', -1, 64)
	case model.WidgetDate:
		if !isValidDate(value) {
			return "", "Please enter a valid date"
		}
	case model.WidgetSlug:
		if !util.IsValidSlug(value) {
			return "", "Invalid slug format (use lowercase letters, numbers, and hyphens)"
		}
	}

	return value, ""
}

// isValidDate checks if the date is valid (YYYY-MM-DD format).
func isValidDate(date string) bool {
	if !dateRegex.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
