// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/record"
	"github.com/olegiv/ocms-i18ntabs/internal/render"
	"github.com/olegiv/ocms-i18ntabs/internal/session"
	"github.com/olegiv/ocms-i18ntabs/internal/store"
)

// previewSanitizer cleans rendered markdown and rich text.
var previewSanitizer = bluemonday.UGCPolicy()

// PreviewStatus is the answer to a preview submission.
type PreviewStatus struct {
	IsValid     bool `json:"is_valid"`
	IsAvailable bool `json:"is_available"`
}

// PreviewSubmit handles POST /admin/{schema}/preview/[{id}/]. Valid
// submissions are kept in the session for the preview page; nothing is
// written to storage.
func (h *Handler) PreviewSubmit(w http.ResponseWriter, r *http.Request) {
	m, ok := h.modelAdmin(w, r)
	if !ok {
		return
	}
	rec, ok := h.previewRecord(w, r, m)
	if !ok {
		return
	}
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_form"})
		return
	}

	eh, err := m.BuildEditHandler(ctx, h.registry, h.formatter, rec)
	if err != nil {
		h.serverError(w, "failed to build edit handler", "error", err, "schema", m.Schema.Name)
		return
	}
	f, err := eh.Form.New(ctx, rec)
	if err != nil {
		h.serverError(w, "failed to create form", "error", err, "schema", m.Schema.Name, "id", rec.ID)
		return
	}
	f.Bind(r.PostForm)

	key := session.PreviewKey(m.Schema.Name, rec.ID)
	valid := f.IsValid()
	if valid {
		session.PutPreview(ctx, h.sessions, key, r.PostForm)
	}
	_, stored := session.GetPreview(ctx, h.sessions, key)

	render.JSON(w, http.StatusOK, PreviewStatus{IsValid: valid, IsAvailable: valid || stored})
}

// PreviewValue is one rendered field of a preview.
type PreviewValue struct {
	Name  string
	Label string
	HTML  template.HTML
}

// PreviewLocale is the content of one locale in a preview.
type PreviewLocale struct {
	Code     string
	Label    string
	Dir      string
	Active   bool
	Fallback bool
	Values   []PreviewValue
}

// PreviewData holds data for the preview template.
type PreviewData struct {
	Available    bool
	Schema       string
	Title        string
	ActiveLocale string
	Parent       []PreviewValue
	Locales      []PreviewLocale
	BackURL      string
}

// Preview handles GET /admin/{schema}/preview/[{id}/]. The stored
// submission is applied to a record loaded without the shared translation
// cache, so unsaved edits never leak into other requests.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	m, ok := h.modelAdmin(w, r)
	if !ok {
		return
	}
	rec, ok := h.previewRecord(w, r, m)
	if !ok {
		return
	}
	ctx := r.Context()

	data := PreviewData{Schema: m.Schema.Name, BackURL: h.url(m, "create", 0)}
	if rec.IsPersisted() {
		data.BackURL = h.url(m, "edit", rec.ID)
	}

	values, stored := session.GetPreview(ctx, h.sessions, session.PreviewKey(m.Schema.Name, rec.ID))
	if !stored {
		h.render(w, r, http.StatusOK, "admin/preview", render.TemplateData{Title: "Preview", Data: data})
		return
	}

	eh, err := m.BuildEditHandler(ctx, h.registry, h.formatter, rec)
	if err != nil {
		h.serverError(w, "failed to build edit handler", "error", err, "schema", m.Schema.Name)
		return
	}
	f, err := eh.Form.New(ctx, rec)
	if err != nil {
		h.serverError(w, "failed to create form", "error", err, "schema", m.Schema.Name, "id", rec.ID)
		return
	}
	f.Bind(values)
	f.ActivePreviewLocale = values.Get(model.ActivePreviewLocaleField)

	if !f.IsValid() {
		h.render(w, r, http.StatusOK, "admin/preview", render.TemplateData{Title: "Preview", Data: data})
		return
	}
	if _, err := f.Save(ctx, nil, false); err != nil {
		h.serverError(w, "failed to apply preview", "error", err, "schema", m.Schema.Name, "id", rec.ID)
		return
	}

	if err := h.fillPreview(ctx, &data, rec, eh.Displayed); err != nil {
		h.serverError(w, "failed to build preview", "error", err, "schema", m.Schema.Name, "id", rec.ID)
		return
	}
	h.render(w, r, http.StatusOK, "admin/preview", render.TemplateData{Title: "Preview: " + data.Title, Data: data})
}

// previewRecord returns a new record, or the record of the id URL
// parameter loaded without the shared translation cache.
func (h *Handler) previewRecord(w http.ResponseWriter, r *http.Request, m *ModelAdmin) (*record.Record, bool) {
	if chi.URLParam(r, "id") == "" {
		return h.store.NewRecord(m.Schema), true
	}
	return h.loadRecord(w, r, m, store.LoadOptions{BypassCache: true})
}

// fillPreview renders the content of rec in every locale. displayed lists
// the translated fields to show; empty means all.
func (h *Handler) fillPreview(ctx context.Context, data *PreviewData, rec *record.Record, displayed []string) error {
	active := rec.CurrentLanguage()
	data.Available = true
	data.Title = rec.Title(ctx)
	data.ActiveLocale = active

	for _, def := range rec.Schema.Fields {
		data.Parent = append(data.Parent, PreviewValue{
			Name:  def.Name,
			Label: def.DisplayLabel(),
			HTML:  renderValue(def.Widget, rec.Values[def.Name]),
		})
	}

	for _, lang := range h.registry.Languages() {
		has, err := rec.HasTranslation(ctx, lang.Code)
		if err != nil {
			return err
		}
		pl := PreviewLocale{
			Code:     lang.Code,
			Label:    h.registry.LabelFor(lang.Code),
			Dir:      model.DirectionLTR,
			Active:   lang.Code == active,
			Fallback: !has,
		}
		if lang.IsRTL() {
			pl.Dir = model.DirectionRTL
		}

		rec.SetCurrentLanguage(lang.Code)
		for _, def := range rec.Schema.TranslatedFields {
			if len(displayed) > 0 && !slices.Contains(displayed, def.Name) {
				continue
			}
			v, err := rec.TranslatedValue(ctx, def.Name)
			if err != nil {
				return err
			}
			pl.Values = append(pl.Values, PreviewValue{
				Name:  def.Name,
				Label: def.DisplayLabel(),
				HTML:  renderValue(def.Widget, v),
			})
		}
		data.Locales = append(data.Locales, pl)
	}
	rec.SetCurrentLanguage(active)
	return nil
}

// renderValue returns the HTML of a field value for display.
func renderValue(widget, value string) template.HTML {
	switch widget {
	case model.WidgetCheckbox:
		if value != "" {
			return "Yes"
		}
		return "No"
	case model.WidgetMarkdown:
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(value), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(value))
		}
		return template.HTML(previewSanitizer.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized
	case model.WidgetRichText:
		return template.HTML(previewSanitizer.Sanitize(value)) //nolint:gosec // sanitized
	case model.WidgetTextarea:
		escaped := template.HTMLEscapeString(value)
		return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>")) //nolint:gosec // escaped
	default:
		return template.HTML(template.HTMLEscapeString(value)) //nolint:gosec // escaped
	}
}
