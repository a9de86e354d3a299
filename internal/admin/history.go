// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"errors"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/render"
	"github.com/olegiv/ocms-i18ntabs/internal/revision"
	"github.com/olegiv/ocms-i18ntabs/internal/store"
)

// RevisionItem is one row of the history page.
type RevisionItem struct {
	ID         string
	CreatedAt  time.Time
	Languages  []string
	PreviewURL string
	RestoreURL string
}

// HistoryData holds data for the history template.
type HistoryData struct {
	Schema    string
	Title     string
	Revisions []RevisionItem
	EditURL   string
}

// History handles GET /admin/{schema}/history/{id}/ - lists the stored
// revisions of a record.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	m, ok := h.modelAdmin(w, r)
	if !ok {
		return
	}
	rec, ok := h.loadRecord(w, r, m, store.LoadOptions{})
	if !ok {
		return
	}
	ctx := r.Context()

	rows, err := h.store.Revisions(ctx, rec.ID, int64(h.revisions))
	if err != nil {
		h.serverError(w, "failed to list revisions", "error", err, "schema", m.Schema.Name, "id", rec.ID)
		return
	}

	base := h.url(m, "history", rec.ID)
	items := make([]RevisionItem, 0, len(rows))
	for _, row := range rows {
		item := RevisionItem{
			ID:         row.ID,
			CreatedAt:  row.CreatedAt,
			PreviewURL: base + row.ID + "/",
			RestoreURL: base + row.ID + "/restore/",
		}
		if snap, err := revision.Decode([]byte(row.Data)); err == nil {
			for code := range snap.Translations {
				item.Languages = append(item.Languages, code)
			}
			slices.Sort(item.Languages)
		} else {
			h.logger.Warn("unreadable revision", "error", err, "schema", m.Schema.Name, "id", rec.ID, "revision", row.ID)
		}
		items = append(items, item)
	}

	h.render(w, r, http.StatusOK, "admin/history", render.TemplateData{
		Title: "History: " + rec.Title(ctx),
		Data: HistoryData{
			Schema:    m.Schema.Name,
			Title:     rec.Title(ctx),
			Revisions: items,
			EditURL:   h.url(m, "edit", rec.ID),
		},
	})
}

// RevisionPreview handles GET /admin/{schema}/history/{id}/{rev}/ - shows
// a revision the way the preview page shows unsaved edits.
func (h *Handler) RevisionPreview(w http.ResponseWriter, r *http.Request) {
	m, ok := h.modelAdmin(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	snap, ok := h.loadSnapshot(w, r, id)
	if !ok {
		return
	}

	codes := h.registry.Codes()
	if lang := r.URL.Query().Get("lang"); h.registry.Contains(lang) {
		codes = append([]string{lang}, slices.DeleteFunc(slices.Clone(codes), func(c string) bool { return c == lang })...)
	}
	rec, err := revision.Restore(ctx, m.Schema, snap, codes, h.registry.Fallbacks)
	if err != nil {
		h.serverError(w, "failed to restore revision", "error", err, "schema", m.Schema.Name, "id", id)
		return
	}

	data := PreviewData{Schema: m.Schema.Name, BackURL: h.url(m, "history", id)}
	if err := h.fillPreview(ctx, &data, rec, nil); err != nil {
		h.serverError(w, "failed to build preview", "error", err, "schema", m.Schema.Name, "id", id)
		return
	}
	h.render(w, r, http.StatusOK, "admin/preview", render.TemplateData{Title: "Revision: " + data.Title, Data: data})
}

// RestoreRevision handles POST /admin/{schema}/history/{id}/{rev}/restore/.
// The revision is submitted through the edit form, so locales missing from
// it are deleted and a new revision is stored.
func (h *Handler) RestoreRevision(w http.ResponseWriter, r *http.Request) {
	m, ok := h.modelAdmin(w, r)
	if !ok {
		return
	}
	rec, ok := h.loadRecord(w, r, m, store.LoadOptions{})
	if !ok {
		return
	}
	ctx := r.Context()

	snap, ok := h.loadSnapshot(w, r, rec.ID)
	if !ok {
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
	f.Bind(snapshotValues(snap))

	if !f.IsValid() {
		h.renderer.SetFlash(r, "This revision no longer passes validation and cannot be restored", "error")
		http.Redirect(w, r, h.url(m, "history", rec.ID), http.StatusSeeOther)
		return
	}
	res, err := f.Save(ctx, h.store, true)
	if err != nil {
		h.serverError(w, "failed to restore revision", "error", err, "schema", m.Schema.Name, "id", rec.ID)
		return
	}
	h.afterSave(ctx, m, rec, res)

	h.renderer.SetFlash(r, "Revision restored", "success")
	http.Redirect(w, r, h.url(m, "edit", rec.ID), http.StatusSeeOther)
}

// loadSnapshot returns the revision of the rev URL parameter or answers 404.
func (h *Handler) loadSnapshot(w http.ResponseWriter, r *http.Request, recordID int64) (*revision.Snapshot, bool) {
	row, err := h.store.Revision(r.Context(), recordID, chi.URLParam(r, "rev"))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		h.serverError(w, "failed to load revision", "error", err, "id", recordID)
		return nil, false
	}
	snap, err := revision.Decode([]byte(row.Data))
	if err != nil {
		h.serverError(w, "failed to decode revision", "error", err, "id", recordID, "revision", row.ID)
		return nil, false
	}
	return snap, true
}

// snapshotValues returns the form submission equivalent to a snapshot.
func snapshotValues(snap *revision.Snapshot) url.Values {
	values := url.Values{}
	for name, v := range snap.Values {
		values.Set(name, v)
	}
	for code, fields := range snap.Translations {
		for name, v := range fields {
			values.Set(model.LocalizedFieldName(code, name), v)
		}
	}
	return values
}
