// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-i18ntabs/internal/form"
	"github.com/olegiv/ocms-i18ntabs/internal/heading"
	"github.com/olegiv/ocms-i18ntabs/internal/locale"
	"github.com/olegiv/ocms-i18ntabs/internal/middleware"
	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/record"
	"github.com/olegiv/ocms-i18ntabs/internal/render"
	"github.com/olegiv/ocms-i18ntabs/internal/revision"
	"github.com/olegiv/ocms-i18ntabs/internal/session"
	"github.com/olegiv/ocms-i18ntabs/internal/store"
)

// DefaultPerPage is the list page size when a model admin sets none.
const DefaultPerPage = 25

// Config holds the dependencies of the admin handler.
type Config struct {
	Store     *store.Store
	Registry  *locale.Registry
	Formatter *heading.Formatter
	Renderer  *render.Renderer
	Sessions  *scs.SessionManager
	Logger    *slog.Logger

	// PreviewLimiter limits preview submissions per client. Nil disables it.
	PreviewLimiter *middleware.RateLimiter
	// RevisionsShown is the number of revisions listed on the history page.
	RevisionsShown int
}

// Handler serves the admin pages of the registered schemas.
type Handler struct {
	store     *store.Store
	registry  *locale.Registry
	formatter *heading.Formatter
	renderer  *render.Renderer
	sessions  *scs.SessionManager
	logger    *slog.Logger
	limiter   *middleware.RateLimiter
	revisions int

	admins map[string]*ModelAdmin
	order  []string
}

// NewHandler creates an admin handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	formatter := cfg.Formatter
	if formatter == nil {
		formatter = heading.NewFormatter(heading.ConfigFromSettings(cfg.Registry.Headings()))
	}
	revisions := cfg.RevisionsShown
	if revisions <= 0 {
		revisions = 20
	}
	return &Handler{
		store:     cfg.Store,
		registry:  cfg.Registry,
		formatter: formatter,
		renderer:  cfg.Renderer,
		sessions:  cfg.Sessions,
		logger:    logger,
		limiter:   cfg.PreviewLimiter,
		revisions: revisions,
		admins:    make(map[string]*ModelAdmin),
	}
}

// Register adds the admin of a schema.
func (h *Handler) Register(m *ModelAdmin) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, ok := h.admins[m.Schema.Name]; ok {
		return fmt.Errorf("%w: schema %q registered twice", model.ErrConfiguration, m.Schema.Name)
	}
	if m.ListPerPage <= 0 {
		m.ListPerPage = DefaultPerPage
	}
	h.admins[m.Schema.Name] = m
	h.order = append(h.order, m.Schema.Name)
	return nil
}

// Admins returns the registered model admins in registration order.
func (h *Handler) Admins() []*ModelAdmin {
	out := make([]*ModelAdmin, 0, len(h.order))
	for _, name := range h.order {
		out = append(out, h.admins[name])
	}
	return out
}

// Routes returns the admin router. Mount it under /admin.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Get("/events/", h.Events)

	r.Route("/{schema}", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/create/", h.Create)
		r.Post("/create/", h.Create)
		r.Get("/edit/{id}/", h.Edit)
		r.Post("/edit/{id}/", h.Edit)
		r.Post("/delete/{id}/", h.Delete)

		r.Group(func(r chi.Router) {
			if h.limiter != nil {
				r.Use(h.limiter.JSON())
			}
			r.Post("/preview/", h.PreviewSubmit)
			r.Post("/preview/{id}/", h.PreviewSubmit)
		})
		r.Get("/preview/", h.Preview)
		r.Get("/preview/{id}/", h.Preview)

		r.Get("/history/{id}/", h.History)
		r.Get("/history/{id}/{rev}/", h.RevisionPreview)
		r.Post("/history/{id}/{rev}/restore/", h.RestoreRevision)
	})
	return r
}

// SchemaSummary is one row of the index page.
type SchemaSummary struct {
	Name      string
	Label     string
	Languages []LanguageCount
}

// LanguageCount is the number of records translated in one language.
type LanguageCount struct {
	Code  string
	Label string
	Count int64
}

// Index handles GET /admin/ - lists the registered schemas.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	summaries := make([]SchemaSummary, 0, len(h.order))
	for _, m := range h.Admins() {
		counts, err := h.store.TranslationCounts(r.Context(), m.Schema)
		if err != nil {
			h.serverError(w, "failed to count translations", "error", err, "schema", m.Schema.Name)
			return
		}
		s := SchemaSummary{Name: m.Schema.Name, Label: m.Schema.DisplayLabel()}
		for _, code := range h.registry.Codes() {
			s.Languages = append(s.Languages, LanguageCount{
				Code:  code,
				Label: h.registry.LabelFor(code),
				Count: counts[code],
			})
		}
		summaries = append(summaries, s)
	}

	h.render(w, r, http.StatusOK, "admin/index", render.TemplateData{
		Title: "Translations",
		Data:  summaries,
	})
}

// ListItem is one row of the list page.
type ListItem struct {
	ID        int64
	Title     string
	Languages []model.LanguageStatus
	EditURL   string
}

// ListData holds data for the list template.
type ListData struct {
	Schema     string
	Label      string
	Items      []ListItem
	Pagination Pagination
	CreateURL  string
}

// List handles GET /admin/{schema}/ - lists the records of a schema with
// their translation status.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	m, ok := h.modelAdmin(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	current := middleware.Locale(ctx)

	page := parsePage(r)
	offset := int64((page - 1) * m.ListPerPage)
	recs, total, err := h.store.List(ctx, m.Schema, int64(m.ListPerPage), offset)
	if err != nil {
		h.serverError(w, "failed to list records", "error", err, "schema", m.Schema.Name)
		return
	}
	// Pages past the end show the last page.
	if last, lastOffset := clampPage(page, total, m.ListPerPage); last != page {
		page = last
		if recs, _, err = h.store.List(ctx, m.Schema, int64(m.ListPerPage), lastOffset); err != nil {
			h.serverError(w, "failed to list records", "error", err, "schema", m.Schema.Name)
			return
		}
	}

	items := make([]ListItem, 0, len(recs))
	for _, rec := range recs {
		if current != "" {
			rec.SetCurrentLanguage(current)
		}
		langs, err := LanguagesColumn(ctx, h.registry, rec, current)
		if err != nil {
			h.serverError(w, "failed to load translations", "error", err, "schema", m.Schema.Name, "id", rec.ID)
			return
		}
		items = append(items, ListItem{
			ID:        rec.ID,
			Title:     rec.Title(ctx),
			Languages: langs,
			EditURL:   h.url(m, "edit", rec.ID),
		})
	}

	h.render(w, r, http.StatusOK, "admin/list", render.TemplateData{
		Title: m.Schema.DisplayLabel(),
		Data: ListData{
			Schema:     m.Schema.Name,
			Label:      m.Schema.DisplayLabel(),
			Items:      items,
			Pagination: BuildPagination(page, total, m.ListPerPage, h.url(m, "", 0)),
			CreateURL:  h.url(m, "create", 0),
		},
	})
}

// EditData holds data for the edit template.
type EditData struct {
	Schema     string
	Label      string
	RecordID   int64
	IsNew      bool
	Tabs       []*NodeView
	FormErrors []string
	// ErrorLocales lists the locales whose tab holds an error.
	ErrorLocales []string
	ActionURL    string
	PreviewURL   string
	HistoryURL   string
	DeleteURL    string
	ListURL      string
	ActiveLocale string
}

// Create handles GET and POST /admin/{schema}/create/.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	m, ok := h.modelAdmin(w, r)
	if !ok {
		return
	}
	rec := h.store.NewRecord(m.Schema)
	if code := middleware.Locale(r.Context()); code != "" {
		rec.SetCurrentLanguage(code)
	}
	h.serveForm(w, r, m, rec)
}

// Edit handles GET and POST /admin/{schema}/edit/{id}/.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	m, ok := h.modelAdmin(w, r)
	if !ok {
		return
	}
	rec, ok := h.loadRecord(w, r, m, store.LoadOptions{Language: middleware.Locale(r.Context())})
	if !ok {
		return
	}
	h.serveForm(w, r, m, rec)
}

func (h *Handler) serveForm(w http.ResponseWriter, r *http.Request, m *ModelAdmin, rec *record.Record) {
	ctx := r.Context()

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

	status := http.StatusOK
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		f.Bind(r.PostForm)

		if f.IsValid() {
			created := !rec.IsPersisted()
			res, err := f.Save(ctx, h.store, true)
			if err != nil {
				h.serverError(w, "failed to save record", "error", err, "schema", m.Schema.Name, "id", rec.ID)
				return
			}
			h.afterSave(ctx, m, rec, res)
			session.ClearPreview(ctx, h.sessions, session.PreviewKey(m.Schema.Name, 0))
			session.ClearPreview(ctx, h.sessions, session.PreviewKey(m.Schema.Name, rec.ID))

			msg := fmt.Sprintf("%s %q updated", m.Schema.DisplayLabel(), rec.Title(ctx))
			if created {
				msg = fmt.Sprintf("%s %q created", m.Schema.DisplayLabel(), rec.Title(ctx))
			}
			h.renderer.SetFlash(r, msg, "success")
			http.Redirect(w, r, h.url(m, "edit", rec.ID), http.StatusSeeOther)
			return
		}
		status = http.StatusUnprocessableEntity
	}

	data := EditData{
		Schema:       m.Schema.Name,
		Label:        m.Schema.DisplayLabel(),
		RecordID:     rec.ID,
		IsNew:        !rec.IsPersisted(),
		Tabs:         tabViews(eh, f, h.registry),
		ErrorLocales: f.LocaleErrors(),
		ListURL:      h.url(m, "", 0),
		ActiveLocale: rec.CurrentLanguage(),
	}
	if msg := f.Errors["_form"]; msg != "" {
		data.FormErrors = append(data.FormErrors, msg)
	}
	if data.IsNew {
		data.ActionURL = h.url(m, "create", 0)
		data.PreviewURL = h.url(m, "preview", 0)
	} else {
		data.ActionURL = h.url(m, "edit", rec.ID)
		data.PreviewURL = h.url(m, "preview", rec.ID)
		data.HistoryURL = h.url(m, "history", rec.ID)
		data.DeleteURL = h.url(m, "delete", rec.ID)
	}

	title := "New " + m.Schema.DisplayLabel()
	if !data.IsNew {
		title = rec.Title(ctx)
	}
	h.render(w, r, status, "admin/edit", render.TemplateData{Title: title, Data: data})
}

// afterSave logs the outcome of a save and stores a revision.
func (h *Handler) afterSave(ctx context.Context, m *ModelAdmin, rec *record.Record, res *form.SaveResult) {
	var changes []string
	for _, lr := range res.Locales {
		if lr.Action != form.Noop {
			changes = append(changes, lr.Locale+":"+lr.Action.String())
		}
	}
	h.logger.Info("record saved",
		"schema", m.Schema.Name, "id", rec.ID, "created", res.Created,
		"translations", strings.Join(changes, ","))

	data, err := revision.Encode(ctx, rec)
	if err != nil {
		h.logger.Error("failed to encode revision", "error", err, "schema", m.Schema.Name, "id", rec.ID)
		return
	}
	if _, err := h.store.SaveRevision(ctx, m.Schema.Name, rec.ID, data); err != nil {
		h.logger.Error("failed to save revision", "error", err, "schema", m.Schema.Name, "id", rec.ID)
	}
}

// Delete handles POST /admin/{schema}/delete/{id}/.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	m, ok := h.modelAdmin(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), m.Schema, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.serverError(w, "failed to delete record", "error", err, "schema", m.Schema.Name, "id", id)
		return
	}
	session.ClearPreview(r.Context(), h.sessions, session.PreviewKey(m.Schema.Name, id))
	h.logger.Info("record deleted", "schema", m.Schema.Name, "id", id)

	h.renderer.SetFlash(r, m.Schema.DisplayLabel()+" deleted", "success")
	http.Redirect(w, r, h.url(m, "", 0), http.StatusSeeOther)
}

// modelAdmin returns the admin of the schema URL parameter or answers 404.
func (h *Handler) modelAdmin(w http.ResponseWriter, r *http.Request) (*ModelAdmin, bool) {
	m, ok := h.admins[chi.URLParam(r, "schema")]
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	return m, true
}

// loadRecord loads the record of the id URL parameter or answers 404.
func (h *Handler) loadRecord(w http.ResponseWriter, r *http.Request, m *ModelAdmin, opts store.LoadOptions) (*record.Record, bool) {
	id, ok := parseID(w, r)
	if !ok {
		return nil, false
	}
	rec, err := h.store.Load(r.Context(), m.Schema, id, opts)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		h.serverError(w, "failed to load record", "error", err, "schema", m.Schema.Name, "id", id)
		return nil, false
	}
	return rec, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// url returns an admin URL of a schema. An empty action is the list page.
func (h *Handler) url(m *ModelAdmin, action string, id int64) string {
	u := "/admin/" + m.Schema.Name + "/"
	if action == "" {
		return u
	}
	u += action + "/"
	if id > 0 {
		u += strconv.FormatInt(id, 10) + "/"
	}
	return u
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data render.TemplateData) {
	if err := h.renderer.Render(w, r, status, name, data); err != nil {
		h.serverError(w, "failed to render template", "error", err, "template", name)
	}
}

// serverError logs msg with args and answers 500.
func (h *Handler) serverError(w http.ResponseWriter, msg string, args ...any) {
	h.logger.Error(msg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
