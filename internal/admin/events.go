// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/ocms-i18ntabs/internal/render"
	"github.com/olegiv/ocms-i18ntabs/internal/store"
)

// EventsPerPage is the number of events to display per page.
const EventsPerPage = 50

// EventView is one row of the events page.
type EventView struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Details   string
	CreatedAt time.Time
}

// EventsData holds data for the events template.
type EventsData struct {
	Events  []EventView
	Page    int
	HasNext bool
	PrevURL string
	NextURL string
}

// formatMetadata converts JSON metadata to readable text.
// Example: {"schema":"food","error":"not found"} -> "error: not found, schema: food"
func formatMetadata(metadata string) string {
	if metadata == "" || metadata == "{}" {
		return ""
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(metadata), &data); err != nil {
		return metadata
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		var s string
		switch v := data[key].(type) {
		case string:
			s = v
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			s = strconv.FormatBool(v)
		default:
			if b, err := json.Marshal(v); err == nil {
				s = string(b)
			}
		}
		parts = append(parts, key+": "+s)
	}
	return strings.Join(parts, ", ")
}

// Events handles GET /admin/events/ - lists the logged warnings and errors.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	// One extra row tells whether a next page exists.
	rows, err := h.store.Queries().ListEvents(r.Context(), store.ListEventsParams{
		Limit:  EventsPerPage + 1,
		Offset: int64((page - 1) * EventsPerPage),
	})
	if err != nil {
		h.serverError(w, "failed to list events", "error", err)
		return
	}

	data := EventsData{Page: page, HasNext: len(rows) > EventsPerPage}
	if data.HasNext {
		rows = rows[:EventsPerPage]
	}
	if page > 1 {
		data.PrevURL = "/admin/events/?page=" + strconv.Itoa(page-1)
	}
	if data.HasNext {
		data.NextURL = "/admin/events/?page=" + strconv.Itoa(page+1)
	}
	for _, e := range rows {
		data.Events = append(data.Events, EventView{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			Details:   formatMetadata(e.Metadata),
			CreatedAt: e.CreatedAt,
		})
	}

	h.render(w, r, http.StatusOK, "admin/events", render.TemplateData{Title: "Events", Data: data})
}
