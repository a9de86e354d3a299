// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the admin session manager and stores
// pending preview payloads in it.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	if !isDev {
		sm.Cookie.Secure = true
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}

// PreviewKey returns the session key of the pending preview of a record.
// New records use id 0.
func PreviewKey(schema string, id int64) string {
	return "preview:" + schema + ":" + formatID(id)
}

func formatID(id int64) string {
	if id <= 0 {
		return "new"
	}
	return strconv.FormatInt(id, 10)
}

// PutPreview stores submitted form data for a later preview render.
func PutPreview(ctx context.Context, sm *scs.SessionManager, key string, data url.Values) {
	sm.Put(ctx, key, data.Encode())
}

// GetPreview returns stored preview data.
func GetPreview(ctx context.Context, sm *scs.SessionManager, key string) (url.Values, bool) {
	raw := sm.GetString(ctx, key)
	if raw == "" {
		return nil, false
	}
	data, err := url.ParseQuery(raw)
	if err != nil {
		return nil, false
	}
	return data, true
}

// ClearPreview removes stored preview data.
func ClearPreview(ctx context.Context, sm *scs.SessionManager, key string) {
	sm.Remove(ctx, key)
}
