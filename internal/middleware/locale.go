// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"

	"github.com/olegiv/ocms-i18ntabs/internal/locale"
)

type contextKey string

const localeKey contextKey = "edit_locale"

// LocaleCookieName is the cookie holding the preferred editing locale.
const LocaleCookieName = "i18ntabs_lang"

// EditLocale resolves the locale records are displayed in on admin pages.
// Priority order:
//  1. Query parameter ?lang=XX (also stored in the cookie)
//  2. Cookie preference
//  3. Accept-Language header, matched against the configured locales
//  4. Default locale
func EditLocale(reg *locale.Registry) func(http.Handler) http.Handler {
	codes := reg.Codes()
	tags := make([]language.Tag, len(codes))
	for i, code := range codes {
		tags[i] = language.Make(code)
	}
	matcher := language.NewMatcher(tags)

	resolve := func(w http.ResponseWriter, r *http.Request) string {
		if code := r.URL.Query().Get("lang"); reg.Contains(code) {
			SetLocaleCookie(w, code)
			return code
		}
		if c, err := r.Cookie(LocaleCookieName); err == nil && reg.Contains(c.Value) {
			return c.Value
		}
		if accept := r.Header.Get("Accept-Language"); accept != "" {
			if prefs, _, err := language.ParseAcceptLanguage(accept); err == nil && len(prefs) > 0 {
				if _, idx, conf := matcher.Match(prefs...); conf != language.No {
					return codes[idx]
				}
			}
		}
		return reg.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLocale(r.Context(), resolve(w, r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithLocale returns a context carrying the editing locale.
func WithLocale(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, localeKey, code)
}

// Locale returns the editing locale of a request context, or "".
func Locale(ctx context.Context) string {
	code, _ := ctx.Value(localeKey).(string)
	return code
}

// SetLocaleCookie stores the preferred editing locale.
func SetLocaleCookie(w http.ResponseWriter, code string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LocaleCookieName,
		Value:    code,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
