// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

var testFS = fstest.MapFS{
	"layouts/base.html":    {Data: []byte(`{{define "base"}}<html>{{template "content" .}}{{template "footer" .}}</html>{{end}}`)},
	"partials/footer.html": {Data: []byte(`{{define "footer"}}<footer>{{.CurrentYear}}</footer>{{end}}`)},
	"admin/list.html":      {Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1>{{shout .Data}}{{end}}`)},
	"admin/broken.html":    {Data: []byte(`{{define "content"}}{{.Data.Missing}}{{end}}`)},
	"admin/notes.txt":      {Data: []byte(`ignored`)},
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Config{
		TemplatesFS: testFS,
		Funcs:       template.FuncMap{"shout": func(v any) string { return strings.ToUpper(v.(string)) }},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t)

	if !r.Has("admin/list") {
		t.Fatal("admin/list not loaded")
	}
	if r.Has("admin/notes") {
		t.Error("non-html files should be skipped")
	}

	rr := httptest.NewRecorder()
	err := r.Render(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "admin/list", TemplateData{Title: "Foods", Data: "apple"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "<h1>Foods</h1>APPLE") {
		t.Errorf("body = %q", body)
	}
	if !strings.Contains(body, "<footer>"+time.Now().Format("2006")) {
		t.Errorf("footer missing year: %q", body)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRender_Errors(t *testing.T) {
	r := newTestRenderer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rr := httptest.NewRecorder()
	if err := r.Render(rr, req, http.StatusOK, "admin/missing", TemplateData{}); err == nil {
		t.Error("expected error for unknown template")
	}

	rr = httptest.NewRecorder()
	if err := r.Render(rr, req, http.StatusOK, "admin/broken", TemplateData{Data: 1}); err == nil {
		t.Error("expected execution error")
	}
	if rr.Body.Len() != 0 {
		t.Errorf("nothing should be written on error, got %q", rr.Body.String())
	}
}

func TestFuncs(t *testing.T) {
	funcs := Funcs()

	truncate := funcs["truncate"].(func(string, int) string)
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"Crème brûlée", 5, "Crème..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}

	format := funcs["formatDateTime"].(func(time.Time) string)
	if got := format(time.Time{}); got != "" {
		t.Errorf("formatDateTime(zero) = %q, want empty", got)
	}
}

func TestJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusAccepted, map[string]bool{"is_valid": true})

	if rr.Code != http.StatusAccepted {
		t.Errorf("Status = %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"is_valid":true}` {
		t.Errorf("body = %q", got)
	}
}
