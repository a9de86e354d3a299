// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"html/template"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/record"
	"github.com/olegiv/ocms-i18ntabs/internal/revision"
)

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		total     int64
		wantPages int
		wantLinks []int
		hasPrev   bool
		hasNext   bool
	}{
		{"empty", 1, 0, 1, []int{1}, false, false},
		{"single page", 1, 20, 1, []int{1}, false, false},
		{"first of many", 1, 250, 10, []int{1, 2, 3, 4, 5, 0, 10}, false, true},
		{"middle", 5, 250, 10, []int{1, 0, 3, 4, 5, 6, 7, 0, 10}, true, true},
		{"last", 10, 250, 10, []int{1, 0, 6, 7, 8, 9, 10}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPagination(tt.page, tt.total, 25, "/admin/food/")
			if p.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.HasPrev != tt.hasPrev || p.HasNext != tt.hasNext {
				t.Errorf("HasPrev, HasNext = %v, %v", p.HasPrev, p.HasNext)
			}
			var links []int
			for _, page := range p.Pages {
				links = append(links, page.Number)
			}
			if len(links) != len(tt.wantLinks) {
				t.Fatalf("pages = %v, want %v", links, tt.wantLinks)
			}
			for i := range links {
				if links[i] != tt.wantLinks[i] {
					t.Fatalf("pages = %v, want %v", links, tt.wantLinks)
				}
			}
		})
	}
}

func TestPageURLs(t *testing.T) {
	p := BuildPagination(2, 100, 25, "/admin/food/")
	if got := p.PrevURL(); got != "/admin/food/?page=1" {
		t.Errorf("PrevURL = %q", got)
	}
	if got := p.NextURL(); got != "/admin/food/?page=3" {
		t.Errorf("NextURL = %q", got)
	}
	if !p.ShouldShow() {
		t.Error("ShouldShow = false")
	}
}

func TestParsePage(t *testing.T) {
	tests := map[string]int{"": 1, "?page=3": 3, "?page=0": 1, "?page=-2": 1, "?page=x": 1}
	for query, want := range tests {
		r := httptest.NewRequest("GET", "/admin/food/"+query, nil)
		if got := parsePage(r); got != want {
			t.Errorf("parsePage(%q) = %d, want %d", query, got, want)
		}
	}
}

func TestClampPage(t *testing.T) {
	page, offset := clampPage(9, 30, 25)
	if page != 2 || offset != 25 {
		t.Errorf("clampPage = %d, %d, want 2, 25", page, offset)
	}
	page, offset = clampPage(3, 0, 25)
	if page != 1 || offset != 0 {
		t.Errorf("clampPage = %d, %d, want 1, 0", page, offset)
	}
}

func TestFormatMetadata(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"{}", ""},
		{"not json", "not json"},
		{`{"schema":"food","error":"not found"}`, "error: not found, schema: food"},
		{`{"id":42,"ok":true}`, "id: 42, ok: true"},
	}
	for _, tt := range tests {
		if got := formatMetadata(tt.in); got != tt.want {
			t.Errorf("formatMetadata(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderValue(t *testing.T) {
	tests := []struct {
		widget string
		value  string
		want   template.HTML
	}{
		{model.WidgetCheckbox, "true", "Yes"},
		{model.WidgetCheckbox, "", "No"},
		{model.WidgetText, "<b>x</b>", "&lt;b&gt;x&lt;/b&gt;"},
		{model.WidgetTextarea, "a\nb", "a<br>b"},
		{model.WidgetMarkdown, "*hi*", "<p><em>hi</em></p>\n"},
		{model.WidgetRichText, `<p onclick="x()">hi</p>`, "<p>hi</p>"},
	}
	for _, tt := range tests {
		if got := renderValue(tt.widget, tt.value); got != tt.want {
			t.Errorf("renderValue(%s, %q) = %q, want %q", tt.widget, tt.value, got, tt.want)
		}
	}
}

func TestSnapshotValues(t *testing.T) {
	snap := &revision.Snapshot{
		ID:     1,
		Values: record.Values{"yummy": "true"},
		Translations: map[string]record.Values{
			"fr": {"name": "Pomme"},
		},
	}
	want := url.Values{"yummy": {"true"}, "translations_fr_name": {"Pomme"}}
	got := snapshotValues(snap)
	if got.Encode() != want.Encode() {
		t.Errorf("snapshotValues = %v, want %v", got, want)
	}
}
