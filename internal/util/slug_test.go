// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

// Slugs are filled from translated names, so every locale has to produce
// a valid slug.
func TestSlugify_TranslatedNames(t *testing.T) {
	tests := []struct {
		locale, input, expected string
	}{
		{"fr", "Crème brûlée", "creme-brulee"},
		{"fr", "Tarte à l'oignon", "tarte-a-loignon"},
		{"es", "Salchichón", "salchichon"},
		{"pt-br", "Pão de queijo", "pao-de-queijo"},
		{"de", "Über München", "uber-munchen"},
		{"ru", "Привет мир", "privet-mir"},
		{"en", "  Dry   sausage! ", "dry-sausage"},
		{"en", "!@#$%^&*()", ""},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.input, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if got != "" && !IsValidSlug(got) {
				t.Errorf("Slugify(%q) = %q is not a valid slug", tt.input, got)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := map[string]bool{
		"pomme":         true,
		"dry-sausage":   true,
		"123":           true,
		"":              false,
		"Pomme":         false,
		"dry sausage":   false,
		"salchichón":    false,
		"-pomme":        false,
		"pomme-":        false,
		"creme--brulee": false,
	}

	for in, want := range tests {
		if got := IsValidSlug(in); got != want {
			t.Errorf("IsValidSlug(%q) = %v, want %v", in, got, want)
		}
	}
}

// Identifier turns panel headings into tab ids.
func TestIdentifier(t *testing.T) {
	tests := []struct {
		input, expected string
	}{
		{"Untranslated data", "untranslated_data"},
		{"Régime", "regime"},
		{"HTML content", "html_content"},
		{"Ψωμί", "psomi"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Identifier(tt.input); got != tt.expected {
			t.Errorf("Identifier(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
