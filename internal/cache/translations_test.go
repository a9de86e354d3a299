// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"
)

func TestTranslationKey(t *testing.T) {
	if got := TranslationKey("food", 42); got != "translations:food:42" {
		t.Errorf("TranslationKey() = %q", got)
	}
}

func TestTranslationCache(t *testing.T) {
	mc := newTestMemoryCache(0)
	defer func() { _ = mc.Close() }()
	tc := NewTranslationCache(mc, time.Minute)
	ctx := context.Background()

	loads := 0
	load := func() (TranslationSet, error) {
		loads++
		return TranslationSet{"fr": {"name": "Pomme"}}, nil
	}

	for range 2 {
		set, err := tc.Get(ctx, "food", 1, false, load)
		if err != nil {
			t.Fatal(err)
		}
		if set["fr"]["name"] != "Pomme" {
			t.Errorf("set = %v", set)
		}
	}
	if loads != 1 {
		t.Errorf("loads = %d, want 1", loads)
	}

	// bypass always loads and never stores
	_, _ = tc.Get(ctx, "food", 2, true, load)
	_, _ = tc.Get(ctx, "food", 2, true, load)
	if loads != 3 {
		t.Errorf("loads = %d, want 3", loads)
	}
	if has, _ := mc.Has(ctx, TranslationKey("food", 2)); has {
		t.Error("bypassed lookup was stored")
	}
	if tc.Bypassed() != 2 {
		t.Errorf("Bypassed() = %d", tc.Bypassed())
	}

	_ = tc.Invalidate(ctx, "food", 1)
	_, _ = tc.Get(ctx, "food", 1, false, load)
	if loads != 4 {
		t.Errorf("loads = %d, want 4", loads)
	}

	_ = tc.InvalidateSchema(ctx, "food")
	if has, _ := mc.Has(ctx, TranslationKey("food", 1)); has {
		t.Error("schema invalidation kept entry")
	}

	s := tc.Stats()
	if s.Name != "translations" || s.Hits != 1 || s.Misses != 2 {
		t.Errorf("Stats() = %+v", s)
	}
}
