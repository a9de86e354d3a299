// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestTypedCache(t *testing.T) {
	mc := newTestMemoryCache(0)
	defer func() { _ = mc.Close() }()
	tc := NewTypedCache[testItem](mc, time.Minute)
	ctx := context.Background()

	if _, ok := tc.Get(ctx, "item"); ok {
		t.Fatal("unexpected hit")
	}

	if err := tc.Set(ctx, "item", &testItem{Name: "apple", Count: 3}); err != nil {
		t.Fatal(err)
	}
	got, ok := tc.Get(ctx, "item")
	if !ok || got.Name != "apple" || got.Count != 3 {
		t.Errorf("Get() = %+v, %v", got, ok)
	}

	_ = tc.Delete(ctx, "item")
	if _, ok := tc.Get(ctx, "item"); ok {
		t.Error("expected miss after delete")
	}
}

func TestTypedCache_InvalidJSON(t *testing.T) {
	mc := newTestMemoryCache(0)
	defer func() { _ = mc.Close() }()
	ctx := context.Background()

	_ = mc.Set(ctx, "bad", []byte("{"), 0)
	tc := NewTypedCache[testItem](mc, time.Minute)
	if _, ok := tc.Get(ctx, "bad"); ok {
		t.Error("expected miss for invalid JSON")
	}
}

func TestTypedCache_GetOrSet(t *testing.T) {
	mc := newTestMemoryCache(0)
	defer func() { _ = mc.Close() }()
	tc := NewTypedCache[testItem](mc, time.Minute)
	ctx := context.Background()

	calls := 0
	fn := func() (*testItem, error) {
		calls++
		return &testItem{Name: "pear"}, nil
	}

	for range 3 {
		v, err := tc.GetOrSet(ctx, "k", fn)
		if err != nil || v.Name != "pear" {
			t.Fatalf("GetOrSet() = %+v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times", calls)
	}

	boom := errors.New("boom")
	if _, err := tc.GetOrSet(ctx, "other", func() (*testItem, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}
