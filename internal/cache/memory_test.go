// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestMemoryCache(maxSize int) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, MaxSize: maxSize})
}

func TestMemoryCache_BasicOperations(t *testing.T) {
	cache := newTestMemoryCache(100)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	if err := cache.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := cache.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("expected value1, got %s", string(val))
	}

	has, err := cache.Has(ctx, "key1")
	if err != nil || !has {
		t.Errorf("Has() = %v, %v", has, err)
	}

	if err := cache.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "key1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := newTestMemoryCache(0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "short", []byte("v"), 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, err := cache.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
	if has, _ := cache.Has(ctx, "short"); has {
		t.Error("expired key reported present")
	}
}

func TestMemoryCache_ValueIsCopied(t *testing.T) {
	cache := newTestMemoryCache(0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	buf := []byte("abc")
	_ = cache.Set(ctx, "k", buf, 0)
	buf[0] = 'x'

	got, _ := cache.Get(ctx, "k")
	got[1] = 'y'

	again, _ := cache.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("got %q, want abc", again)
	}
}

func TestMemoryCache_MaxSize(t *testing.T) {
	cache := newTestMemoryCache(2)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "a", []byte("1"), time.Minute)
	_ = cache.Set(ctx, "b", []byte("2"), time.Hour)
	_ = cache.Set(ctx, "c", []byte("3"), time.Hour)

	if has, _ := cache.Has(ctx, "a"); has {
		t.Error("expected a to be evicted")
	}
	if s := cache.Stats(); s.Items != 2 {
		t.Errorf("Items = %d, want 2", s.Items)
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	cache := newTestMemoryCache(0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "translations:food:1", []byte("x"), 0)
	_ = cache.Set(ctx, "translations:food:2", []byte("x"), 0)
	_ = cache.Set(ctx, "translations:drink:1", []byte("x"), 0)

	if err := cache.DeleteByPrefix(ctx, "translations:food:"); err != nil {
		t.Fatal(err)
	}
	if s := cache.Stats(); s.Items != 1 {
		t.Errorf("Items = %d, want 1", s.Items)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := newTestMemoryCache(0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "k", []byte("1234"), 0)
	_, _ = cache.Get(ctx, "k")
	_, _ = cache.Get(ctx, "missing")

	s := cache.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Sets != 1 || s.Size != 4 || s.HitRate != 50 {
		t.Errorf("Stats() = %+v", s)
	}

	cache.ResetStats()
	if s := cache.Stats(); s.Hits != 0 || s.Items != 1 {
		t.Errorf("after reset: %+v", s)
	}

	_ = cache.Clear(ctx)
	if s := cache.Stats(); s.Items != 0 || s.Size != 0 {
		t.Errorf("after clear: %+v", s)
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	cache := newTestMemoryCache(0)
	_ = cache.Close()
	_ = cache.Close()

	if _, err := cache.Get(context.Background(), "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
	if err := cache.Set(context.Background(), "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, MaxSize: 50, CleanupInterval: time.Millisecond})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("k%d-%d", n, j%10)
				_ = cache.Set(ctx, key, []byte("v"), 0)
				_, _ = cache.Get(ctx, key)
				if j%7 == 0 {
					_ = cache.Delete(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()

	if s := cache.Stats(); s.Items > 50 {
		t.Errorf("Items = %d exceeds max size", s.Items)
	}
}
