// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// TranslationSet holds the persisted translations of one record:
// locale code to field values.
type TranslationSet map[string]map[string]string

// TranslationCache caches the translation rows of records between requests.
//
// It only ever holds committed content. Callers that must not see shared
// state (previews) pass bypass=true to Get.
type TranslationCache struct {
	typed *TypedCache[TranslationSet]
	cache Cacher

	counters
	bypassed atomic.Int64
}

// NewTranslationCache creates a translation cache on top of c.
func NewTranslationCache(c Cacher, ttl time.Duration) *TranslationCache {
	return &TranslationCache{
		typed: NewTypedCache[TranslationSet](c, ttl),
		cache: c,
	}
}

// TranslationKey returns the cache key of a record's translations.
func TranslationKey(schema string, id int64) string {
	return fmt.Sprintf("translations:%s:%d", schema, id)
}

// Get returns the translations of a record, loading them with load on a
// miss. With bypass, the cache is neither read nor written.
func (c *TranslationCache) Get(ctx context.Context, schema string, id int64, bypass bool, load func() (TranslationSet, error)) (TranslationSet, error) {
	if bypass {
		c.bypassed.Add(1)
		return load()
	}

	key := TranslationKey(schema, id)
	if set, ok := c.typed.Get(ctx, key); ok {
		c.hits.Add(1)
		return *set, nil
	}
	c.misses.Add(1)

	set, err := load()
	if err != nil {
		return nil, err
	}
	if err := c.typed.Set(ctx, key, &set); err == nil {
		c.sets.Add(1)
	}
	return set, nil
}

// Invalidate drops the cached translations of a record.
func (c *TranslationCache) Invalidate(ctx context.Context, schema string, id int64) error {
	return c.typed.Delete(ctx, TranslationKey(schema, id))
}

// InvalidateSchema drops the cached translations of every record of a schema.
func (c *TranslationCache) InvalidateSchema(ctx context.Context, schema string) error {
	return c.cache.DeleteByPrefix(ctx, fmt.Sprintf("translations:%s:", schema))
}

// Bypassed returns how many lookups skipped the cache.
func (c *TranslationCache) Bypassed() int64 {
	return c.bypassed.Load()
}

// Stats returns cache statistics.
func (c *TranslationCache) Stats() Stats {
	s := c.snapshot()
	s.Name = "translations"
	return s
}

// ResetStats resets the cache statistics.
func (c *TranslationCache) ResetStats() {
	c.reset()
	c.bypassed.Store(0)
}
