// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package omdb

import (
	"context"
	"strings"

	"github.com/tomtom215/fraudscope/internal/cache"
	"github.com/tomtom215/fraudscope/internal/metrics"
)

type lookupKey struct {
	title string
	year  int
}

// CachedLooker memoizes successful lookups of another Looker. Failures are
// not cached.
type CachedLooker struct {
	next  Looker
	cache *cache.LRU[lookupKey, *Movie]
}

// NewCachedLooker wraps next with an LRU of size entries.
func NewCachedLooker(next Looker, size int) *CachedLooker {
	return &CachedLooker{
		next:  next,
		cache: cache.NewLRU[lookupKey, *Movie](size, 0),
	}
}

// Lookup returns a cached result for the title and year, or asks the wrapped
// Looker. Titles match case-insensitively.
func (c *CachedLooker) Lookup(ctx context.Context, title string, year int) (*Movie, error) {
	key := lookupKey{title: strings.ToLower(strings.TrimSpace(title)), year: year}
	if m, ok := c.cache.Get(key); ok {
		metrics.RecordOMDBCacheHit()
		return m, nil
	}

	m, err := c.next.Lookup(ctx, title, year)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, m)
	return m, nil
}
