// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

/*
Package cache provides a generic, thread-safe LRU cache with optional TTL.

The OMDB enrichment pass uses it to memoize title lookups: a film nominated
in several categories appears on several rows but costs one API request.

# Usage Example

	c := cache.NewLRU[string, *omdb.Movie](4096, 0)
	if m, ok := c.Get(key); ok {
	    return m, nil
	}
	m, err := fetch(key)
	if err == nil {
	    c.Add(key, m)
	}

# Thread Safety

All methods are safe for concurrent use. Get mutates recency order, so the
cache uses a single sync.Mutex rather than a read/write lock.
*/
package cache
