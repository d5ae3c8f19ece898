// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

/*
Package omdb is a minimal client for the OMDB movie metadata API.

It issues exactly one GET per title lookup and returns the three statistics
the awards model uses: IMDb rating, IMDb vote count and box office gross.
There is no retry; a failed lookup aborts the enrichment pass and is surfaced
as a *LookupError (matching ErrLookup) or a transport/decoding error.

Client Features:
  - API key authentication through the apikey query parameter
  - Fixed per-request timeout (10s by default)
  - Optional client-side rate limiting (golang.org/x/time/rate)
  - Prometheus lookup counters and latency histogram

Usage:

	client := omdb.NewClient(&cfg.OMDB)
	movie, err := client.Lookup(ctx, "Oppenheimer", 2023)
	if errors.Is(err, omdb.ErrLookup) {
	    // title not found
	}

EnrichTable applies Lookup to every row of a nominee table and appends the
imdb_rating, imdb_votes and box_office columns.
*/
package omdb
