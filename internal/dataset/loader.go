// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tomtom215/fraudscope/internal/logging"
)

// DeriveFunc turns the source table into the table that gets cached,
// typically by enriching every row from a remote service.
type DeriveFunc func(ctx context.Context, src *Table) (*Table, error)

// Loader reads a dataset, preferring a derived cache file over recomputing it.
//
// When Cache exists it is returned as is. Otherwise Source is read, passed
// through Derive and the result written to Cache before being returned, so
// the expensive derivation runs at most once per cache file.
type Loader struct {
	Source string
	Cache  string

	// Options applies to the source file. The cache is always read without
	// null substitution because it was written by WriteCSV.
	Options ReadOptions

	// Derive may be nil, in which case the source is cached unchanged.
	Derive DeriveFunc
}

// Load returns the cached table, building the cache on first use.
func (l *Loader) Load(ctx context.Context) (*Table, error) {
	log := logging.Ctx(ctx).With().Str("component", "loader").Logger()

	if l.Cache != "" {
		t, err := ReadCSVFile(l.Cache, ReadOptions{Required: l.Options.Required})
		switch {
		case err == nil:
			log.Debug().Str("cache", l.Cache).Int("rows", t.Len()).Msg("loaded dataset from cache")
			return t, nil
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	src, err := ReadCSVFile(l.Source, l.Options)
	if errors.Is(err, ErrNotFound) {
		return nil, &NotFoundError{Paths: l.candidates()}
	}
	if err != nil {
		return nil, err
	}

	if l.Derive != nil {
		start := time.Now()
		derived, err := l.Derive(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("derive %s: %w", l.Source, err)
		}
		log.Info().
			Str("source", l.Source).
			Int("rows", derived.Len()).
			Dur("duration", time.Since(start)).
			Msg("derived dataset")
		src = derived
	}

	if l.Cache != "" {
		if err := WriteCSVFile(l.Cache, src); err != nil {
			return nil, fmt.Errorf("write cache %s: %w", l.Cache, err)
		}
		log.Info().Str("cache", l.Cache).Msg("wrote dataset cache")
	}
	return src, nil
}

// CacheExists reports whether the cache file is present.
func (l *Loader) CacheExists() bool {
	if l.Cache == "" {
		return false
	}
	_, err := os.Stat(l.Cache)
	return err == nil
}

func (l *Loader) candidates() []string {
	if l.Cache == "" {
		return []string{l.Source}
	}
	return []string{l.Source, l.Cache}
}
