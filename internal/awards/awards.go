// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

// Package awards prepares award nominee data: it enriches the nominee list
// with OMDB statistics once, caching the result, then separates historical
// nominees (with a known outcome) from the current year's nominees.
package awards

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/tomtom215/fraudscope/internal/dataset"
	"github.com/tomtom215/fraudscope/internal/omdb"
)

// Nominee dataset columns.
const (
	ColCeremony = "Ceremony"
	ColYear     = "Year"
	ColCategory = "Category"
	ColName     = "Name"
	ColFilm     = "Film"
	ColWon      = "Won"

	// ColWinProba and ColPredictedWinner are added by PredictWinners.
	ColWinProba        = "win_proba"
	ColPredictedWinner = "Predicted_Won"
)

// SourceColumns must be present in the raw nominee file.
var SourceColumns = []string{ColCeremony, ColYear, ColCategory, ColName, ColWon}

// NewLoader returns a cache-backed loader that enriches the source nominee
// file through l the first time and reads the cache afterwards. nullValue is
// the literal the source uses for a missing outcome.
func NewLoader(source, cache, nullValue string, l omdb.Looker) *dataset.Loader {
	var nulls []string
	if nullValue != "" {
		nulls = []string{nullValue}
	}
	return &dataset.Loader{
		Source:  source,
		Cache:   cache,
		Options: dataset.ReadOptions{NullValues: nulls, Required: SourceColumns},
		Derive: func(ctx context.Context, t *dataset.Table) (*dataset.Table, error) {
			return omdb.EnrichTable(ctx, l, t, ColName, ColYear)
		},
	}
}

// Split drops nominees without an IMDb rating, then returns the rows with a
// known Won value and the rows still awaiting a result.
func Split(t *dataset.Table) (history, nominees *dataset.Table, err error) {
	if err := t.Require(ColWon, omdb.ColRating); err != nil {
		return nil, nil, err
	}

	var parseErr error
	rated := t.Filter(func(i int) bool {
		v, err := dataset.ParseNumber(t.Get(i, omdb.ColRating))
		if err != nil && parseErr == nil {
			parseErr = fmt.Errorf("row %d: %w", i, err)
		}
		return v > 0
	})
	if parseErr != nil {
		return nil, nil, parseErr
	}

	history = rated.Filter(func(i int) bool { return !rated.IsNull(i, ColWon) })
	nominees = rated.Filter(func(i int) bool { return rated.IsNull(i, ColWon) })
	return history, nominees, nil
}

// Prober scores rows with class probabilities (negative, positive).
type Prober interface {
	PredictProba(ctx context.Context, t *dataset.Table) ([][2]float64, error)
}

// PredictWinners scores every nominee and marks the most likely winner of
// each category with 1. Ties go to the earlier row.
func PredictWinners(ctx context.Context, p Prober, nominees *dataset.Table) (*dataset.Table, error) {
	if err := nominees.Require(ColCategory); err != nil {
		return nil, err
	}
	proba, err := p.PredictProba(ctx, nominees)
	if err != nil {
		return nil, fmt.Errorf("score nominees: %w", err)
	}
	if len(proba) != nominees.Len() {
		return nil, fmt.Errorf("got %d scores for %d nominees", len(proba), nominees.Len())
	}

	best := make(map[string]int)
	for i := 0; i < nominees.Len(); i++ {
		cat := nominees.Get(i, ColCategory)
		if j, ok := best[cat]; !ok || proba[i][1] > proba[j][1] {
			best[cat] = i
		}
	}

	scores := make([]string, nominees.Len())
	winners := make([]string, nominees.Len())
	for i := range winners {
		scores[i] = strconv.FormatFloat(proba[i][1], 'f', 4, 64)
		winners[i] = "0"
	}
	for _, i := range best {
		winners[i] = "1"
	}

	out, err := nominees.WithColumn(ColWinProba, scores)
	if err != nil {
		return nil, err
	}
	return out.WithColumn(ColPredictedWinner, winners)
}

// Winners returns the rows marked as predicted winners, ordered by category.
func Winners(predicted *dataset.Table) (*dataset.Table, error) {
	if err := predicted.Require(ColPredictedWinner, ColCategory); err != nil {
		return nil, err
	}
	var idx []int
	for i := 0; i < predicted.Len(); i++ {
		if predicted.Get(i, ColPredictedWinner) == "1" {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return predicted.Get(idx[a], ColCategory) < predicted.Get(idx[b], ColCategory)
	})
	return predicted.Take(idx), nil
}

// Ceremony parses the ceremony number of row i.
func Ceremony(t *dataset.Table, i int) (int, error) {
	v := t.Get(i, ColCeremony)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("row %d: ceremony %q is not an integer", i, v)
	}
	return n, nil
}
