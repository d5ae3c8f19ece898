// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package omdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/fraudscope/internal/dataset"
	"github.com/tomtom215/fraudscope/internal/logging"
)

// Enriched column names.
const (
	ColRating    = "imdb_rating"
	ColVotes     = "imdb_votes"
	ColBoxOffice = "box_office"
)

// EnrichTable looks up every row by its title and year columns and returns
// the table with the three statistic columns appended. The first failed
// lookup aborts the pass; its row index is wrapped into the error.
func EnrichTable(ctx context.Context, l Looker, t *dataset.Table, titleCol, yearCol string) (*dataset.Table, error) {
	if err := t.Require(titleCol, yearCol); err != nil {
		return nil, err
	}

	logger := logging.WithComponent("omdb")
	n := t.Len()
	ratings := make([]string, n)
	votes := make([]string, n)
	box := make([]string, n)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		title := t.Get(i, titleCol)
		year, err := strconv.Atoi(strings.TrimSpace(t.Get(i, yearCol)))
		if err != nil {
			return nil, fmt.Errorf("row %d: year %q is not an integer", i, t.Get(i, yearCol))
		}

		logger.Debug().Str("title", title).Int("year", year).Msg("Looking up movie")
		m, err := l.Lookup(ctx, title, year)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		ratings[i] = dataset.FormatNumber(m.Rating)
		votes[i] = strconv.FormatInt(m.Votes, 10)
		box[i] = strconv.FormatInt(m.BoxOffice, 10)
	}

	out, err := t.WithColumn(ColRating, ratings)
	if err != nil {
		return nil, err
	}
	if out, err = out.WithColumn(ColVotes, votes); err != nil {
		return nil, err
	}
	if out, err = out.WithColumn(ColBoxOffice, box); err != nil {
		return nil, err
	}
	logger.Info().Int("rows", n).Msg("Enrichment complete")
	return out, nil
}
