// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package features

import (
	"fmt"
	"sort"

	"github.com/tomtom215/fraudscope/internal/dataset"
)

// OneHotEncoder expands categorical columns into indicator columns, one per
// category seen at fit, sorted. Unknown categories produce an all-zero block.
type OneHotEncoder struct {
	Columns    []string
	Categories [][]string
	Fitted     bool
}

// NewOneHotEncoder encodes the named columns.
func NewOneHotEncoder(columns ...string) *OneHotEncoder {
	return &OneHotEncoder{Columns: columns}
}

// Fit collects the sorted category list of each column. Labels are ignored.
func (o *OneHotEncoder) Fit(t *dataset.Table, _ []int) error {
	if err := t.Require(o.Columns...); err != nil {
		return fmt.Errorf("one-hot encoder: %w", err)
	}
	o.Categories = make([][]string, len(o.Columns))
	for k, c := range o.Columns {
		raw, _ := t.Column(c)
		seen := make(map[string]struct{})
		for _, v := range raw {
			seen[v] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		o.Categories[k] = cats
	}
	o.Fitted = true
	return nil
}

// Transform writes a 1 in the indicator of each known category.
func (o *OneHotEncoder) Transform(t *dataset.Table) ([][]float64, error) {
	if !o.Fitted {
		return nil, ErrNotFitted
	}
	if err := t.Require(o.Columns...); err != nil {
		return nil, fmt.Errorf("one-hot encoder: %w", err)
	}

	width := 0
	offsets := make([]int, len(o.Columns))
	index := make([]map[string]int, len(o.Columns))
	for k, cats := range o.Categories {
		offsets[k] = width
		width += len(cats)
		index[k] = make(map[string]int, len(cats))
		for j, c := range cats {
			index[k][c] = j
		}
	}

	out := newMatrix(t.Len(), width)
	for k, c := range o.Columns {
		raw, _ := t.Column(c)
		for i, v := range raw {
			if j, ok := index[k][v]; ok {
				out[i][offsets[k]+j] = 1
			}
		}
	}
	return out, nil
}

// OutputNames returns "column=category" for every indicator.
func (o *OneHotEncoder) OutputNames() []string {
	var names []string
	for k, c := range o.Columns {
		for _, cat := range o.Categories[k] {
			names = append(names, c+"="+cat)
		}
	}
	return names
}
