// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package features

import (
	"fmt"

	"github.com/tomtom215/fraudscope/internal/dataset"
)

// Binarizer maps numeric cells to 1 when greater than Threshold, else 0.
type Binarizer struct {
	Columns   []string
	Threshold float64
	Fitted    bool
}

// NewBinarizer thresholds the named columns.
func NewBinarizer(threshold float64, columns ...string) *Binarizer {
	return &Binarizer{Columns: columns, Threshold: threshold}
}

// Fit only checks that the columns exist; there is nothing to learn.
func (b *Binarizer) Fit(t *dataset.Table, _ []int) error {
	if err := t.Require(b.Columns...); err != nil {
		return fmt.Errorf("binarizer: %w", err)
	}
	b.Fitted = true
	return nil
}

// Transform thresholds every cell.
func (b *Binarizer) Transform(t *dataset.Table) ([][]float64, error) {
	if !b.Fitted {
		return nil, ErrNotFitted
	}
	cols, err := numericColumns(t, b.Columns)
	if err != nil {
		return nil, fmt.Errorf("binarizer: %w", err)
	}
	out := newMatrix(t.Len(), len(b.Columns))
	for k, vals := range cols {
		for i, v := range vals {
			if v > b.Threshold {
				out[i][k] = 1
			}
		}
	}
	return out, nil
}

// OutputNames returns the thresholded column names.
func (b *Binarizer) OutputNames() []string {
	return append([]string(nil), b.Columns...)
}
