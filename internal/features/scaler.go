// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/fraudscope/internal/dataset"
)

// RobustScaler centers numeric columns on their median and divides by the
// interquartile range. Quantiles interpolate linearly between the order
// statistics around rank (n-1)p. A zero IQR is replaced by 1.
type RobustScaler struct {
	Columns []string
	Medians []float64
	IQRs    []float64
	Fitted  bool
}

// NewRobustScaler scales the named columns.
func NewRobustScaler(columns ...string) *RobustScaler {
	return &RobustScaler{Columns: columns}
}

// Fit records median and IQR per column. Labels are ignored.
func (s *RobustScaler) Fit(t *dataset.Table, _ []int) error {
	if t.Len() == 0 {
		return fmt.Errorf("robust scaler: no rows to fit")
	}
	cols, err := numericColumns(t, s.Columns)
	if err != nil {
		return fmt.Errorf("robust scaler: %w", err)
	}

	s.Medians = make([]float64, len(cols))
	s.IQRs = make([]float64, len(cols))
	for k, vals := range cols {
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		q25 := linearQuantile(0.25, sorted)
		q75 := linearQuantile(0.75, sorted)
		s.Medians[k] = linearQuantile(0.5, sorted)
		s.IQRs[k] = q75 - q25
		if s.IQRs[k] == 0 {
			s.IQRs[k] = 1
		}
	}
	s.Fitted = true
	return nil
}

// Transform returns (x - median) / IQR for every row.
func (s *RobustScaler) Transform(t *dataset.Table) ([][]float64, error) {
	if !s.Fitted {
		return nil, ErrNotFitted
	}
	cols, err := numericColumns(t, s.Columns)
	if err != nil {
		return nil, fmt.Errorf("robust scaler: %w", err)
	}
	out := newMatrix(t.Len(), len(s.Columns))
	for k, vals := range cols {
		for i, v := range vals {
			out[i][k] = (v - s.Medians[k]) / s.IQRs[k]
		}
	}
	return out, nil
}

// OutputNames returns the scaled column names.
func (s *RobustScaler) OutputNames() []string {
	return append([]string(nil), s.Columns...)
}

// linearQuantile returns the p-quantile of sorted, interpolating between
// sorted[floor(h)] and sorted[ceil(h)] with h = (n-1)p.
func linearQuantile(p float64, sorted []float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	hi := math.Ceil(h)
	a, b := sorted[int(lo)], sorted[int(hi)]
	return a + (h-lo)*(b-a)
}
