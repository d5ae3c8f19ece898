// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package features

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/fraudscope/internal/dataset"
)

// TargetEncoder replaces each category with its shrunk mean label.
//
// For a category with n rows, label mean m_c and variance v_c, and global
// mean m and variance v:
//
//	lambda = n*v / (n*v + v_c)
//	enc    = lambda*m_c + (1-lambda)*m
//
// Unknown categories encode to m.
type TargetEncoder struct {
	Columns    []string
	Encodings  []map[string]float64
	GlobalMean float64
	Fitted     bool
}

// NewTargetEncoder encodes the named categorical columns.
func NewTargetEncoder(columns ...string) *TargetEncoder {
	return &TargetEncoder{Columns: columns}
}

// Fit learns one encoding table per column from 0/1 labels.
func (e *TargetEncoder) Fit(t *dataset.Table, y []int) error {
	if err := t.Require(e.Columns...); err != nil {
		return fmt.Errorf("target encoder: %w", err)
	}
	if err := checkLabels(t, y); err != nil {
		return fmt.Errorf("target encoder: %w", err)
	}
	if len(y) == 0 {
		return fmt.Errorf("target encoder: no rows to fit")
	}

	yf := make([]float64, len(y))
	for i, v := range y {
		yf[i] = float64(v)
	}
	mean, variance := stat.PopMeanVariance(yf, nil)

	e.GlobalMean = mean
	e.Encodings = make([]map[string]float64, len(e.Columns))
	for k, c := range e.Columns {
		raw, _ := t.Column(c)
		groups := make(map[string][]float64)
		for i, cat := range raw {
			groups[cat] = append(groups[cat], yf[i])
		}

		enc := make(map[string]float64, len(groups))
		for cat, ys := range groups {
			if variance == 0 {
				enc[cat] = mean
				continue
			}
			mc, vc := stat.PopMeanVariance(ys, nil)
			n := float64(len(ys))
			lambda := n * variance / (n*variance + vc)
			enc[cat] = lambda*mc + (1-lambda)*mean
		}
		e.Encodings[k] = enc
	}
	e.Fitted = true
	return nil
}

// Transform looks up each cell; categories unseen at fit get the global mean.
func (e *TargetEncoder) Transform(t *dataset.Table) ([][]float64, error) {
	if !e.Fitted {
		return nil, ErrNotFitted
	}
	if err := t.Require(e.Columns...); err != nil {
		return nil, fmt.Errorf("target encoder: %w", err)
	}
	out := newMatrix(t.Len(), len(e.Columns))
	for k, c := range e.Columns {
		raw, _ := t.Column(c)
		for i, cat := range raw {
			v, ok := e.Encodings[k][cat]
			if !ok {
				v = e.GlobalMean
			}
			out[i][k] = v
		}
	}
	return out, nil
}

// OutputNames returns the encoded column names.
func (e *TargetEncoder) OutputNames() []string {
	return append([]string(nil), e.Columns...)
}
