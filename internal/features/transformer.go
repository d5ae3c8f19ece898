// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

// Package features turns cleaned tables into numeric feature matrices.
//
// Every transformer is fit once on training rows and then reused verbatim:
// Transform never touches fitted state, so the same row always produces the
// same vector. Columns are looked up by name, which makes the column order of
// the input irrelevant; a missing column is reported as a *MissingColumnError.
//
// Fitted transformers are plain structs with exported fields so the whole
// pipeline can be gob encoded into the model store.
package features

import (
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/tomtom215/fraudscope/internal/dataset"
)

// ErrNotFitted is returned by Transform on a transformer that was never fit.
var ErrNotFitted = errors.New("transformer is not fitted")

// MissingColumnError names the columns absent from a table handed to Fit or Transform.
type MissingColumnError = dataset.MissingColumnError

// Transformer maps a table to a row-major feature matrix.
type Transformer interface {
	// Fit learns parameters from training rows. y holds 0/1 labels, one per
	// row; transformers that ignore labels accept nil.
	Fit(t *dataset.Table, y []int) error

	// Transform encodes rows with the fitted parameters.
	Transform(t *dataset.Table) ([][]float64, error)

	// OutputNames labels the columns Transform produces.
	OutputNames() []string
}

// FitTransform fits tr on t and returns the encoded rows.
func FitTransform(tr Transformer, t *dataset.Table, y []int) ([][]float64, error) {
	if err := tr.Fit(t, y); err != nil {
		return nil, err
	}
	return tr.Transform(t)
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(&RobustScaler{})
	gob.Register(&TargetEncoder{})
	gob.Register(&OneHotEncoder{})
	gob.Register(&Binarizer{})
	gob.Register(&Union{})
}

// numericColumns parses the named columns of t with dataset.ParseNumber.
func numericColumns(t *dataset.Table, columns []string) ([][]float64, error) {
	if err := t.Require(columns...); err != nil {
		return nil, err
	}
	out := make([][]float64, len(columns))
	for k, c := range columns {
		raw, _ := t.Column(c)
		vals := make([]float64, len(raw))
		for i, s := range raw {
			v, err := dataset.ParseNumber(s)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", i, c, err)
			}
			vals[i] = v
		}
		out[k] = vals
	}
	return out, nil
}

func checkLabels(t *dataset.Table, y []int) error {
	if len(y) != t.Len() {
		return fmt.Errorf("got %d labels for %d rows", len(y), t.Len())
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("label %d at row %d is not 0 or 1", v, i)
		}
	}
	return nil
}

// newMatrix allocates a rows x cols matrix backed by one slice.
func newMatrix(rows, cols int) [][]float64 {
	backing := make([]float64, rows*cols)
	m := make([][]float64, rows)
	for i := range m {
		m[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return m
}
