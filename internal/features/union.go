// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package features

import (
	"fmt"

	"github.com/tomtom215/fraudscope/internal/awards"
	"github.com/tomtom215/fraudscope/internal/dataset"
	"github.com/tomtom215/fraudscope/internal/omdb"
	"github.com/tomtom215/fraudscope/internal/preprocess"
)

// Union fits every part on the same rows and concatenates their outputs in
// declaration order.
type Union struct {
	Parts []Transformer
}

// NewUnion composes transformers side by side.
func NewUnion(parts ...Transformer) *Union {
	return &Union{Parts: parts}
}

// Fit fits each part on t.
func (u *Union) Fit(t *dataset.Table, y []int) error {
	if len(u.Parts) == 0 {
		return fmt.Errorf("feature union has no parts")
	}
	for i, p := range u.Parts {
		if err := p.Fit(t, y); err != nil {
			return fmt.Errorf("union part %d: %w", i, err)
		}
	}
	return nil
}

// Transform concatenates every part's columns row by row.
func (u *Union) Transform(t *dataset.Table) ([][]float64, error) {
	if len(u.Parts) == 0 {
		return nil, ErrNotFitted
	}
	blocks := make([][][]float64, len(u.Parts))
	width := 0
	for i, p := range u.Parts {
		m, err := p.Transform(t)
		if err != nil {
			return nil, fmt.Errorf("union part %d: %w", i, err)
		}
		blocks[i] = m
		if t.Len() > 0 {
			width += len(m[0])
		}
	}

	out := newMatrix(t.Len(), width)
	for r := range out {
		off := 0
		for _, b := range blocks {
			off += copy(out[r][off:], b[r])
		}
	}
	return out, nil
}

// OutputNames concatenates the parts' names.
func (u *Union) OutputNames() []string {
	var names []string
	for _, p := range u.Parts {
		names = append(names, p.OutputNames()...)
	}
	return names
}

// FraudFeatures target encodes the transaction categoricals and robust scales Amount.
func FraudFeatures() *Union {
	return NewUnion(
		NewTargetEncoder(preprocess.CategoricalColumns...),
		NewRobustScaler(preprocess.NumericColumns...),
	)
}

// AwardsFeatures robust scales the OMDB statistics and one-hot encodes Category.
func AwardsFeatures() *Union {
	return NewUnion(
		NewRobustScaler(omdb.ColRating, omdb.ColVotes, omdb.ColBoxOffice),
		NewOneHotEncoder(awards.ColCategory),
	)
}
