// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package training

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/fraudscope/internal/classifier"
	"github.com/tomtom215/fraudscope/internal/dataset"
	"github.com/tomtom215/fraudscope/internal/features"
	"github.com/tomtom215/fraudscope/internal/preprocess"
)

// Pipeline kinds.
const (
	KindFraud  = "fraud"
	KindAwards = "awards"
)

var (
	// ErrInsufficientData is returned when a dataset cannot produce a training partition.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrInvalidRows wraps cleaning and encoding failures caused by the
	// rows handed to a fitted pipeline.
	ErrInvalidRows = errors.New("invalid rows")
)

// Pipeline is a fitted feature union plus forest. It is immutable after
// training and safe for concurrent prediction.
type Pipeline struct {
	Kind     string
	Features *features.Union
	Model    *classifier.RandomForest
}

// prepare applies the kind's cleaning step before encoding.
func (p *Pipeline) prepare(t *dataset.Table) (*dataset.Table, error) {
	if p.Kind == KindFraud {
		return preprocess.Transactions(t)
	}
	return t, nil
}

// Matrix encodes rows with the fitted features.
func (p *Pipeline) Matrix(t *dataset.Table) ([][]float64, error) {
	if p.Features == nil || p.Model == nil {
		return nil, classifier.ErrNotFitted
	}
	clean, err := p.prepare(t)
	if err != nil {
		return nil, fmt.Errorf("%w: prepare: %w", ErrInvalidRows, err)
	}
	X, err := p.Features.Transform(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %w", ErrInvalidRows, err)
	}
	return X, nil
}

// PredictProba returns [P(0), P(1)] per row.
func (p *Pipeline) PredictProba(ctx context.Context, t *dataset.Table) ([][2]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	X, err := p.Matrix(t)
	if err != nil {
		return nil, err
	}
	return p.Model.PredictProba(X)
}

// Predict returns the 0/1 class per row.
func (p *Pipeline) Predict(ctx context.Context, t *dataset.Table) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	X, err := p.Matrix(t)
	if err != nil {
		return nil, err
	}
	return p.Model.Predict(X)
}

// FeatureNames lists the encoded columns the forest was trained on.
func (p *Pipeline) FeatureNames() []string {
	if p.Features == nil {
		return nil
	}
	return p.Features.OutputNames()
}

// fit encodes the training rows and grows the forest.
func (p *Pipeline) fit(ctx context.Context, X [][]float64, y []int) error {
	if err := p.Model.Fit(ctx, X, y); err != nil {
		return fmt.Errorf("fit forest: %w", err)
	}
	return nil
}
