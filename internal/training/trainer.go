// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

// Package training fits and evaluates pipelines.
//
// Trainer handles the fraud model: it cleans transactions, splits them into
// train, validation and test partitions with a seeded shuffle, balances the
// training partition, fits the feature union and forest, and scores every
// partition on its own rows.
//
// RollingTrainer handles the awards model: it splits historical nominees by
// ceremony, so validation ceremonies always come after training ceremonies.
package training

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/tomtom215/fraudscope/internal/dataset"
	"github.com/tomtom215/fraudscope/internal/evaluate"
	"github.com/tomtom215/fraudscope/internal/features"
	"github.com/tomtom215/fraudscope/internal/logging"
	"github.com/tomtom215/fraudscope/internal/preprocess"
	"github.com/tomtom215/fraudscope/internal/resample"
)

// Trainer fits the fraud pipeline.
type Trainer struct {
	opts Options
}

// NewTrainer creates a fraud trainer.
func NewTrainer(opts Options) *Trainer {
	return &Trainer{opts: opts}
}

// Partitions is a three-way split of one table.
type Partitions struct {
	Train, Validation, Test *dataset.Table
}

// Split shuffles rows with a seeded RNG and cuts them into
// floor(n*trainProp) training rows, floor(rest*testProp) validation rows and
// the remaining test rows.
func Split(t *dataset.Table, trainProp, testProp float64, seed int64) Partitions {
	n := t.Len()
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTrain := int(math.Floor(float64(n) * trainProp))
	nVal := int(math.Floor(float64(n-nTrain) * testProp))
	return Partitions{
		Train:      t.Take(perm[:nTrain]),
		Validation: t.Take(perm[nTrain : nTrain+nVal]),
		Test:       t.Take(perm[nTrain+nVal:]),
	}
}

// Train cleans raw transactions and fits a fraud pipeline.
func (tr *Trainer) Train(ctx context.Context, raw *dataset.Table) (res *Result, err error) {
	ctx, report := newReport(ctx, KindFraud, tr.opts)
	defer func() { report.finish(err) }()
	logger := logging.Ctx(ctx).With().Str("component", "training").Logger()

	table, err := preprocess.Transactions(raw)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	if err := table.Require(preprocess.ColIsFraud); err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	parts := Split(table, tr.opts.TrainProportion, tr.opts.TestProportion, tr.opts.Seed)
	if parts.Train.Len() == 0 {
		return nil, fmt.Errorf("%w: %d rows give an empty training partition", ErrInsufficientData, table.Len())
	}
	report.Rows[PartitionTrain] = parts.Train.Len()
	report.Rows[PartitionValidation] = parts.Validation.Len()
	report.Rows[PartitionTest] = parts.Test.Len()

	yTrain, err := preprocess.Labels(parts.Train, preprocess.ColIsFraud)
	if err != nil {
		return nil, err
	}
	neg, pos := resample.Counts(yTrain)
	logger.Info().
		Int("train", parts.Train.Len()).
		Int("validation", parts.Validation.Len()).
		Int("test", parts.Test.Len()).
		Int("train_fraud", pos).
		Int("train_legit", neg).
		Str("resample", tr.opts.Resample).
		Msg("Split transactions")

	p := &Pipeline{Kind: KindFraud, Features: features.FraudFeatures(), Model: tr.opts.forest()}
	X, y, err := tr.balance(ctx, p, parts.Train, yTrain)
	if err != nil {
		return nil, err
	}
	report.Resampled = len(X)

	if err := p.fit(ctx, X, y); err != nil {
		return nil, err
	}

	for _, part := range []struct {
		name  string
		table *dataset.Table
	}{
		{PartitionTrain, parts.Train},
		{PartitionValidation, parts.Validation},
		{PartitionTest, parts.Test},
	} {
		s, err := evaluatePartition(p, part.table)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", part.name, err)
		}
		report.Scores[part.name] = s
		logger.Info().
			Str("partition", part.name).
			Float64("accuracy", s.Accuracy).
			Float64("recall", s.Recall).
			Msg("Evaluated partition")
	}

	report.Features = p.FeatureNames()
	return &Result{Pipeline: p, Report: *report}, nil
}

// balance fits the feature union and returns the encoded, class-balanced
// training matrix. Oversampling duplicates raw rows before the encoders are
// fit; SMOTE synthesizes rows after encoding the original partition.
func (tr *Trainer) balance(ctx context.Context, p *Pipeline, train *dataset.Table, y []int) ([][]float64, []int, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	switch tr.opts.Resample {
	case resample.MethodOversample:
		idx := resample.Oversample(y, tr.opts.Seed)
		rows := train.Take(idx)
		ys := make([]int, len(idx))
		for k, i := range idx {
			ys[k] = y[i]
		}
		X, err := features.FitTransform(p.Features, rows, ys)
		if err != nil {
			return nil, nil, fmt.Errorf("fit features: %w", err)
		}
		return X, ys, nil

	case resample.MethodSMOTE:
		X, err := features.FitTransform(p.Features, train, y)
		if err != nil {
			return nil, nil, fmt.Errorf("fit features: %w", err)
		}
		X, ys, err := resample.SMOTE(X, y, tr.opts.SMOTENeighbors, tr.opts.Seed)
		if err != nil {
			return nil, nil, err
		}
		return X, ys, nil

	case resample.MethodNone, "":
		X, err := features.FitTransform(p.Features, train, y)
		if err != nil {
			return nil, nil, fmt.Errorf("fit features: %w", err)
		}
		return X, y, nil

	default:
		return nil, nil, fmt.Errorf("unknown resample method %q", tr.opts.Resample)
	}
}

// evaluatePartition scores a cleaned, labelled partition.
func evaluatePartition(p *Pipeline, t *dataset.Table) (s evaluate.Scores, err error) {
	y, err := preprocess.Labels(t, preprocess.ColIsFraud)
	if err != nil {
		return s, err
	}
	X, err := p.Features.Transform(t)
	if err != nil {
		return s, err
	}
	return score(p, X, y)
}
