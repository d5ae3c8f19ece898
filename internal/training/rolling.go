// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package training

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/fraudscope/internal/awards"
	"github.com/tomtom215/fraudscope/internal/dataset"
	"github.com/tomtom215/fraudscope/internal/features"
	"github.com/tomtom215/fraudscope/internal/logging"
)

// RollingTrainer fits the awards pipeline on whole ceremonies.
type RollingTrainer struct {
	opts Options
}

// NewRollingTrainer creates an awards trainer.
func NewRollingTrainer(opts Options) *RollingTrainer {
	return &RollingTrainer{opts: opts}
}

// CeremonySplit groups labelled nominees by ceremony in ascending order,
// drops ceremonies without a winner, and assigns the first
// floor(fraction*G) groups (at least one) to training and the rest to
// validation.
func CeremonySplit(t *dataset.Table, fraction float64) (train, validation *dataset.Table, trainCeremonies []int, err error) {
	if err := t.Require(awards.ColCeremony, awards.ColWon); err != nil {
		return nil, nil, nil, err
	}
	y, err := wonLabels(t)
	if err != nil {
		return nil, nil, nil, err
	}

	groups := make(map[int][]int)
	winners := make(map[int]bool)
	for i := 0; i < t.Len(); i++ {
		if t.IsNull(i, awards.ColWon) {
			continue
		}
		c, err := awards.Ceremony(t, i)
		if err != nil {
			return nil, nil, nil, err
		}
		groups[c] = append(groups[c], i)
		if y[i] == 1 {
			winners[c] = true
		}
	}

	var kept []int
	for c := range groups {
		if winners[c] {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: no ceremony has a winner", ErrInsufficientData)
	}
	sort.Ints(kept)

	nTrain := max(1, int(math.Floor(fraction*float64(len(kept)))))
	var trainIdx, valIdx []int
	for k, c := range kept {
		if k < nTrain {
			trainIdx = append(trainIdx, groups[c]...)
		} else {
			valIdx = append(valIdx, groups[c]...)
		}
	}
	return t.Take(trainIdx), t.Take(valIdx), kept[:nTrain], nil
}

// wonLabels derives 0/1 labels from the Won column with a 0.5 binarizer.
func wonLabels(t *dataset.Table) ([]int, error) {
	b := features.NewBinarizer(0.5, awards.ColWon)
	m, err := features.FitTransform(b, t, nil)
	if err != nil {
		return nil, fmt.Errorf("won labels: %w", err)
	}
	y := make([]int, len(m))
	for i, row := range m {
		y[i] = int(row[0])
	}
	return y, nil
}

// Train fits the awards pipeline once on the training ceremonies and scores
// train and validation rows.
func (rt *RollingTrainer) Train(ctx context.Context, history *dataset.Table) (res *Result, err error) {
	ctx, report := newReport(ctx, KindAwards, rt.opts)
	defer func() { report.finish(err) }()
	logger := logging.Ctx(ctx).With().Str("component", "training").Logger()

	train, validation, ceremonies, err := CeremonySplit(history, rt.opts.RollingTrainFraction)
	if err != nil {
		return nil, err
	}
	report.Rows[PartitionTrain] = train.Len()
	report.Rows[PartitionValidation] = validation.Len()
	report.Resampled = train.Len()
	logger.Info().
		Ints("train_ceremonies", ceremonies).
		Int("train", train.Len()).
		Int("validation", validation.Len()).
		Msg("Split nominees by ceremony")

	yTrain, err := wonLabels(train)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{Kind: KindAwards, Features: features.AwardsFeatures(), Model: rt.opts.forest()}
	X, err := features.FitTransform(p.Features, train, yTrain)
	if err != nil {
		return nil, fmt.Errorf("fit features: %w", err)
	}
	if err := p.fit(ctx, X, yTrain); err != nil {
		return nil, err
	}

	for _, part := range []struct {
		name  string
		table *dataset.Table
	}{
		{PartitionTrain, train},
		{PartitionValidation, validation},
	} {
		y, err := wonLabels(part.table)
		if err != nil {
			return nil, err
		}
		Xp, err := p.Features.Transform(part.table)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", part.name, err)
		}
		s, err := score(p, Xp, y)
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
