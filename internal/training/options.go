// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package training

import (
	"strconv"

	"github.com/tomtom215/fraudscope/internal/classifier"
	"github.com/tomtom215/fraudscope/internal/config"
	"github.com/tomtom215/fraudscope/internal/resample"
)

// Options holds split, resampling and forest parameters.
type Options struct {
	TrainProportion float64
	TestProportion  float64
	Seed            int64
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	Resample        string
	SMOTENeighbors  int

	// RollingTrainFraction is the share of ceremony groups used for training.
	RollingTrainFraction float64
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		TrainProportion:      0.6,
		TestProportion:       0.5,
		Trees:                10,
		MinSamplesSplit:      2,
		Resample:             resample.MethodOversample,
		SMOTENeighbors:       5,
		RollingTrainFraction: 0.8,
	}
}

// FraudOptions reads the fraud trainer settings.
func FraudOptions(cfg *config.TrainingConfig) Options {
	return Options{
		TrainProportion:      cfg.TrainProportion,
		TestProportion:       cfg.TestProportion,
		Seed:                 cfg.Seed,
		Trees:                cfg.Trees,
		MaxDepth:             cfg.MaxDepth,
		MinSamplesSplit:      cfg.MinSamplesSplit,
		Resample:             cfg.Resample,
		SMOTENeighbors:       cfg.SMOTENeighbors,
		RollingTrainFraction: cfg.RollingTrainFraction,
	}
}

// AwardsOptions reads the rolling trainer settings; only the tree count differs.
func AwardsOptions(cfg *config.TrainingConfig) Options {
	o := FraudOptions(cfg)
	o.Trees = cfg.AwardsTrees
	return o
}

func (o Options) forest() *classifier.RandomForest {
	return classifier.NewRandomForest(
		classifier.WithTrees(o.Trees),
		classifier.WithMaxDepth(o.MaxDepth),
		classifier.WithMinSamplesSplit(o.MinSamplesSplit),
		classifier.WithSeed(o.Seed),
	)
}

func (o Options) params() map[string]string {
	return map[string]string{
		"train_proportion":       strconv.FormatFloat(o.TrainProportion, 'f', -1, 64),
		"test_proportion":        strconv.FormatFloat(o.TestProportion, 'f', -1, 64),
		"seed":                   strconv.FormatInt(o.Seed, 10),
		"trees":                  strconv.Itoa(o.Trees),
		"max_depth":              strconv.Itoa(o.MaxDepth),
		"min_samples_split":      strconv.Itoa(o.MinSamplesSplit),
		"resample":               o.Resample,
		"smote_neighbors":        strconv.Itoa(o.SMOTENeighbors),
		"rolling_train_fraction": strconv.FormatFloat(o.RollingTrainFraction, 'f', -1, 64),
	}
}
