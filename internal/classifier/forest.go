// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

// Package classifier implements a binary random forest over dense feature
// matrices.
//
// Trees are grown concurrently, each from its own seed derived from the
// forest seed and the tree index, so a fit is reproducible regardless of
// goroutine scheduling. A fitted forest is read-only and safe for concurrent
// prediction.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrNotFitted is returned when predicting with an unfitted forest.
var ErrNotFitted = errors.New("classifier is not fitted")

// RandomForest averages the class probabilities of bootstrapped CART trees.
type RandomForest struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	// MaxFeatures is the number of features drawn per split; 0 means sqrt(p).
	MaxFeatures int
	Bootstrap   bool
	Seed        int64

	NFeatures int
	Trees     []*Tree
}

// Option configures a RandomForest.
type Option func(*RandomForest)

// WithTrees sets the number of trees.
func WithTrees(n int) Option { return func(rf *RandomForest) { rf.NEstimators = n } }

// WithMaxDepth limits tree depth; 0 grows until leaves are pure.
func WithMaxDepth(d int) Option { return func(rf *RandomForest) { rf.MaxDepth = d } }

// WithMinSamplesSplit sets the smallest node that may be split.
func WithMinSamplesSplit(n int) Option { return func(rf *RandomForest) { rf.MinSamplesSplit = n } }

// WithMaxFeatures sets the features drawn per split.
func WithMaxFeatures(n int) Option { return func(rf *RandomForest) { rf.MaxFeatures = n } }

// WithBootstrap toggles bootstrap sampling of rows.
func WithBootstrap(b bool) Option { return func(rf *RandomForest) { rf.Bootstrap = b } }

// WithSeed sets the forest seed.
func WithSeed(s int64) Option { return func(rf *RandomForest) { rf.Seed = s } }

// NewRandomForest returns a 100-tree bootstrapped forest with seed 0.
func NewRandomForest(opts ...Option) *RandomForest {
	rf := &RandomForest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		Bootstrap:       true,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit grows every tree. Labels must be 0 or 1.
func (rf *RandomForest) Fit(ctx context.Context, X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("randomforest: empty X")
	}
	if len(y) != len(X) {
		return fmt.Errorf("randomforest: %d rows but %d labels", len(X), len(y))
	}
	if rf.NEstimators < 1 {
		return fmt.Errorf("randomforest: need at least one tree, got %d", rf.NEstimators)
	}
	p := len(X[0])
	for i, row := range X {
		if len(row) != p {
			return fmt.Errorf("randomforest: row %d has %d features, want %d", i, len(row), p)
		}
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("randomforest: label %d at row %d is not 0 or 1", v, i)
		}
	}

	maxFeatures := rf.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = max(1, int(math.Sqrt(float64(p))))
	}

	n := len(X)
	trees := make([]*Tree, rf.NEstimators)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			seed := rf.Seed + int64(i)
			idx := make([]int, n)
			if rf.Bootstrap {
				rnd := rand.New(rand.NewSource(seed))
				for j := range idx {
					idx[j] = rnd.Intn(n)
				}
			} else {
				for j := range idx {
					idx[j] = j
				}
			}

			tree := &Tree{
				MaxDepth:        rf.MaxDepth,
				MinSamplesSplit: rf.MinSamplesSplit,
				MaxFeatures:     maxFeatures,
				Seed:            seed,
			}
			if err := tree.Fit(X, y, idx); err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
			trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	rf.NFeatures = p
	rf.Trees = trees
	return nil
}

// PredictProba returns [P(class 0), P(class 1)] per row, averaged over trees.
func (rf *RandomForest) PredictProba(X [][]float64) ([][2]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, ErrNotFitted
	}
	out := make([][2]float64, len(X))
	for i, x := range X {
		if len(x) != rf.NFeatures {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(x), rf.NFeatures)
		}
		var sum float64
		for _, t := range rf.Trees {
			sum += t.Proba(x)
		}
		p := sum / float64(len(rf.Trees))
		out[i] = [2]float64{1 - p, p}
	}
	return out, nil
}

// Predict returns 1 where P(class 1) > 0.5.
func (rf *RandomForest) Predict(X [][]float64) ([]int, error) {
	proba, err := rf.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return Labels(proba), nil
}

// Labels converts probabilities to the more likely class; ties go to 0.
func Labels(proba [][2]float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p[1] > p[0] {
			out[i] = 1
		}
	}
	return out
}
