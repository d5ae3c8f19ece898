// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

// Package resample balances binary training sets before fitting.
//
// Oversample works on row indices so callers can duplicate raw table rows
// before any encoder is fit. SMOTE works in encoded feature space and
// synthesizes new minority rows between nearest neighbours.
package resample

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Resampling methods accepted by configuration.
const (
	MethodOversample = "oversample"
	MethodSMOTE      = "smote"
	MethodNone       = "none"
)

// ValidMethod reports whether m names a resampling method.
func ValidMethod(m string) bool {
	switch m {
	case MethodOversample, MethodSMOTE, MethodNone:
		return true
	}
	return false
}

// Counts returns the number of 0 and 1 labels.
func Counts(y []int) (neg, pos int) {
	for _, v := range y {
		if v == 1 {
			pos++
		} else {
			neg++
		}
	}
	return neg, pos
}

// minority returns the smaller class label and the class sizes. ok is false
// when the classes are already balanced or one of them is empty.
func minority(y []int) (label, small, large int, ok bool) {
	neg, pos := Counts(y)
	if neg == 0 || pos == 0 || neg == pos {
		return 0, 0, 0, false
	}
	if pos < neg {
		return 1, pos, neg, true
	}
	return 0, neg, pos, true
}

// Oversample returns row indices that keep every original row, in order,
// followed by minority rows drawn with replacement until both classes are
// the same size.
func Oversample(y []int, seed int64) []int {
	idx := make([]int, len(y))
	for i := range idx {
		idx[i] = i
	}
	label, small, large, ok := minority(y)
	if !ok {
		return idx
	}

	var pool []int
	for i, v := range y {
		if v == label {
			pool = append(pool, i)
		}
	}
	rnd := rand.New(rand.NewSource(seed))
	for n := 0; n < large-small; n++ {
		idx = append(idx, pool[rnd.Intn(len(pool))])
	}
	return idx
}

// SMOTE appends synthetic minority rows to X until the classes balance.
// Each synthetic row lies on the segment between a random minority row and
// one of its k nearest minority neighbours. The inputs are not modified.
func SMOTE(X [][]float64, y []int, k int, seed int64) ([][]float64, []int, error) {
	if len(X) != len(y) {
		return nil, nil, fmt.Errorf("smote: %d rows but %d labels", len(X), len(y))
	}
	if k < 1 {
		return nil, nil, fmt.Errorf("smote: k must be positive, got %d", k)
	}

	outX := append([][]float64(nil), X...)
	outY := append([]int(nil), y...)
	label, small, large, ok := minority(y)
	if !ok {
		return outX, outY, nil
	}
	if small < 2 {
		return nil, nil, fmt.Errorf("smote: need at least 2 minority rows, have %d", small)
	}
	k = min(k, small-1)

	var pool []int
	for i, v := range y {
		if v == label {
			pool = append(pool, i)
		}
	}
	neighbours := nearest(X, pool, k)

	rnd := rand.New(rand.NewSource(seed))
	diff := make([]float64, len(X[0]))
	for n := 0; n < large-small; n++ {
		a := rnd.Intn(len(pool))
		b := neighbours[a][rnd.Intn(k)]
		xa, xb := X[pool[a]], X[pool[b]]

		floats.SubTo(diff, xb, xa)
		synth := make([]float64, len(xa))
		floats.AddScaledTo(synth, xa, rnd.Float64(), diff)

		outX = append(outX, synth)
		outY = append(outY, label)
	}
	return outX, outY, nil
}

// nearest returns, for each pool member, the pool positions of its k
// closest other members by Euclidean distance. Ties keep pool order.
func nearest(X [][]float64, pool []int, k int) [][]int {
	out := make([][]int, len(pool))
	type cand struct {
		pos  int
		dist float64
	}
	cands := make([]cand, 0, len(pool)-1)
	for a, i := range pool {
		cands = cands[:0]
		for b, j := range pool {
			if a == b {
				continue
			}
			cands = append(cands, cand{pos: b, dist: floats.Distance(X[i], X[j], 2)})
		}
		sort.SliceStable(cands, func(p, q int) bool { return cands[p].dist < cands[q].dist })
		nn := make([]int, k)
		for m := 0; m < k; m++ {
			nn[m] = cands[m].pos
		}
		out[a] = nn
	}
	return out
}
