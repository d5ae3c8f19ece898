// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package classifier

import (
	"errors"
	"math/rand"
	"sort"
)

// minGain keeps floating point noise from producing splits.
const minGain = 1e-12

// Node is one node of a flattened tree. Leaves have Feature == -1.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	// Positive is the fraction of class 1 training rows that reached the node.
	Positive float64
	Samples  int
}

// Tree is a binary CART classifier using Gini impurity. Rows go left when
// x[Feature] <= Threshold.
type Tree struct {
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	Seed            int64
	Nodes           []Node
}

type sample struct {
	v float64
	y int
}

// Fit grows the tree on the rows of X selected by idx (which may repeat).
func (t *Tree) Fit(X [][]float64, y []int, idx []int) error {
	if len(idx) == 0 {
		return errors.New("tree: no samples")
	}
	p := len(X[idx[0]])
	maxFeatures := t.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > p {
		maxFeatures = p
	}

	b := &builder{
		X:           X,
		y:           y,
		tree:        t,
		maxFeatures: maxFeatures,
		features:    make([]int, p),
		rnd:         rand.New(rand.NewSource(t.Seed)),
		buf:         make([]sample, 0, len(idx)),
	}
	for j := range b.features {
		b.features[j] = j
	}

	t.Nodes = t.Nodes[:0]
	b.grow(append([]int(nil), idx...), 0)
	return nil
}

// Proba returns the class 1 probability for x.
func (t *Tree) Proba(x []float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Feature < 0 {
			return n.Positive
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth returns the length of the longest root-to-leaf path.
func (t *Tree) Depth() int {
	var walk func(i, d int) int
	walk = func(i, d int) int {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return d
		}
		return max(walk(n.Left, d+1), walk(n.Right, d+1))
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	return walk(0, 0)
}

type builder struct {
	X           [][]float64
	y           []int
	tree        *Tree
	maxFeatures int
	features    []int
	rnd         *rand.Rand
	buf         []sample
}

type split struct {
	feature   int
	threshold float64
	gain      float64
}

// grow appends the subtree for idx and returns its node index.
func (b *builder) grow(idx []int, depth int) int {
	pos := 0
	for _, i := range idx {
		pos += b.y[i]
	}
	n := len(idx)
	self := len(b.tree.Nodes)
	b.tree.Nodes = append(b.tree.Nodes, Node{
		Feature:  -1,
		Positive: float64(pos) / float64(n),
		Samples:  n,
	})

	if pos == 0 || pos == n ||
		n < max(b.tree.MinSamplesSplit, 2) ||
		(b.tree.MaxDepth > 0 && depth >= b.tree.MaxDepth) {
		return self
	}

	best, ok := b.bestSplit(idx, pos)
	if !ok {
		return self
	}

	var left, right []int
	for _, i := range idx {
		if b.X[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return self
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	node := &b.tree.Nodes[self]
	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = l
	node.Right = r
	return self
}

// bestSplit draws features in random order. It inspects at least
// maxFeatures non-constant features and keeps going until one yields a
// positive gain.
func (b *builder) bestSplit(idx []int, pos int) (split, bool) {
	p := len(b.features)
	for i := 0; i < p; i++ {
		j := i + b.rnd.Intn(p-i)
		b.features[i], b.features[j] = b.features[j], b.features[i]
	}

	parent := gini(pos, len(idx))
	best := split{feature: -1}
	visited := 0
	for _, f := range b.features {
		if visited >= b.maxFeatures && best.feature >= 0 {
			break
		}
		s, constant := b.scanFeature(idx, f, pos, parent)
		if constant {
			continue
		}
		visited++
		if s.gain > best.gain+minGain {
			best = s
		}
	}
	return best, best.feature >= 0
}

// scanFeature evaluates every threshold between distinct sorted values of f.
func (b *builder) scanFeature(idx []int, f, pos int, parent float64) (split, bool) {
	s := b.buf[:0]
	for _, i := range idx {
		s = append(s, sample{v: b.X[i][f], y: b.y[i]})
	}
	sort.Slice(s, func(a, c int) bool { return s[a].v < s[c].v })
	b.buf = s

	n := len(s)
	if s[0].v == s[n-1].v {
		return split{}, true
	}

	best := split{feature: -1}
	leftPos := 0
	for k := 1; k < n; k++ {
		leftPos += s[k-1].y
		if s[k].v == s[k-1].v {
			continue
		}
		nl, nr := k, n-k
		weighted := (float64(nl)*gini(leftPos, nl) + float64(nr)*gini(pos-leftPos, nr)) / float64(n)
		gain := parent - weighted
		if gain > best.gain+minGain {
			best = split{feature: f, threshold: midpoint(s[k-1].v, s[k].v), gain: gain}
		}
	}
	return best, false
}

// midpoint returns a threshold t with lo <= t < hi. For adjacent floats
// the halfway value rounds up to hi, so lo is used instead.
func midpoint(lo, hi float64) float64 {
	t := lo + (hi-lo)/2
	if t >= hi {
		return lo
	}
	return t
}

func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 1 - p*p - (1-p)*(1-p)
}
