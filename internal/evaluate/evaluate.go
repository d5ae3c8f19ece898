// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

// Package evaluate scores binary predictions. The positive class is 1.
package evaluate

import "fmt"

// Confusion holds the four outcome counts of a binary classifier.
type Confusion struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`
}

// Scores bundles the metrics reported per partition.
type Scores struct {
	Accuracy  float64   `json:"accuracy"`
	Recall    float64   `json:"recall"`
	Precision float64   `json:"precision"`
	Confusion Confusion `json:"confusion"`
	Rows      int       `json:"rows"`
}

// NewConfusion counts outcomes. Any non-1 value counts as negative.
func NewConfusion(yTrue, yPred []int) (Confusion, error) {
	var c Confusion
	if len(yTrue) != len(yPred) {
		return c, fmt.Errorf("evaluate: %d labels but %d predictions", len(yTrue), len(yPred))
	}
	for i := range yTrue {
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			c.TP++
		case yTrue[i] == 1:
			c.FN++
		case yPred[i] == 1:
			c.FP++
		default:
			c.TN++
		}
	}
	return c, nil
}

// Accuracy is the share of correct predictions; 0 for empty input.
func (c Confusion) Accuracy() float64 {
	return ratio(c.TP+c.TN, c.TP+c.TN+c.FP+c.FN)
}

// Recall is TP/(TP+FN); 0 when there are no positives.
func (c Confusion) Recall() float64 { return ratio(c.TP, c.TP+c.FN) }

// Precision is TP/(TP+FP); 0 when nothing was predicted positive.
func (c Confusion) Precision() float64 { return ratio(c.TP, c.TP+c.FP) }

// Accuracy compares labels with predictions.
func Accuracy(yTrue, yPred []int) (float64, error) {
	c, err := NewConfusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return c.Accuracy(), nil
}

// Recall compares labels with predictions.
func Recall(yTrue, yPred []int) (float64, error) {
	c, err := NewConfusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return c.Recall(), nil
}

// Precision compares labels with predictions.
func Precision(yTrue, yPred []int) (float64, error) {
	c, err := NewConfusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return c.Precision(), nil
}

// Score computes every metric at once.
func Score(yTrue, yPred []int) (Scores, error) {
	c, err := NewConfusion(yTrue, yPred)
	if err != nil {
		return Scores{}, err
	}
	return Scores{
		Accuracy:  c.Accuracy(),
		Recall:    c.Recall(),
		Precision: c.Precision(),
		Confusion: c,
		Rows:      len(yTrue),
	}, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
