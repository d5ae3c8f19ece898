// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package evaluate

import "testing"

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		yTrue, yPred  []int
		acc, rec, pre float64
	}{
		{"perfect", []int{0, 1, 1, 0}, []int{0, 1, 1, 0}, 1, 1, 1},
		{"all positive", []int{0, 1, 0, 0}, []int{1, 1, 1, 1}, 0.25, 1, 0.25},
		{"all negative", []int{0, 1, 0, 1}, []int{0, 0, 0, 0}, 0.5, 0, 0},
		{"no positives", []int{0, 0}, []int{0, 1}, 0.5, 0, 0},
		{"mixed", []int{1, 1, 1, 1, 0, 0}, []int{1, 1, 1, 0, 1, 0}, 4.0 / 6, 0.75, 0.75},
		{"empty", nil, nil, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := Score(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatal(err)
			}
			if s.Accuracy != tt.acc || s.Recall != tt.rec || s.Precision != tt.pre {
				t.Errorf("Score() = acc %v rec %v pre %v, want %v %v %v",
					s.Accuracy, s.Recall, s.Precision, tt.acc, tt.rec, tt.pre)
			}
			for _, v := range []float64{s.Accuracy, s.Recall, s.Precision} {
				if v < 0 || v > 1 {
					t.Errorf("metric %v outside [0,1]", v)
				}
			}
		})
	}
}

func TestConfusion(t *testing.T) {
	t.Parallel()

	c, err := NewConfusion([]int{1, 1, 0, 0, 1}, []int{1, 0, 1, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if c != (Confusion{TP: 2, FN: 1, FP: 1, TN: 1}) {
		t.Errorf("NewConfusion() = %+v", c)
	}
}

func TestLengthMismatch(t *testing.T) {
	t.Parallel()

	if _, err := Accuracy([]int{1}, nil); err == nil {
		t.Error("Accuracy: expected error")
	}
	if _, err := Recall([]int{1}, []int{1, 0}); err == nil {
		t.Error("Recall: expected error")
	}
	if _, err := Precision(nil, []int{0}); err == nil {
		t.Error("Precision: expected error")
	}
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	acc, _ := Accuracy([]int{1, 0}, []int{1, 1})
	rec, _ := Recall([]int{1, 0}, []int{1, 1})
	pre, _ := Precision([]int{1, 0}, []int{1, 1})
	if acc != 0.5 || rec != 1 || pre != 0.5 {
		t.Errorf("got acc %v rec %v pre %v", acc, rec, pre)
	}
}
