// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

// Package predict serves a fitted pipeline: table predictions, CSV file
// scoring and single transactions.
package predict

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/fraudscope/internal/classifier"
	"github.com/tomtom215/fraudscope/internal/dataset"
	"github.com/tomtom215/fraudscope/internal/logging"
	"github.com/tomtom215/fraudscope/internal/metrics"
	"github.com/tomtom215/fraudscope/internal/preprocess"
	"github.com/tomtom215/fraudscope/internal/store"
	"github.com/tomtom215/fraudscope/internal/training"
)

// Columns added by Annotate.
const (
	ColFraudProba = "is_fraud_proba"
	ColLegitProba = "is_legit_proba"
)

// Prediction is the verdict for one transaction.
type Prediction struct {
	Label            int     `json:"label"`
	FraudProbability float64 `json:"is_fraud_proba"`
	LegitProbability float64 `json:"is_legit_proba"`
}

// Predictor wraps a fitted pipeline and the store version it came from.
// It holds no mutable state and is safe for concurrent use.
type Predictor struct {
	pipeline *training.Pipeline
	name     string
	version  int
}

// New wraps an in-memory pipeline. Version 0 means unsaved.
func New(p *training.Pipeline, name string, version int) *Predictor {
	return &Predictor{pipeline: p, name: name, version: version}
}

// Load reads a pipeline from the store. Version 0 loads the latest.
func Load(ctx context.Context, st *store.Store, name string, version int) (*Predictor, error) {
	var p training.Pipeline
	meta, err := st.Load(ctx, name, version, &p)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", name, err)
	}
	metrics.SetLoadedModel(name, meta.Version)
	logging.Ctx(ctx).Info().
		Str("model", name).
		Int("version", meta.Version).
		Str("run_id", meta.RunID).
		Msg("Loaded model")
	return New(&p, name, meta.Version), nil
}

// Name returns the store name of the model.
func (p *Predictor) Name() string { return p.name }

// Version returns the store version, or 0 for an unsaved pipeline.
func (p *Predictor) Version() int { return p.version }

// Kind returns the pipeline kind.
func (p *Predictor) Kind() string { return p.pipeline.Kind }

// Predict returns the classifier's labels unchanged.
func (p *Predictor) Predict(ctx context.Context, t *dataset.Table) ([]int, error) {
	start := time.Now()
	labels, err := p.pipeline.Predict(ctx, t)
	if err != nil {
		return nil, err
	}
	metrics.RecordPredictions(p.name, labels, time.Since(start))
	return labels, nil
}

// PredictProba returns the classifier's [P(0), P(1)] rows unchanged.
func (p *Predictor) PredictProba(ctx context.Context, t *dataset.Table) ([][2]float64, error) {
	start := time.Now()
	proba, err := p.pipeline.PredictProba(ctx, t)
	if err != nil {
		return nil, err
	}
	metrics.RecordPredictions(p.name, classifier.Labels(proba), time.Since(start))
	return proba, nil
}

// Annotate returns t with the two class probabilities appended.
func (p *Predictor) Annotate(ctx context.Context, t *dataset.Table) (*dataset.Table, error) {
	proba, err := p.PredictProba(ctx, t)
	if err != nil {
		return nil, err
	}
	fraud := make([]string, len(proba))
	legit := make([]string, len(proba))
	for i, pr := range proba {
		legit[i] = dataset.FormatNumber(pr[0])
		fraud[i] = dataset.FormatNumber(pr[1])
	}
	out, err := t.WithColumn(ColFraudProba, fraud)
	if err != nil {
		return nil, err
	}
	return out.WithColumn(ColLegitProba, legit)
}

// PredictFile reads raw transactions from in, cleans them, and writes them
// to out with a Predicted_Is_Fraud? column.
func (p *Predictor) PredictFile(ctx context.Context, in io.Reader, out io.Writer) error {
	if p.pipeline.Kind != training.KindFraud {
		return fmt.Errorf("file prediction needs a %s model, have %s", training.KindFraud, p.pipeline.Kind)
	}

	raw, err := dataset.ReadCSV(in, dataset.ReadOptions{})
	if err != nil {
		return err
	}
	clean, err := preprocess.Transactions(raw)
	if err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}
	labels, err := p.Predict(ctx, clean)
	if err != nil {
		return err
	}

	col := make([]string, len(labels))
	for i, l := range labels {
		col[i] = fmt.Sprint(l)
	}
	result, err := clean.WithColumn(preprocess.ColPredicted, col)
	if err != nil {
		return err
	}
	return dataset.WriteCSV(out, result)
}

// PredictTransaction classifies a single transaction.
func (p *Predictor) PredictTransaction(ctx context.Context, tx preprocess.Transaction) (Prediction, error) {
	t, err := preprocess.TransactionTable([]preprocess.Transaction{tx})
	if err != nil {
		return Prediction{}, err
	}
	proba, err := p.PredictProba(ctx, t)
	if err != nil {
		return Prediction{}, err
	}
	return toPrediction(proba[0]), nil
}

// Predictions converts probability rows into per-row verdicts.
func Predictions(proba [][2]float64) []Prediction {
	out := make([]Prediction, len(proba))
	for i, pr := range proba {
		out[i] = toPrediction(pr)
	}
	return out
}

func toPrediction(pr [2]float64) Prediction {
	label := 0
	if pr[1] > pr[0] {
		label = 1
	}
	return Prediction{Label: label, FraudProbability: pr[1], LegitProbability: pr[0]}
}
