// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package training

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fraudscope/internal/evaluate"
	"github.com/tomtom215/fraudscope/internal/logging"
	"github.com/tomtom215/fraudscope/internal/metrics"
	"github.com/tomtom215/fraudscope/internal/store"
)

// Partition names used in reports.
const (
	PartitionTrain      = "train"
	PartitionValidation = "validation"
	PartitionTest       = "test"
)

// Report summarizes one training run.
type Report struct {
	RunID      string                     `json:"run_id"`
	Model      string                     `json:"model"`
	StartedAt  time.Time                  `json:"started_at"`
	FinishedAt time.Time                  `json:"finished_at"`
	Rows       map[string]int             `json:"rows"`
	Resampled  int                        `json:"resampled_rows"`
	Scores     map[string]evaluate.Scores `json:"scores"`
	Features   []string                   `json:"features"`
	Params     map[string]string          `json:"params"`
}

// Result is a fitted pipeline and its report.
type Result struct {
	Pipeline *Pipeline
	Report   Report
}

// JSON renders the report.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Metadata converts the report for the model store.
func (r *Result) Metadata() store.Metadata {
	return store.Metadata{
		RunID:              r.Report.RunID,
		TrainedAt:          r.Report.FinishedAt,
		TrainingRows:       r.Report.Resampled,
		Features:           r.Report.Features,
		Scores:             r.Report.Scores,
		Params:             r.Report.Params,
		TrainingDurationMS: r.Report.Duration().Milliseconds(),
	}
}

func newReport(ctx context.Context, model string, opts Options) (context.Context, *Report) {
	runID := logging.NewID()
	return logging.ContextWithRunID(ctx, runID), &Report{
		RunID:     runID,
		Model:     model,
		StartedAt: time.Now(),
		Rows:      make(map[string]int),
		Scores:    make(map[string]evaluate.Scores),
		Params:    opts.params(),
	}
}

// finish stamps the report and publishes its scores.
func (r *Report) finish(err error) {
	r.FinishedAt = time.Now()
	metrics.RecordTrainingRun(r.Model, r.Duration(), err)
	if err != nil {
		return
	}
	for partition, s := range r.Scores {
		metrics.SetTrainingScore(r.Model, partition, "accuracy", s.Accuracy)
		metrics.SetTrainingScore(r.Model, partition, "recall", s.Recall)
	}
}

// score evaluates the pipeline on already-encoded rows.
func score(p *Pipeline, X [][]float64, y []int) (evaluate.Scores, error) {
	pred, err := p.Model.Predict(X)
	if err != nil {
		return evaluate.Scores{}, err
	}
	return evaluate.Score(y, pred)
}
