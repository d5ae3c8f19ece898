// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package api

import (
	"sort"

	"github.com/tomtom215/fraudscope/internal/dataset"
	"github.com/tomtom215/fraudscope/internal/predict"
)

// MaxRecords bounds a single predict request.
const MaxRecords = 10000

// maxBodyBytes bounds request bodies read by the JSON handlers.
const maxBodyBytes = 32 << 20

// PredictRequest is a batch of rows keyed by source column name, e.g.
// {"records":[{"Card":"0","Amount":"$12.00","Time":"06:21",...}]}.
type PredictRequest struct {
	Records []map[string]string `json:"records" validate:"required,min=1,max=10000"`
}

// ReloadRequest selects the version to load; zero values mean the
// configured model at its latest version.
type ReloadRequest struct {
	Model   string `json:"model" validate:"omitempty,modelname"`
	Version int    `json:"version" validate:"gte=0"`
}

// RowPrediction is one scored row.
type RowPrediction struct {
	Row int `json:"row"`
	predict.Prediction
}

// PredictResponse is the data payload of a predict call.
type PredictResponse struct {
	Model        string          `json:"model"`
	ModelVersion int             `json:"model_version"`
	Predictions  []RowPrediction `json:"predictions"`
}

// HealthResponse is the data payload of the health checks.
type HealthResponse struct {
	Alive        bool    `json:"alive"`
	Ready        bool    `json:"ready"`
	Model        string  `json:"model,omitempty"`
	ModelVersion int     `json:"model_version,omitempty"`
	Uptime       float64 `json:"uptime_seconds"`
}

// table turns records into a table whose header is the sorted union of
// record keys. Keys absent from a record become null cells.
func (req *PredictRequest) table() (*dataset.Table, error) {
	seen := make(map[string]struct{})
	for _, rec := range req.Records {
		for k := range rec {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	rows := make([][]string, len(req.Records))
	for i, rec := range req.Records {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = rec[c]
		}
		rows[i] = row
	}
	return dataset.NewTable(cols, rows)
}
