// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/predict", "200"))

	RecordAPIRequest("POST", "/api/v1/predict", "200", 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/predict", "200"))
	if after-before != 1 {
		t.Errorf("api_requests_total increased by %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("api_active_requests = %v, want %v", got, before)
	}
}

func TestRecordPredictions(t *testing.T) {
	pos := PredictionsTotal.WithLabelValues("test-model", "positive")
	neg := PredictionsTotal.WithLabelValues("test-model", "negative")
	p0, n0 := testutil.ToFloat64(pos), testutil.ToFloat64(neg)

	RecordPredictions("test-model", []int{1, 0, 0, 1, 0}, time.Millisecond)

	if got := testutil.ToFloat64(pos) - p0; got != 2 {
		t.Errorf("positive delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(neg) - n0; got != 3 {
		t.Errorf("negative delta = %v, want 3", got)
	}
}

func TestRecordTrainingRun(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status string
	}{
		{"success", nil, "success"},
		{"failure", errors.New("insufficient data"), "failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := TrainingRuns.WithLabelValues("runs-test", tt.status)
			before := testutil.ToFloat64(c)
			RecordTrainingRun("runs-test", time.Second, tt.err)
			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("training_runs_total{status=%s} delta = %v", tt.status, got)
			}
		})
	}
}

func TestGauges(t *testing.T) {
	SetLoadedModel("gauge-test", 4)
	if got := testutil.ToFloat64(ModelLoadedVersion.WithLabelValues("gauge-test")); got != 4 {
		t.Errorf("model_loaded_version = %v", got)
	}

	SetTrainingScore("gauge-test", "test", "recall", 0.75)
	if got := testutil.ToFloat64(TrainingScore.WithLabelValues("gauge-test", "test", "recall")); got != 0.75 {
		t.Errorf("training_score = %v", got)
	}
}

func TestRecordOMDBLookup(t *testing.T) {
	ok := OMDBLookups.WithLabelValues("success")
	bad := OMDBLookups.WithLabelValues("failure")
	ok0, bad0 := testutil.ToFloat64(ok), testutil.ToFloat64(bad)

	RecordOMDBLookup(time.Millisecond, nil)
	RecordOMDBLookup(time.Millisecond, errors.New("not found"))

	if testutil.ToFloat64(ok)-ok0 != 1 || testutil.ToFloat64(bad)-bad0 != 1 {
		t.Error("omdb_lookups_total not incremented per result")
	}
}

func TestRecordRateLimitHit(t *testing.T) {
	c := APIRateLimitHits.WithLabelValues("/api/v1/predict")
	before := testutil.ToFloat64(c)
	RecordRateLimitHit("/api/v1/predict")
	if testutil.ToFloat64(c)-before != 1 {
		t.Error("api_rate_limit_hits_total not incremented")
	}
}
