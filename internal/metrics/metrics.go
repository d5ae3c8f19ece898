// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Prediction Metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of rows scored",
		},
		[]string{"model", "outcome"}, // "positive", "negative"
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prediction_duration_seconds",
			Help:    "Time to score one batch of rows",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	ModelLoadedVersion = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_loaded_version",
			Help: "Version of the model currently served",
		},
		[]string{"model"},
	)

	// Training Metrics
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_runs_total",
			Help: "Total number of training runs",
		},
		[]string{"model", "status"},
	)

	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "training_duration_seconds",
			Help:    "Duration of training runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		},
		[]string{"model"},
	)

	TrainingScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "training_score",
			Help: "Latest evaluation score per partition",
		},
		[]string{"model", "partition", "metric"}, // metric: "accuracy", "recall"
	)

	// OMDB Metrics
	OMDBLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omdb_lookups_total",
			Help: "Total number of OMDB title lookups",
		},
		[]string{"result"},
	)

	OMDBCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "omdb_cache_hits_total",
			Help: "Total number of OMDB lookups served from memory",
		},
	)

	OMDBLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "omdb_lookup_duration_seconds",
			Help:    "Duration of OMDB lookups",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordPredictions records a scored batch of 0/1 predictions.
func RecordPredictions(model string, predictions []int, duration time.Duration) {
	var pos int
	for _, p := range predictions {
		if p == 1 {
			pos++
		}
	}
	PredictionsTotal.WithLabelValues(model, "positive").Add(float64(pos))
	PredictionsTotal.WithLabelValues(model, "negative").Add(float64(len(predictions) - pos))
	PredictionDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// SetLoadedModel publishes the version being served.
func SetLoadedModel(model string, version int) {
	ModelLoadedVersion.WithLabelValues(model).Set(float64(version))
}

// RecordTrainingRun records the outcome of a training run.
func RecordTrainingRun(model string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	TrainingRuns.WithLabelValues(model, status).Inc()
	TrainingDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// SetTrainingScore publishes one evaluation score.
func SetTrainingScore(model, partition, metric string, value float64) {
	TrainingScore.WithLabelValues(model, partition, metric).Set(value)
}

// RecordOMDBLookup records an OMDB lookup metric
func RecordOMDBLookup(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	OMDBLookups.WithLabelValues(result).Inc()
	OMDBLookupDuration.Observe(duration.Seconds())
}

// RecordOMDBCacheHit counts a lookup answered without a request.
func RecordOMDBCacheHit() {
	OMDBCacheHits.Inc()
}
