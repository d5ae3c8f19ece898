// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered on the default registry through promauto and exposed
at /metrics by the HTTP server:

	curl http://localhost:3000/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Requests in flight (gauge)

Prediction Metrics:
  - predictions_total: Rows scored (counter)
    Labels: model, outcome (positive, negative)
  - prediction_duration_seconds: Batch scoring time (histogram)
    Labels: model
  - model_loaded_version: Version of the model being served (gauge)
    Labels: model

Training Metrics:
  - training_runs_total: Completed runs (counter)
    Labels: model, status (success, failure)
  - training_duration_seconds: Wall time of a run (histogram)
    Labels: model
  - training_score: Latest evaluation scores (gauge)
    Labels: model, partition, metric

OMDB Metrics:
  - omdb_lookups_total: Lookups by result (counter)
    Labels: result (success, failure)
  - omdb_lookup_duration_seconds: Lookup latency (histogram)

# Usage

	start := time.Now()
	// ... handle request ...
	metrics.RecordAPIRequest(r.Method, route, "200", time.Since(start))
*/
package metrics
