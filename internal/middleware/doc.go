// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

/*
Package middleware provides the chi middleware the prediction API mounts
ahead of its handlers.

Key Components:

  - Request ID: UUID-based request tracking, propagated into the zerolog
    context so every log line of a request carries request_id
  - Prometheus Metrics: request count, latency and in-flight gauge keyed by
    the matched route pattern

Middleware Stack:

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)

Access the request ID in a handler:

	func handler(w http.ResponseWriter, r *http.Request) {
	    logging.Ctx(r.Context()).Info().Msg("scoring")   // includes request_id
	    id := middleware.GetRequestID(r.Context())
	}

See Also:

  - internal/api: HTTP handlers wrapped by middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
