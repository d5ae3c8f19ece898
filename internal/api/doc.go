// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

/*
Package api serves fitted pipelines over HTTP using the chi router.

Routes:

	POST /api/v1/predict              score tabular records
	POST /api/v1/predict/transaction  score one structured transaction
	GET  /api/v1/models               list stored model versions
	POST /api/v1/models/reload        load the latest (or a given) version
	GET  /api/v1/health/live          liveness
	GET  /api/v1/health/ready         503 until a model is loaded
	GET  /metrics                     Prometheus exposition

Every JSON response uses the APIResponse envelope. The served predictor is
held behind an atomic.Pointer, so a reload never blocks in-flight requests.
*/
package api
