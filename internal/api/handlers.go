// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fraudscope/internal/logging"
	"github.com/tomtom215/fraudscope/internal/predict"
	"github.com/tomtom215/fraudscope/internal/preprocess"
	"github.com/tomtom215/fraudscope/internal/store"
	"github.com/tomtom215/fraudscope/internal/validation"
)

// errNoModel is returned while no predictor has been loaded.
var errNoModel = errors.New("no model loaded")

// Handler serves the prediction endpoints.
type Handler struct {
	store          *store.Store
	model          string
	requestTimeout time.Duration
	startTime      time.Time

	predictor atomic.Pointer[predict.Predictor]
}

// NewHandler creates a handler serving the named model from st.
// requestTimeout bounds each prediction; zero disables the bound.
func NewHandler(st *store.Store, model string, requestTimeout time.Duration) *Handler {
	return &Handler{
		store:          st,
		model:          model,
		requestTimeout: requestTimeout,
		startTime:      time.Now(),
	}
}

// SetPredictor swaps the served predictor.
func (h *Handler) SetPredictor(p *predict.Predictor) {
	h.predictor.Store(p)
}

// Predictor returns the served predictor, or nil before the first load.
func (h *Handler) Predictor() *predict.Predictor {
	return h.predictor.Load()
}

// Reload loads a model version from the store and serves it. An empty name
// reloads the configured model; version 0 means latest.
func (h *Handler) Reload(ctx context.Context, name string, version int) (*predict.Predictor, error) {
	if name == "" {
		name = h.model
	}
	p, err := predict.Load(ctx, h.store, name, version)
	if err != nil {
		return nil, err
	}
	h.SetPredictor(p)
	return p, nil
}

// Predict scores a batch of tabular records.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req PredictRequest
	if !decodeAndValidate(rw, w, r, &req) {
		return
	}

	p := h.Predictor()
	if p == nil {
		respondPredictError(rw, errNoModel)
		return
	}

	t, err := req.table()
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	proba, err := p.PredictProba(ctx, t)
	if err != nil {
		respondPredictError(rw, err)
		return
	}

	preds := predict.Predictions(proba)
	rows := make([]RowPrediction, len(preds))
	for i, pr := range preds {
		rows[i] = RowPrediction{Row: i, Prediction: pr}
	}

	logging.Ctx(r.Context()).Debug().
		Int("rows", len(rows)).
		Str("model", p.Name()).
		Int("version", p.Version()).
		Msg("Scored records")

	rw.Success(PredictResponse{
		Model:        p.Name(),
		ModelVersion: p.Version(),
		Predictions:  rows,
	})
}

// PredictTransaction scores one structured transaction.
func (h *Handler) PredictTransaction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var tx preprocess.Transaction
	if !decodeAndValidate(rw, w, r, &tx) {
		return
	}

	p := h.Predictor()
	if p == nil {
		respondPredictError(rw, errNoModel)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	pred, err := p.PredictTransaction(ctx, tx)
	if err != nil {
		respondPredictError(rw, err)
		return
	}
	rw.Success(PredictResponse{
		Model:        p.Name(),
		ModelVersion: p.Version(),
		Predictions:  []RowPrediction{{Row: 0, Prediction: pred}},
	})
}

// ListModels returns metadata for every stored version.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	models, err := h.store.ListModels(r.Context())
	if err != nil {
		rw.InternalError(err)
		return
	}
	if models == nil {
		models = []store.Metadata{}
	}
	rw.Success(models)
}

// ReloadModel loads the latest version of the served model, or the model
// and version named in an optional JSON body.
func (h *Handler) ReloadModel(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ReloadRequest
	if !decodeBody(rw, w, r, &req, true) {
		return
	}

	p, err := h.Reload(r.Context(), req.Model, req.Version)
	if err != nil {
		if errors.Is(err, store.ErrModelNotFound) {
			rw.NotFound(err.Error())
			return
		}
		rw.InternalError(err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("model", p.Name()).
		Int("version", p.Version()).
		Msg("Reloaded model")
	rw.Success(h.health())
}

// HealthLive reports that the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.health())
}

// HealthReady reports 503 until a model is loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	status := h.health()
	if !status.Ready {
		rw.Status(http.StatusServiceUnavailable, status)
		return
	}
	rw.Success(status)
}

func (h *Handler) health() HealthResponse {
	status := HealthResponse{
		Alive:  true,
		Uptime: time.Since(h.startTime).Seconds(),
	}
	if p := h.Predictor(); p != nil {
		status.Ready = true
		status.Model = p.Name()
		status.ModelVersion = p.Version()
	}
	return status
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.requestTimeout)
}

// decodeAndValidate reads a required JSON body into dst and validates it.
// It writes the error response and returns false on failure.
func decodeAndValidate(rw *ResponseWriter, w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	return decodeBody(rw, w, r, dst, false)
}

// decodeBody is decodeAndValidate with an optional body. An empty body,
// whether declared by Content-Length or chunked, leaves dst at its zero value.
func decodeBody(rw *ResponseWriter, w http.ResponseWriter, r *http.Request, dst interface{}, optional bool) bool {
	if r.Body != nil && r.Body != http.NoBody {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(dst); err != nil {
			if !optional || !errors.Is(err, io.EOF) {
				rw.BadRequest(fmt.Sprintf("Invalid JSON body: %v", err))
				return false
			}
		}
	} else if !optional {
		rw.BadRequest("Request body is required")
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}
