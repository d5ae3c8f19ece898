// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fraudscope/internal/predict"
)

// ModelReloader swaps the predictor served by the API.
// *api.Handler satisfies it.
type ModelReloader interface {
	Reload(ctx context.Context, name string, version int) (*predict.Predictor, error)
	Predictor() *predict.Predictor
}

// ModelSource reports the versions available for a model.
// *store.Store satisfies it.
type ModelSource interface {
	Refresh() error
	LatestVersion(name string) (int, bool)
}

// ModelReloadService polls the model store and hot-swaps the served
// predictor when a newer version of the model appears.
type ModelReloadService struct {
	reloader ModelReloader
	source   ModelSource
	model    string
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewModelReloadService creates a reload service for model. A non-positive
// interval means one minute.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewModelReloadService(reloader ModelReloader, source ModelSource, model string, interval time.Duration, logger zerolog.Logger) *ModelReloadService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ModelReloadService{
		reloader: reloader,
		source:   source,
		model:    model,
		interval: interval,
		logger:   logger.With().Str("service", "model-reload").Str("model", model).Logger(),
		name:     "model-reload-service",
	}
}

// Serve implements suture.Service. Failed checks are logged and retried on
// the next tick.
func (s *ModelReloadService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("model reload service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("model reload service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if _, err := s.Check(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("model reload check failed")
			}
		}
	}
}

// Check rescans the store and loads the latest version if it is newer than
// the one being served. It reports whether a reload happened.
func (s *ModelReloadService) Check(ctx context.Context) (bool, error) {
	if err := s.source.Refresh(); err != nil {
		return false, fmt.Errorf("refresh model store: %w", err)
	}
	latest, ok := s.source.LatestVersion(s.model)
	if !ok {
		return false, nil
	}

	current := 0
	if p := s.reloader.Predictor(); p != nil && p.Name() == s.model {
		current = p.Version()
	}
	if latest <= current {
		return false, nil
	}

	p, err := s.reloader.Reload(ctx, s.model, latest)
	if err != nil {
		return false, fmt.Errorf("reload %s version %d: %w", s.model, latest, err)
	}
	s.logger.Info().
		Int("from_version", current).
		Int("to_version", p.Version()).
		Msg("model reloaded")
	return true, nil
}

// String returns the service name for logging.
func (s *ModelReloadService) String() string {
	return s.name
}
