// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package config

import (
	"fmt"

	"github.com/tomtom215/fraudscope/internal/logging"
)

// Validate checks ranges and enumerations across all sections.
// The OMDB API key is not required here; only the awards command needs it.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateTraining(); err != nil {
		return err
	}
	if err := c.validateOMDB(); err != nil {
		return err
	}
	return c.validateModels()
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.Model == "" {
		return fmt.Errorf("SERVE_MODEL must not be empty")
	}
	if !c.Security.RateLimitDisabled && c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1 when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateTraining() error {
	t := c.Training
	if t.TrainProportion <= 0 || t.TrainProportion >= 1 {
		return fmt.Errorf("TRAIN_PROPORTION must be in (0,1), got %v", t.TrainProportion)
	}
	if t.TestProportion <= 0 || t.TestProportion >= 1 {
		return fmt.Errorf("TEST_PROPORTION must be in (0,1), got %v", t.TestProportion)
	}
	if t.RollingTrainFraction <= 0 || t.RollingTrainFraction > 1 {
		return fmt.Errorf("training.rolling_train_fraction must be in (0,1], got %v", t.RollingTrainFraction)
	}
	if t.Trees < 1 || t.AwardsTrees < 1 {
		return fmt.Errorf("FOREST_TREES and AWARDS_TREES must be at least 1")
	}
	if t.MaxDepth < 0 {
		return fmt.Errorf("FOREST_MAX_DEPTH must not be negative")
	}
	if t.MinSamplesSplit < 2 {
		return fmt.Errorf("training.min_samples_split must be at least 2")
	}
	switch t.Resample {
	case "oversample", "smote", "none":
	default:
		return fmt.Errorf("RESAMPLE_METHOD must be one of: oversample, smote, none; got %q", t.Resample)
	}
	if t.Resample == "smote" && t.SMOTENeighbors < 1 {
		return fmt.Errorf("training.smote_neighbors must be at least 1")
	}
	return nil
}

func (c *Config) validateOMDB() error {
	if c.OMDB.BaseURL == "" {
		return fmt.Errorf("OMDB_BASE_URL must not be empty")
	}
	if c.OMDB.Timeout <= 0 {
		return fmt.Errorf("OMDB_TIMEOUT must be positive")
	}
	if c.OMDB.RatePerSecond < 0 {
		return fmt.Errorf("OMDB_RATE must not be negative")
	}
	return nil
}

func (c *Config) validateModels() error {
	if c.Models.Dir == "" {
		return fmt.Errorf("MODEL_DIR must not be empty")
	}
	if c.Models.Keep < 1 {
		return fmt.Errorf("MODEL_KEEP must be at least 1")
	}
	if c.Models.ReloadInterval < 0 {
		return fmt.Errorf("MODEL_RELOAD_INTERVAL must not be negative")
	}
	return nil
}
