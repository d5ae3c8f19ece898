// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

/*
Package config loads Fraudscope configuration.

Sources are layered with koanf, lowest priority first:

  - built-in defaults
  - an optional YAML file (CONFIG_PATH, or config.yaml in the working directory)
  - the JSON credential file (CREDENTIALS_PATH, or config.json), which carries
    the movie lookup API key as {"omdb": {"api_key": "..."}}
  - environment variables such as OMDB_API_KEY, HTTP_PORT, MODEL_DIR

Load validates the merged result before returning it.
*/
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the full application configuration.
type Config struct {
	Logging  LoggingConfig  `koanf:"logging"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Data     DataConfig     `koanf:"data"`
	OMDB     OMDBConfig     `koanf:"omdb"`
	Training TrainingConfig `koanf:"training"`
	Models   ModelsConfig   `koanf:"models"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ServerConfig holds HTTP server settings for the serve command.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// RequestTimeout bounds a single prediction request.
	RequestTimeout time.Duration `koanf:"request_timeout"`
	// Model is the stored model name served by /api/v1/predict.
	Model string `koanf:"model"`
}

// SecurityConfig holds CORS and rate limiting for the HTTP API.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DataConfig holds dataset file locations.
type DataConfig struct {
	Transactions    string `koanf:"transactions"`
	Nominees        string `koanf:"nominees"`
	NomineesCache   string `koanf:"nominees_cache"`
	PredictionsPath string `koanf:"predictions"`
	// NullValue is the literal treated as a missing cell in source CSVs.
	NullValue string `koanf:"null_value"`
}

// OMDBConfig configures the movie lookup client.
type OMDBConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
	// RatePerSecond caps outbound lookups; 0 disables the limiter.
	RatePerSecond float64 `koanf:"rate_per_second"`
}

// TrainingConfig holds split, resampling and forest parameters.
type TrainingConfig struct {
	TrainProportion float64 `koanf:"train_proportion"`
	TestProportion  float64 `koanf:"test_proportion"`
	Seed            int64   `koanf:"seed"`
	Trees           int     `koanf:"trees"`
	AwardsTrees     int     `koanf:"awards_trees"`
	MaxDepth        int     `koanf:"max_depth"`
	MinSamplesSplit int     `koanf:"min_samples_split"`
	// Resample is one of oversample, smote, none.
	Resample string `koanf:"resample"`
	// SMOTENeighbors is k for SMOTE.
	SMOTENeighbors int `koanf:"smote_neighbors"`
	// RollingTrainFraction is the share of ceremony groups used for training.
	RollingTrainFraction float64 `koanf:"rolling_train_fraction"`
}

// ModelsConfig controls the on-disk model store.
type ModelsConfig struct {
	Dir string `koanf:"dir"`
	// Keep is how many versions per model survive pruning after a save.
	Keep int `koanf:"keep"`
	// ReloadInterval is how often serve checks the store for a newer
	// version; 0 disables polling.
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Load is the entry point used by the CLI.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
