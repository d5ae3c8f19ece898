// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order for the optional YAML file.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/fraudscope/config.yaml",
}

// DefaultCredentialPaths are searched in order for the JSON credential file.
var DefaultCredentialPaths = []string{
	"config.json",
	"/etc/fraudscope/config.json",
}

const (
	// ConfigPathEnvVar overrides the YAML config location.
	ConfigPathEnvVar = "CONFIG_PATH"
	// CredentialsPathEnvVar overrides the JSON credential file location.
	CredentialsPathEnvVar = "CREDENTIALS_PATH"
)

func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  10 * time.Second,
			Model:           "fraud",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Data: DataConfig{
			Transactions:    "data/transactions.csv",
			Nominees:        "data/nominees_by_year.csv",
			NomineesCache:   "data/nominees_enriched.csv",
			PredictionsPath: "data/predictions.csv",
			NullValue:       "Null",
		},
		OMDB: OMDBConfig{
			BaseURL:       "http://www.omdbapi.com",
			Timeout:       10 * time.Second,
			RatePerSecond: 10,
		},
		Training: TrainingConfig{
			TrainProportion:      0.6,
			TestProportion:       0.5,
			Seed:                 0,
			Trees:                10,
			AwardsTrees:          100,
			MaxDepth:             0,
			MinSamplesSplit:      2,
			Resample:             "oversample",
			SMOTENeighbors:       5,
			RollingTrainFraction: 0.8,
		},
		Models: ModelsConfig{
			Dir:            "models",
			Keep:           5,
			ReloadInterval: time.Minute,
		},
	}
}

// LoadWithKoanf merges defaults, the YAML file, the JSON credential file and
// the environment, in that order, then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findFile(ConfigPathEnvVar, DefaultConfigPaths); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if path := findFile(CredentialsPathEnvVar, DefaultCredentialPaths); path != "" {
		if err := k.Load(file.Provider(path), kjson.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load credential file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findFile returns the path named by envVar if it exists, otherwise the
// first existing entry of candidates, otherwise "".
func findFile(envVar string, candidates []string) string {
	if p := os.Getenv(envVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.request_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"serve_model":      "server.model",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"transactions_path":   "data.transactions",
	"nominees_path":       "data.nominees",
	"nominees_cache_path": "data.nominees_cache",
	"predictions_path":    "data.predictions",

	"omdb_api_key":  "omdb.api_key",
	"omdb_base_url": "omdb.base_url",
	"omdb_timeout":  "omdb.timeout",
	"omdb_rate":     "omdb.rate_per_second",

	"train_proportion": "training.train_proportion",
	"test_proportion":  "training.test_proportion",
	"train_seed":       "training.seed",
	"forest_trees":     "training.trees",
	"awards_trees":     "training.awards_trees",
	"forest_max_depth": "training.max_depth",
	"resample_method":  "training.resample",

	"model_dir":  "models.dir",
	"model_keep": "models.keep",

	"model_reload_interval": "models.reload_interval",
}

// envTransformFunc maps known environment variables to koanf paths.
// Unknown variables return "" and are ignored by the provider.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
