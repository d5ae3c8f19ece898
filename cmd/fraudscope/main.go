// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

// Package main is the entry point for the fraudscope command.
//
// Fraudscope trains random forest classifiers for two tabular problems:
// card transaction fraud, and award winners among movie nominees enriched
// with OMDB statistics. Fitted pipelines are versioned in a model directory
// and served over an HTTP API.
//
// # Commands
//
//	fraudscope train   [-data transactions.csv]
//	fraudscope awards  [-nominees nominees_by_year.csv] [-cache nominees_enriched.csv] [-out predictions.csv]
//	fraudscope predict  -in new.csv -out predicted.csv [-model fraud] [-version N]
//	fraudscope serve
//	fraudscope version
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (OMDB_API_KEY, HTTP_PORT, MODEL_DIR, ...)
//   - The JSON credential file (config.json)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// Command flags override the configured file paths.
//
// # Signal Handling
//
// Every command stops on SIGINT and SIGTERM. serve drains in-flight
// requests for the configured shutdown timeout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/fraudscope/internal/config"
	"github.com/tomtom215/fraudscope/internal/logging"
	"github.com/tomtom215/fraudscope/internal/store"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

const usage = `usage: fraudscope <command> [flags]

commands:
  train     train the fraud model on a transactions CSV
  awards    enrich nominees, train the awards model and predict winners
  predict   score a transactions CSV with a stored model
  serve     run the prediction API
  version   print the version
`

type command func(ctx context.Context, cfg *config.Config, args []string) error

var commands = map[string]command{
	"train":   runTrain,
	"awards":  runAwards,
	"predict": runPredict,
	"serve":   runServe,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	name := os.Args[1]
	switch name {
	case "version", "-version", "--version":
		fmt.Println("fraudscope", version)
		return
	case "help", "-h", "-help", "--help":
		fmt.Print(usage)
		return
	}

	run, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", name, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[2:]); err != nil {
		stop()
		logging.Fatal().Err(err).Str("command", name).Msg("Command failed")
	}
}

func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.NewStore(cfg.Models.Dir)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}
	return st, nil
}
