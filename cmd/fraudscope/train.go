// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tomtom215/fraudscope/internal/awards"
	"github.com/tomtom215/fraudscope/internal/config"
	"github.com/tomtom215/fraudscope/internal/dataset"
	"github.com/tomtom215/fraudscope/internal/logging"
	"github.com/tomtom215/fraudscope/internal/omdb"
	"github.com/tomtom215/fraudscope/internal/predict"
	"github.com/tomtom215/fraudscope/internal/training"
)

func runTrain(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	data := fs.String("data", cfg.Data.Transactions, "transactions CSV")
	report := fs.String("report", "", "write the training report JSON to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw, err := dataset.ReadCSVFile(*data, dataset.ReadOptions{})
	if err != nil {
		return err
	}
	logging.Info().Str("path", *data).Int("rows", raw.Len()).Msg("Loaded transactions")

	res, err := training.NewTrainer(training.FraudOptions(&cfg.Training)).Train(ctx, raw)
	if err != nil {
		return fmt.Errorf("train fraud model: %w", err)
	}
	return saveResult(ctx, cfg, training.KindFraud, res, *report)
}

// lookupCacheSize bounds the in-memory OMDB memo; nominee files list a few
// thousand distinct films.
const lookupCacheSize = 8192

func runAwards(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("awards", flag.ContinueOnError)
	source := fs.String("nominees", cfg.Data.Nominees, "nominees CSV")
	cache := fs.String("cache", cfg.Data.NomineesCache, "enriched nominees cache CSV")
	out := fs.String("out", cfg.Data.PredictionsPath, "predicted nominees CSV")
	report := fs.String("report", "", "write the training report JSON to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	looker := omdb.NewCachedLooker(omdb.NewClient(&cfg.OMDB), lookupCacheSize)
	loader := awards.NewLoader(*source, *cache, cfg.Data.NullValue, looker)
	if !loader.CacheExists() && cfg.OMDB.APIKey == "" {
		return fmt.Errorf("no cache at %s and no OMDB API key configured", *cache)
	}
	table, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load nominees: %w", err)
	}

	history, nominees, err := awards.Split(table)
	if err != nil {
		return fmt.Errorf("split nominees: %w", err)
	}
	logging.Info().
		Int("history", history.Len()).
		Int("nominees", nominees.Len()).
		Msg("Loaded nominees")

	res, err := training.NewRollingTrainer(training.AwardsOptions(&cfg.Training)).Train(ctx, history)
	if err != nil {
		return fmt.Errorf("train awards model: %w", err)
	}
	if err := saveResult(ctx, cfg, training.KindAwards, res, *report); err != nil {
		return err
	}

	if nominees.Len() == 0 {
		logging.Warn().Msg("No nominees without a result, skipping predictions")
		return nil
	}
	predicted, err := awards.PredictWinners(ctx, res.Pipeline, nominees)
	if err != nil {
		return err
	}
	if err := dataset.WriteCSVFile(*out, predicted); err != nil {
		return err
	}

	winners, err := awards.Winners(predicted)
	if err != nil {
		return err
	}
	for i := 0; i < winners.Len(); i++ {
		logging.Info().
			Str("category", winners.Get(i, awards.ColCategory)).
			Str("name", winners.Get(i, awards.ColName)).
			Str("win_proba", winners.Get(i, awards.ColWinProba)).
			Msg("Predicted winner")
	}
	logging.Info().Str("path", *out).Int("rows", predicted.Len()).Msg("Wrote predictions")
	return nil
}

func runPredict(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	in := fs.String("in", "", "transactions CSV to score")
	out := fs.String("out", "", "output CSV")
	model := fs.String("model", training.KindFraud, "stored model name")
	ver := fs.Int("version", 0, "model version (0 = latest)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("predict: -in and -out are required")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	p, err := predict.Load(ctx, st, *model, *ver)
	if err != nil {
		return err
	}

	src, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = src.Close() }() //nolint:errcheck // read-only file

	dst, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := p.PredictFile(ctx, src, dst); err != nil {
		_ = dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	logging.Info().
		Str("model", p.Name()).
		Int("version", p.Version()).
		Str("path", *out).
		Msg("Wrote predictions")
	return nil
}

// saveResult stores a fitted pipeline, prunes old versions and optionally
// writes the report.
func saveResult(ctx context.Context, cfg *config.Config, name string, res *training.Result, reportPath string) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	meta, err := st.Save(ctx, name, res.Pipeline, res.Metadata())
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	removed, err := st.Prune(ctx, name, cfg.Models.Keep)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to prune old model versions")
	}
	logging.Info().
		Str("model", name).
		Int("version", meta.Version).
		Str("run_id", meta.RunID).
		Int("pruned", removed).
		Msg("Saved model")

	if reportPath == "" {
		return nil
	}
	data, err := res.Report.JSON()
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(reportPath, data, 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
