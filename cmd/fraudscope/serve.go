// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"

	"github.com/tomtom215/fraudscope/internal/api"
	"github.com/tomtom215/fraudscope/internal/config"
	"github.com/tomtom215/fraudscope/internal/logging"
	"github.com/tomtom215/fraudscope/internal/store"
	"github.com/tomtom215/fraudscope/internal/supervisor"
	"github.com/tomtom215/fraudscope/internal/supervisor/services"
)

func runServe(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	model := fs.String("model", cfg.Server.Model, "stored model name to serve")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	handler := api.NewHandler(st, *model, cfg.Server.RequestTimeout)
	if _, err := handler.Reload(ctx, *model, 0); err != nil {
		if !errors.Is(err, store.ErrModelNotFound) {
			return err
		}
		logging.Warn().
			Str("model", *model).
			Str("dir", st.Dir()).
			Msg("No stored model yet, readiness stays false until one is loaded")
	}

	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)))
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if cfg.Models.ReloadInterval > 0 {
		tree.AddModelService(services.NewModelReloadService(
			handler, st, *model, cfg.Models.ReloadInterval, logging.WithComponent("supervisor"),
		))
	}

	logging.Info().
		Str("addr", server.Addr).
		Str("model", *model).
		Str("version", version).
		Msg("Starting fraudscope API")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}
	logging.Info().Msg("Server stopped")
	return nil
}
