// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

/*
Package supervisor runs the serve command's long-lived services under a
suture v4 tree.

	RootSupervisor ("fraudscope")
	├── ModelSupervisor ("model-layer")
	│   └── ModelReloadService (polls the store for new versions)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing reload loop restarts on its own without taking the HTTP listener
down with it. Supervisor events are logged through sutureslog onto the
zerolog-backed slog handler.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddModelService(services.NewModelReloadService(handler, st, "fraud", time.Minute, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)
*/
package supervisor
