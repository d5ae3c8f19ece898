// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

/*
Package services provides suture.Service wrappers for fraudscope components.

Each wrapper translates a component lifecycle into suture's context-aware
Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Model Reload (ModelReloadService):
  - Polls the model store on an interval
  - Hot-swaps the served predictor when a newer version is saved
  - Failed checks are logged and retried on the next tick

# Usage Example

	tree, _ := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())

	handler := api.NewHandler(st, "fraud", 30*time.Second)
	tree.AddModelService(services.NewModelReloadService(handler, st, "fraud", time.Minute, zlog))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	tree.Serve(ctx)

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

# See Also

  - internal/supervisor: SupervisorTree that manages these services
  - github.com/thejerf/suture/v4: Underlying supervision library
*/
package services
