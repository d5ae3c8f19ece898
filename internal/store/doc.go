// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

// Package store provides versioned persistence for trained pipelines.
//
// # Overview
//
// The store provides:
//   - Gob serialization of the fitted pipeline
//   - Gzip compression to reduce storage footprint
//   - SHA-256 checksums for data integrity verification
//   - Monotonic version numbers per model name
//   - Pruning of old versions
//
// # Storage Format
//
//	filename: {model_name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (run id, scores, feature names, timestamps)
//	  - CompressedData (gzip-compressed gob-encoded pipeline)
//
// Files are written to a temporary name and renamed into place, so a
// concurrent reader never observes a partial model.
//
// # Usage Example
//
//	st, err := store.NewStore("models")
//	if err != nil {
//	    return err
//	}
//	meta, err := st.Save(ctx, "fraud", pipeline, store.Metadata{RunID: runID})
//
//	var p training.Pipeline
//	meta, err = st.Load(ctx, "fraud", 0, &p) // 0 loads the latest version
package store
