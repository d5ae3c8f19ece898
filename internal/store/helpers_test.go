// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package store

import (
	"encoding/gob"
	"os"
)

func writeStoredFile(path string, sf *storedFile) error {
	f, err := os.Create(path) //nolint:gosec // test path
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(sf)
}
