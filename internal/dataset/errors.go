// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound matches any *NotFoundError via errors.Is.
var ErrNotFound = errors.New("dataset not found")

// NotFoundError means none of the candidate files exist.
type NotFoundError struct {
	Paths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dataset not found: tried %s", strings.Join(e.Paths, ", "))
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// FileFormatError reports a malformed file. Line is 1-based, 0 when unknown.
type FileFormatError struct {
	Path   string
	Line   int
	Reason string
}

func (e *FileFormatError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("malformed file %s at line %d: %s", loc, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed file %s: %s", loc, e.Reason)
}

// MissingColumnError names columns a consumer needed but the table lacks.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column(s): %s", strings.Join(e.Columns, ", "))
}
