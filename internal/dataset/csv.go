// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadOptions tunes CSV parsing.
type ReadOptions struct {
	// NullValues are cell literals stored as null (""). Matching is exact.
	NullValues []string

	// Required columns must be present in the header.
	Required []string

	// Path is only used to label errors.
	Path string
}

// ReadCSV parses a header row followed by data rows. Every schema problem is
// reported as a *FileFormatError.
func ReadCSV(r io.Reader, opts ReadOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &FileFormatError{Path: opts.Path, Reason: "empty file, no header row"}
	}
	if err != nil {
		return nil, parseErr(opts.Path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	nulls := make(map[string]struct{}, len(opts.NullValues))
	for _, v := range opts.NullValues {
		nulls[v] = struct{}{}
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseErr(opts.Path, err)
		}
		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			return nil, &FileFormatError{
				Path:   opts.Path,
				Line:   line,
				Reason: fmt.Sprintf("row has %d fields, header has %d", len(rec), len(header)),
			}
		}
		if len(nulls) > 0 {
			for i, v := range rec {
				if _, ok := nulls[v]; ok {
					rec[i] = ""
				}
			}
		}
		rows = append(rows, rec)
	}

	t, err := NewTable(header, rows)
	if err != nil {
		return nil, &FileFormatError{Path: opts.Path, Line: 1, Reason: err.Error()}
	}
	if err := t.Require(opts.Required...); err != nil {
		return nil, &FileFormatError{Path: opts.Path, Line: 1, Reason: err.Error()}
	}
	return t, nil
}

func parseErr(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &FileFormatError{Path: path, Line: pe.Line, Reason: pe.Err.Error()}
	}
	return fmt.Errorf("read %s: %w", path, err)
}

// ReadCSVFile opens path and parses it. A missing file yields *NotFoundError.
func ReadCSVFile(path string, opts ReadOptions) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if errors.Is(err, os.ErrNotExist) {
		return nil, &NotFoundError{Paths: []string{path}}
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	opts.Path = path
	return ReadCSV(f, opts)
}

// WriteCSV writes the header and rows with LF line endings. Output is a pure
// function of the table contents.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := writeRecord(w, cw, t.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.rows {
		if err := writeRecord(w, cw, row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// writeRecord writes one record. A record holding a single empty field is
// written as "" because encoding/csv would emit a blank line, which readers
// skip.
func writeRecord(w io.Writer, cw *csv.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return cw.Write(record)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\"\"\n")
	return err
}

// WriteCSVFile writes t to path through a temp file and rename, so readers
// never observe a partially written file.
func WriteCSVFile(path string, t *Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := WriteCSV(tmp, t); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
