// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

// Package dataset holds the in-memory tabular model shared by every stage of
// the pipeline, plus CSV reading, writing and the cache-backed Loader.
//
// A Table is an ordered set of named columns over string cells. Null cells
// are stored as the empty string. Tables are never edited in place: Select,
// Take, Filter and WithColumn all return new tables, so a partition handed
// to a trainer cannot change underneath it.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is an immutable, row-major table of string cells.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewTable validates the header and row widths and copies the input.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}

	copied := make([][]string, len(rows))
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i, len(r), len(columns))
		}
		copied[i] = append([]string(nil), r...)
	}

	return &Table{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    copied,
	}, nil
}

// MustTable is NewTable for fixtures known to be well formed.
func MustTable(columns []string, rows [][]string) *Table {
	t, err := NewTable(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns a copy of the header.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// HasColumn reports whether name is in the header.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of name in the header.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Require returns a *MissingColumnError naming every absent column.
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if !t.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnError{Columns: missing}
	}
	return nil
}

// Cell returns the value at row i, column j.
func (t *Table) Cell(i, j int) string { return t.rows[i][j] }

// Get returns the value at row i in the named column. Unknown names yield "".
func (t *Table) Get(i int, name string) string {
	j, ok := t.index[name]
	if !ok {
		return ""
	}
	return t.rows[i][j]
}

// IsNull reports whether the cell at row i in the named column is missing.
func (t *Table) IsNull(i int, name string) bool {
	return t.Get(i, name) == ""
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []string { return append([]string(nil), t.rows[i]...) }

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]string, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, &MissingColumnError{Columns: []string{name}}
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[j]
	}
	return out, nil
}

// Select projects the table onto the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	if err := t.Require(names...); err != nil {
		return nil, err
	}
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		out := make([]string, len(names))
		for k, n := range names {
			out[k] = r[t.index[n]]
		}
		rows[i] = out
	}
	return NewTable(names, rows)
}

// Take returns the rows at the given indices, in that order. Indices may repeat.
func (t *Table) Take(indices []int) *Table {
	rows := make([][]string, len(indices))
	for k, i := range indices {
		rows[k] = append([]string(nil), t.rows[i]...)
	}
	return &Table{columns: t.columns, index: t.index, rows: rows}
}

// Filter keeps the rows for which keep returns true.
func (t *Table) Filter(keep func(i int) bool) *Table {
	var idx []int
	for i := range t.rows {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return t.Take(idx)
}

// WithColumn returns a table with name set to values, replacing an existing
// column of that name or appending a new one.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.rows))
	}

	j, exists := t.index[name]
	cols := t.Columns()
	if !exists {
		cols = append(cols, name)
		j = len(cols) - 1
	}

	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		out := make([]string, len(cols))
		copy(out, r)
		out[j] = values[i]
		rows[i] = out
	}
	return NewTable(cols, rows)
}

// Concat appends the rows of other, which must share the same header.
func (t *Table) Concat(other *Table) (*Table, error) {
	if len(other.columns) != len(t.columns) {
		return nil, fmt.Errorf("cannot concat tables with %d and %d columns", len(t.columns), len(other.columns))
	}
	for i, c := range t.columns {
		if other.columns[i] != c {
			return nil, fmt.Errorf("cannot concat: column %d is %q vs %q", i, c, other.columns[i])
		}
	}
	rows := make([][]string, 0, len(t.rows)+len(other.rows))
	rows = append(rows, t.rows...)
	rows = append(rows, other.rows...)
	return NewTable(t.columns, rows)
}

// ParseNumber parses a numeric cell. Currency symbols, thousands separators
// and surrounding spaces are ignored; an empty cell is 0.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

// FormatNumber renders v in the shortest form that parses back exactly.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
