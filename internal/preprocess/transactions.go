// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

// Package preprocess cleans raw card transaction tables into the column
// layout the fraud feature pipeline expects.
//
// Cleaning is idempotent: running Transactions over its own output returns
// the same table, so the predictor can apply it to rows that were already
// cleaned by a caller.
package preprocess

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/fraudscope/internal/dataset"
)

// Column names of the card transaction dataset.
const (
	ColUser          = "User"
	ColCard          = "Card"
	ColTime          = "Time"
	ColHour          = "Hour"
	ColMinute        = "Minute"
	ColAmount        = "Amount"
	ColUseChip       = "Use Chip"
	ColMerchantName  = "Merchant Name"
	ColMerchantCity  = "Merchant City"
	ColMerchantState = "Merchant State"
	ColZip           = "Zip"
	ColMCC           = "MCC"
	ColErrors        = "Errors?"
	ColIsFraud       = "Is Fraud?"

	// ColPredicted is appended by file prediction.
	ColPredicted = "Predicted_Is_Fraud?"
)

// Online is the placeholder for missing merchant location fields.
const Online = "ONLINE"

// NoErrors is the placeholder for a missing Errors? cell.
const NoErrors = "No"

// CategoricalColumns are target encoded by the fraud pipeline.
var CategoricalColumns = []string{
	ColCard, ColMerchantName, ColMerchantState, ColMerchantCity, ColZip,
	ColMCC, ColErrors, ColHour, ColMinute, ColUseChip,
}

// NumericColumns are robust scaled by the fraud pipeline.
var NumericColumns = []string{ColAmount}

// FeatureColumns lists every column the fraud pipeline reads.
func FeatureColumns() []string {
	out := make([]string, 0, len(CategoricalColumns)+len(NumericColumns))
	out = append(out, CategoricalColumns...)
	return append(out, NumericColumns...)
}

// Transactions applies the cleaning rules:
//
//   - Time "HH:MM" becomes Hour and Minute (leading zeros dropped)
//   - Amount loses its currency symbol and becomes a plain decimal
//   - missing Merchant State and Zip become ONLINE; Zip is rendered as an integer
//   - missing Errors? becomes No
//   - Is Fraud?, when present, becomes 0 for No and 1 otherwise
//
// Rows must already carry Hour and Minute when Time is absent.
func Transactions(t *dataset.Table) (*dataset.Table, error) {
	out := t
	var err error

	if t.HasColumn(ColTime) {
		if out, err = splitTime(out); err != nil {
			return nil, err
		}
	}
	if err := out.Require(FeatureColumns()...); err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}

	if out, err = mapColumn(out, ColAmount, normalizeAmount); err != nil {
		return nil, err
	}
	if out, err = mapColumn(out, ColMerchantState, fillOnline); err != nil {
		return nil, err
	}
	if out, err = mapColumn(out, ColZip, normalizeZip); err != nil {
		return nil, err
	}
	if out, err = mapColumn(out, ColErrors, fillNoErrors); err != nil {
		return nil, err
	}
	for _, c := range []string{ColHour, ColMinute} {
		if out, err = mapColumn(out, c, normalizeInt); err != nil {
			return nil, err
		}
	}
	if out.HasColumn(ColIsFraud) {
		if out, err = mapColumn(out, ColIsFraud, normalizeLabel); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Labels extracts a 0/1 label column.
func Labels(t *dataset.Table, column string) ([]int, error) {
	vals, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	y := make([]int, len(vals))
	for i, v := range vals {
		switch v {
		case "0":
			y[i] = 0
		case "1":
			y[i] = 1
		default:
			return nil, fmt.Errorf("row %d: label %q in %s is not 0 or 1", i, v, column)
		}
	}
	return y, nil
}

func splitTime(t *dataset.Table) (*dataset.Table, error) {
	times, err := t.Column(ColTime)
	if err != nil {
		return nil, err
	}
	hours := make([]string, len(times))
	minutes := make([]string, len(times))
	for i, v := range times {
		h, m, err := ParseClock(v)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		hours[i] = strconv.Itoa(h)
		minutes[i] = strconv.Itoa(m)
	}
	out, err := t.WithColumn(ColHour, hours)
	if err != nil {
		return nil, err
	}
	return out.WithColumn(ColMinute, minutes)
}

// ParseClock parses "HH:MM" into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("time %q is not HH:MM", s)
	}
	if hour, err = strconv.Atoi(hh); err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("time %q has an invalid hour", s)
	}
	if minute, err = strconv.Atoi(mm); err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q has an invalid minute", s)
	}
	return hour, minute, nil
}

func mapColumn(t *dataset.Table, name string, fn func(string) (string, error)) (*dataset.Table, error) {
	vals, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		if vals[i], err = fn(v); err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", i, name, err)
		}
	}
	return t.WithColumn(name, vals)
}

func normalizeAmount(v string) (string, error) {
	f, err := dataset.ParseNumber(v)
	if err != nil {
		return "", err
	}
	return dataset.FormatNumber(f), nil
}

func fillOnline(v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return Online, nil
	}
	return v, nil
}

func normalizeZip(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == Online {
		return Online, nil
	}
	// zips that went through a float column come back as "91750.0"
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return v, nil
}

func fillNoErrors(v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return NoErrors, nil
	}
	return v, nil
}

func normalizeInt(v string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return "", fmt.Errorf("not an integer: %q", v)
	}
	return strconv.Itoa(n), nil
}

func normalizeLabel(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "no", "0", "false":
		return "0", nil
	case "":
		return "", fmt.Errorf("missing label")
	default:
		return "1", nil
	}
}
