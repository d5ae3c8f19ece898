// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package preprocess

import (
	"strconv"
	"strings"

	"github.com/tomtom215/fraudscope/internal/dataset"
)

// Transaction is a single card transaction as entered by a caller, already
// split into the fields the fraud pipeline reads.
type Transaction struct {
	Card          int      `json:"card" validate:"gte=0"`
	Amount        float64  `json:"amount"`
	MerchantName  string   `json:"merchant_name" validate:"required"`
	MerchantCity  string   `json:"merchant_city"`
	MerchantState string   `json:"merchant_state"`
	Zip           string   `json:"zip"`
	MCC           int      `json:"mcc" validate:"gte=0"`
	Errors        []string `json:"errors"`
	Hour          int      `json:"hour" validate:"gte=0,lte=23"`
	Minute        int      `json:"minute" validate:"gte=0,lte=59"`
	// UseChip is the transaction type, e.g. "Chip Transaction".
	UseChip string `json:"use_chip" validate:"required"`
}

// TransactionTable renders transactions as a cleaned table. Multiple errors
// are joined with commas as in the source data.
func TransactionTable(txs []Transaction) (*dataset.Table, error) {
	cols := FeatureColumns()
	rows := make([][]string, len(txs))
	for i, tx := range txs {
		values := map[string]string{
			ColCard:          strconv.Itoa(tx.Card),
			ColMerchantName:  tx.MerchantName,
			ColMerchantState: tx.MerchantState,
			ColMerchantCity:  tx.MerchantCity,
			ColZip:           tx.Zip,
			ColMCC:           strconv.Itoa(tx.MCC),
			ColErrors:        strings.Join(tx.Errors, ","),
			ColHour:          strconv.Itoa(tx.Hour),
			ColMinute:        strconv.Itoa(tx.Minute),
			ColUseChip:       tx.UseChip,
			ColAmount:        dataset.FormatNumber(tx.Amount),
		}
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = values[c]
		}
		rows[i] = row
	}

	t, err := dataset.NewTable(cols, rows)
	if err != nil {
		return nil, err
	}
	return Transactions(t)
}
