// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/fraudscope/internal/dataset"
	"github.com/tomtom215/fraudscope/internal/training"
)

// respondPredictError maps prediction failures to status codes: bad input
// is 400, a missing model is 503, a timeout is 503 and anything else is 500.
func respondPredictError(rw *ResponseWriter, err error) {
	var mce *dataset.MissingColumnError
	switch {
	case errors.As(err, &mce):
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeMissingColumns, mce.Error(),
			map[string]interface{}{"columns": mce.Columns})
	case errors.Is(err, training.ErrInvalidRows):
		rw.BadRequest(err.Error())
	case errors.Is(err, errNoModel):
		rw.ServiceUnavailable(ErrCodeModelNotLoaded, "No model is loaded")
	case errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable(ErrCodeServiceUnavailable, "Prediction timed out")
	default:
		rw.InternalError(err)
	}
}
