// Package respond writes JSON bodies and maps domain errors to statuses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/calculator"
	"github.com/MrJamesThe3rd/bakery/internal/delivery"
	"github.com/MrJamesThe3rd/bakery/internal/export"
	"github.com/MrJamesThe3rd/bakery/internal/http/request"
	"github.com/MrJamesThe3rd/bakery/internal/importer"
	"github.com/MrJamesThe3rd/bakery/internal/purchase"
	"github.com/MrJamesThe3rd/bakery/internal/registry"
	"github.com/MrJamesThe3rd/bakery/internal/snapshot"
	"github.com/MrJamesThe3rd/bakery/internal/transaction"
	"github.com/MrJamesThe3rd/bakery/internal/validation"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Status picks the HTTP status for err.
func Status(err error) int {
	switch {
	case errors.Is(err, delivery.ErrNotFound),
		errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, purchase.ErrNotFound),
		errors.Is(err, snapshot.ErrNotFound),
		errors.Is(err, calculator.ErrSaveNotFound),
		errors.Is(err, registry.ErrNotFound),
		errors.Is(err, book.ErrUnknownRegistry):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrDuplicate),
		errors.Is(err, snapshot.ErrNotDeleted):
		return http.StatusConflict
	case errors.Is(err, request.ErrMalformed),
		errors.Is(err, snapshot.ErrConfirmationMismatch):
		return http.StatusBadRequest
	case errors.Is(err, book.ErrCooldown):
		return http.StatusTooManyRequests
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, delivery.ErrUnknownField),
		errors.Is(err, purchase.ErrUnknownField),
		errors.Is(err, calculator.ErrNothingToCalculate),
		errors.Is(err, calculator.ErrPiecesRequired),
		errors.Is(err, importer.ErrUnknownFormat),
		errors.Is(err, export.ErrUnknownFormat),
		errors.Is(err, export.ErrNothingToExport):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as plain text. Unmapped errors are logged and hidden
// behind "internal error".
func Error(w http.ResponseWriter, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", status)

		return
	}

	http.Error(w, err.Error(), status)
}
