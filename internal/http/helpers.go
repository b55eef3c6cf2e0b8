package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"huku/internal/core"
	"huku/internal/ledger"
	"huku/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode error", "error", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			"status", status, "method", r.Method, "url", r.URL.Path, "error", msg)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// respondDomainError maps ledger and validation errors to HTTP statuses:
// missing entities are 404, still-referenced entities are 409, rejected
// input is 422, everything else is a 500.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrConflict):
		respondError(w, r, http.StatusConflict, err.Error())
	case isValidationError(err):
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, r, http.StatusInternalServerError, err.Error())
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidDate,
		core.ErrInvalidAmount,
		core.ErrInvalidQuantity,
		core.ErrInvalidChicks,
		core.ErrEmptyName,
		core.ErrEmptyDescription,
		core.ErrEmptyCategory,
		core.ErrInvalidFeedType,
		core.ErrInvalidSaleType,
		core.ErrInvalidTxType,
		core.ErrInvalidCurrency,
		services.ErrMortalityExceedsFlock,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// decodeJSON reads a request body into dst, rejecting unknown fields so
// client typos surface as errors instead of silent zero values.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// pathID extracts the {id} path segment as an int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// parseMoney converts a decimal string like "12.50" to a Money value.
func parseMoney(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(strings.TrimSpace(s))
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
