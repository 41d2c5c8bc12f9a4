package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/apperrors"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/validation"
)

// parseJSON decodes a request body into the given request type.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid JSON body: %w", err)
	}
	return req, nil
}

// statusForError maps calculation-pipeline errors to HTTP status codes.
// Client-side problems (missing session, bad dates, overselling) are 400s
// and 404s; anything unrecognized is a server fault.
func statusForError(err error) int {
	var (
		invalidDate   *apperrors.InvalidDateError
		insufficient  *apperrors.InsufficientBalanceError
		invalidConfig *apperrors.InvalidConfigurationError
		validationErr *validation.Error
	)

	switch {
	case errors.Is(err, apperrors.ErrEmptySession), errors.Is(err, apperrors.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.As(err, &invalidDate),
		errors.As(err, &insufficient),
		errors.As(err, &invalidConfig),
		errors.As(err, &validationErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
