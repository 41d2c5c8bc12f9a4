// Package apperrors defines the error taxonomy shared by the calculation
// engine and the HTTP layer. Handlers dispatch on these with errors.Is and
// errors.As to pick response codes.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain entity errors represent missing entities in the system.
var (
	// ErrEmptySession indicates that no transactions exist for the given session.
	ErrEmptySession = errors.New("no transactions found for session")

	// ErrSessionNotFound indicates that a session with the given ID does not exist.
	ErrSessionNotFound = errors.New("session not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

// InvalidDateError indicates that a transaction's date cannot be parsed or is
// absent, so the transaction cannot be assigned to a tax year. It aborts the
// whole calculation.
type InvalidDateError struct {
	Index int    // position of the transaction in the session's ordered list
	Value string // raw date value, if any
}

func (e *InvalidDateError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("transaction %d has no parseable date", e.Index)
	}
	return fmt.Sprintf("transaction %d has invalid date %q", e.Index, e.Value)
}

// InsufficientBalanceError indicates a disposal exceeding tracked holdings for
// an asset at that point in the FIFO timeline. The calculation aborts rather
// than under-reporting gains.
type InsufficientBalanceError struct {
	Asset     string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for %s: trying to sell %s but only have %s available",
		e.Asset, e.Requested.String(), e.Available.String())
}

// InvalidConfigurationError indicates negative or non-monotonic tax
// parameters. It is raised before any transaction is processed.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return "invalid tax configuration: " + e.Reason
}
