package validation

import (
	"strings"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/api/request"
)

// ValidateCalculateRequest validates a calculation request.
//
// Required fields:
//   - session_id: non-empty
//
// Optional fields:
//   - other_income: non-negative if provided
func ValidateCalculateRequest(req request.CalculateRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.SessionID) == "" {
		errors["session_id"] = "session_id is required"
	}

	if req.OtherIncome != nil && *req.OtherIncome < 0 {
		errors["other_income"] = "other_income cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
