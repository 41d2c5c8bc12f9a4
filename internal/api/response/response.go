// Package response provides utilities for sending consistent HTTP responses.
// Calculation endpoints use a status envelope: {"status": "success", "data"}
// on success and {"status": "fail", "message"} on failure.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope wraps calculation responses in the success/fail contract the
// frontend consumes.
type Envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// If data is nil, only the status code is sent.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// RespondSuccess sends a success envelope with the given payload.
func RespondSuccess(w http.ResponseWriter, status int, data interface{}) {
	RespondJSON(w, status, Envelope{Status: "success", Data: data})
}

// RespondFail sends a fail envelope. The details parameter can carry
// field-level errors or additional context and may be nil.
func RespondFail(w http.ResponseWriter, status int, message string, details interface{}) {
	RespondJSON(w, status, Envelope{Status: "fail", Message: message, Details: details})
}
