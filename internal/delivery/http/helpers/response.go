package helpers

import (
	"encoding/json"
	"net/http"

	"chipin/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeInternalError = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// OutcomeData is the data payload of a workflow response: the user-facing
// outcome and, for creations, the created resource.
// swagger:model OutcomeData
type OutcomeData struct {
	Outcome *domain.Outcome `json:"outcome"`
	Result  any             `json:"result,omitempty"`
}

func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, APIResponse{Data: data})
}

func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, APIResponse{Error: &APIError{Code: code, Message: message}})
}

// WriteOutcome writes a denied outcome as 403 with its message as the error.
// Any other outcome is written with statusCode.
func WriteOutcome(w http.ResponseWriter, statusCode int, outcome *domain.Outcome, result any) {
	if outcome.Failed() {
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, outcome.Message)
		return
	}
	WriteJSONSuccess(w, statusCode, OutcomeData{Outcome: outcome, Result: result})
}

func writeJSON(w http.ResponseWriter, statusCode int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
