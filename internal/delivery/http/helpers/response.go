package helpers

import (
	"encoding/json"
	"net/http"

	"socialhub/internal/domain"
)

// StatusError is the status value of every error envelope.
const StatusError = "error"

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest      = "bad_request"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeForbidden       = "forbidden"
	ErrCodeNotFound        = "not_found"
	ErrCodeConflict        = "conflict"
	ErrCodeValidationError = "validation_error"
	ErrCodeInternalError   = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// APIResponse is the standardized envelope for all non-paged API responses.
// On success Status is "success" and Data is set; on error Status is "error"
// and Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Status  string    `json:"status"`
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type successBody struct {
	Status  string `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode and encodes body.
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSONSuccess writes a success envelope carrying data. data is always
// present in the body, so false and 0 survive encoding.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	WriteJSON(w, statusCode, successBody{Status: domain.StatusSuccess, Data: data})
}

// WriteJSONMessage writes a success envelope with a human readable message and null data.
func WriteJSONMessage(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, successBody{Status: domain.StatusSuccess, Message: message})
}

// WriteJSONError writes an error envelope with the given code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSONErrorDetails(w, statusCode, code, message, nil)
}

// WriteJSONErrorDetails is WriteJSONError with a details payload.
func WriteJSONErrorDetails(w http.ResponseWriter, statusCode int, code, message string, details any) {
	WriteJSON(w, statusCode, APIResponse{
		Status: StatusError,
		Error:  &APIError{Code: code, Message: message, Details: details},
	})
}
