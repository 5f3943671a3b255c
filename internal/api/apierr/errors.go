package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Kimen6931/BlockLocker/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidSign        = "INVALID_SIGN"
	CodeInvalidProfile     = "INVALID_PROFILE"
	CodeProtectionNotFound = "PROTECTION_NOT_FOUND"
	CodeSignNotFound       = "SIGN_NOT_FOUND"
	CodeLookupFailed       = "LOOKUP_FAILED"
	CodeUnavailable        = "UNAVAILABLE"
	CodeTimeout            = "TIMEOUT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusOf returns the HTTP status WriteError would use for err
func StatusOf(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrProtectionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProtectionNotFound, "Protection not found"}}
	case errors.Is(err, model.ErrSignNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSignNotFound, "Sign not found"}}
	case errors.Is(err, model.ErrInvalidSignType):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSign, "Sign type must be private or more_users"}}
	case errors.Is(err, model.ErrNoSigns):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSign, "Protection needs at least one sign"}}
	case errors.Is(err, model.ErrDuplicateSign):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSign, "Two signs share a location"}}
	case errors.Is(err, model.ErrInvalidProfile):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidProfile, err.Error()}}
	case errors.Is(err, model.ErrLookupFailed):
		return &httpError{http.StatusBadGateway, APIError{CodeLookupFailed, "Player directory lookup failed"}}
	case errors.Is(err, model.ErrLoopStopped):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeUnavailable, "Server is shutting down"}}
	case errors.Is(err, context.DeadlineExceeded):
		return &httpError{http.StatusGatewayTimeout, APIError{CodeTimeout, "Request timed out"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
