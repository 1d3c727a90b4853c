package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when the request carries no valid session.
	ErrUnauthenticated = errors.New("user is not authenticated")
	// ErrMedicineNotFound is returned when a medicine does not exist or belongs to another user.
	ErrMedicineNotFound = errors.New("medicine not found")
	// ErrUserNotFound is returned when a user lookup by id or username misses.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError reports malformed, missing or conflicting input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// FieldErrors collects per-field validation messages keyed by JSON field name.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return "invalid fields"
}

// AuthError reports rejected credentials or a disabled account. Its message is
// safe to show to clients.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// NewAuthError creates a new authentication error.
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string            `json:"error,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
	Code   string            `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	if len(e.Fields) > 0 {
		return ErrorResponse{Errors: e.Fields, Code: e.Code}
	}
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// IsInternal reports whether the mapped error hides an unexpected failure.
func (e *HTTPError) IsInternal() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognised
// becomes a 500 with a generic message; the cause is never exposed.
func MapErrorToHTTP(err error) *HTTPError {
	var (
		validationErr *ValidationError
		authErr       *AuthError
		fieldErrs     FieldErrors
	)

	switch {
	case errors.As(err, &validationErr):
		return NewHTTPError(http.StatusBadRequest, validationErr.Message, "VALIDATION_ERROR")
	case errors.As(err, &fieldErrs):
		httpErr := NewHTTPError(http.StatusBadRequest, fieldErrs.Error(), "VALIDATION_ERROR")
		httpErr.Fields = fieldErrs
		return httpErr
	case errors.As(err, &authErr):
		return NewHTTPError(http.StatusBadRequest, authErr.Message, "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrMedicineNotFound):
		return NewHTTPError(http.StatusNotFound, ErrMedicineNotFound.Error(), "MEDICINE_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
