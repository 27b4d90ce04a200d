package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain-level errors used by the service layer. Wrap them with %w so the
// HTTP layer can classify the failure with errors.Is.
var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// HandleAppError maps service errors onto the JSON error envelope.
func HandleAppError(w http.ResponseWriter, err error) {
	var (
		appErr *AppError
		valErr *ValidationError
	)
	switch {
	case errors.As(err, &appErr):
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	case errors.As(err, &valErr):
		RespondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidation, valErr.Error(), valErr.Details, err)
	case errors.Is(err, ErrNotFound):
		RespondErrorWithCode(w, http.StatusNotFound, ErrCodeNotFound, err.Error(), nil)
	case errors.Is(err, ErrRowVersionConflict):
		RespondErrorWithCode(w, http.StatusConflict, ErrCodeRowVersionConflict, "Resource was modified concurrently; reload and retry", nil, err)
	case errors.Is(err, ErrConflict):
		RespondErrorWithCode(w, http.StatusConflict, ErrCodeConflict, err.Error(), nil)
	case errors.Is(err, ErrInvalidCredentials):
		RespondErrorWithCode(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid username or password", nil)
	default:
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
