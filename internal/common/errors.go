package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict") // e.g., course slug already taken
	ErrInternalServer     = errors.New("internal server error")
	ErrValidation         = errors.New("validation failed")
	ErrServiceUnavailable = errors.New("service unavailable") // e.g. sandbox or AI backend down
	ErrJobLockFailed      = errors.New("failed to acquire job lock")
	ErrExecutionTimeout   = errors.New("timed out waiting for execution result")
)

// DetailError carries the user-facing message for a sentinel. Handlers send
// Detail as the response body while errors.Is still matches the sentinel.
type DetailError struct {
	Detail string
	Err    error
}

func (e *DetailError) Error() string { return e.Detail }
func (e *DetailError) Unwrap() error { return e.Err }

// WithDetail wraps a sentinel with the message clients should see.
func WithDetail(sentinel error, detail string) error {
	return &DetailError{Detail: detail, Err: sentinel}
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrServiceUnavailable) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, ErrJobLockFailed) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrExecutionTimeout) {
		return http.StatusGatewayTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" { // Unique violation
			return http.StatusConflict
		}
	}

	return http.StatusInternalServerError
}

// DetailFromError returns the message to put in an error body. Wrapped
// DetailErrors win over the raw error chain text.
func DetailFromError(err error) string {
	var de *DetailError
	if errors.As(err, &de) {
		return de.Detail
	}
	if HTTPStatusFromError(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
