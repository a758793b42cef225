package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := map[error]int{
		nil:                                         http.StatusOK,
		ErrNotFound:                                 http.StatusNotFound,
		WithDetail(ErrNotFound, "Course not found"): http.StatusNotFound,
		ErrUnauthorized:                             http.StatusUnauthorized,
		ErrForbidden:                                http.StatusForbidden,
		ErrValidation:                               http.StatusBadRequest,
		ErrConflict:                                 http.StatusConflict,
		ErrServiceUnavailable:                       http.StatusServiceUnavailable,
		ErrExecutionTimeout:                         http.StatusGatewayTimeout,
		&pgconn.PgError{Code: "23505"}:              http.StatusConflict,
		errors.New("disk on fire"):                  http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatusFromError(err), fmt.Sprint(err))
	}
}

func TestDetailFromError(t *testing.T) {
	assert.Equal(t, "Course not found", DetailFromError(WithDetail(ErrNotFound, "Course not found")))
	assert.Equal(t, "Course not found", DetailFromError(fmt.Errorf("service: %w", WithDetail(ErrNotFound, "Course not found"))))
	assert.Equal(t, "Internal server error", DetailFromError(errors.New("pq: connection reset")))
	assert.Equal(t, ErrForbidden.Error(), DetailFromError(ErrForbidden))
}

func TestRespondWithErr(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithErr(rec, WithDetail(ErrBadRequest, "Username already registered"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Username already registered", body.Detail)
}
