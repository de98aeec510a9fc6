package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewValidationError("title is required", nil)
	assert.Equal(t, "validation: title is required", err.Error())

	wrapped := NewInternalError("query failed", errors.New("connection reset"))
	assert.Equal(t, "internal: query failed (connection reset)", wrapped.Error())
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantType   ErrorType
		wantStatus int
	}{
		{name: "validation", err: NewValidationError("bad", nil), wantType: ErrorTypeValidation, wantStatus: http.StatusBadRequest},
		{name: "not found", err: NewNotFoundError("gone"), wantType: ErrorTypeNotFound, wantStatus: http.StatusNotFound},
		{name: "conflict", err: NewConflictError("dup"), wantType: ErrorTypeConflict, wantStatus: http.StatusBadRequest},
		{name: "internal", err: NewInternalError("boom", nil), wantType: ErrorTypeInternal, wantStatus: http.StatusInternalServerError},
		{name: "external", err: NewExternalError("gateway", nil), wantType: ErrorTypeExternal, wantStatus: http.StatusBadGateway},
		{name: "rate limit", err: NewRateLimitError("slow down"), wantType: ErrorTypeRateLimit, wantStatus: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("no rows")
	err := NewInternalError("lookup failed", cause)

	assert.True(t, errors.Is(err, cause))
}

func TestAsAppError(t *testing.T) {
	appErr := NewNotFoundError("missing")

	// direct
	got, ok := AsAppError(appErr)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeNotFound, got.Type)

	// buried in a wrap chain
	wrapped := fmt.Errorf("handler: %w", appErr)
	got, ok = AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeNotFound, got.Type)

	// not an AppError
	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestDetails(t *testing.T) {
	err := NewValidationError("invalid currency", map[string]interface{}{
		"currency": "DOGE",
	})
	assert.Equal(t, "DOGE", err.Details["currency"])
}
