package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/pkg/errors"
	"inkwell/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New("error")
	require.NoError(t, err)
	return log
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	writeData(rec, testLogger(t), http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "abc", data["id"])
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "validation",
			err:        errors.NewValidationError("bad input", map[string]interface{}{"field": "title"}),
			wantStatus: http.StatusBadRequest,
			wantType:   "validation",
		},
		{
			name:       "not found",
			err:        errors.NewNotFoundError("gone"),
			wantStatus: http.StatusNotFound,
			wantType:   "not_found",
		},
		{
			name:       "conflict",
			err:        errors.NewConflictError("duplicate"),
			wantStatus: http.StatusBadRequest,
			wantType:   "conflict",
		},
		{
			name:       "rate limit",
			err:        errors.NewRateLimitError("slow down"),
			wantStatus: http.StatusTooManyRequests,
			wantType:   "rate_limit",
		},
		{
			name:       "external",
			err:        errors.NewExternalError("gateway unavailable", nil),
			wantStatus: http.StatusBadGateway,
			wantType:   "external",
		},
		{
			name:       "plain error becomes internal",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantType:   "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, testLogger(t), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
		})
	}
}

func TestWriteError_Details(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, testLogger(t), errors.NewValidationError("bad action", map[string]interface{}{
		"action_type": "upvote",
	}))

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "upvote", resp.Error.Details["action_type"])
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{url: "/?limit=50", want: 50},
		{url: "/", want: 20},
		{url: "/?limit=abc", want: 20},
		{url: "/?limit=-3", want: -3},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.url, nil)
		assert.Equal(t, tt.want, queryInt(r, "limit", 20), tt.url)
	}
}

func TestPagination(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=5&offset=10", nil)
	limit, offset := pagination(r)
	assert.Equal(t, 5, limit)
	assert.Equal(t, 10, offset)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	limit, offset = pagination(r)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)
}

func TestRealIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:43210"
	assert.Equal(t, "10.0.0.1", realIP(r))

	// X-Real-IP beats the socket address
	r.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", realIP(r))

	// the first X-Forwarded-For hop beats everything
	r.Header.Set("X-Forwarded-For", "198.51.100.7, 203.0.113.9")
	assert.Equal(t, "198.51.100.7", realIP(r))
}
