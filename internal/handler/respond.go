package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"inkwell/pkg/errors"
	"inkwell/pkg/logger"
)

// Response is the uniform JSON envelope for every endpoint
type Response struct {
	Success bool           `json:"success"`
	Data    interface{}    `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error payload inside the envelope
type ErrorResponse struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func writeData(w http.ResponseWriter, log *logger.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Success: true, Data: data}); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps AppError categories onto HTTP status codes; anything that
// is not an AppError becomes a generic 500.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		log.WithError(err).Error("Unhandled error")
		appErr = errors.NewInternalError("internal server error", err)
	}

	if appErr.Type == errors.ErrorTypeInternal || appErr.Type == errors.ErrorTypeExternal {
		log.WithError(err).Error("Request failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	response := Response{
		Success: false,
		Error: &ErrorResponse{
			Type:    string(appErr.Type),
			Message: appErr.Message,
			Details: appErr.Details,
		},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.WithError(err).Error("Failed to encode error response")
	}
}

// queryInt reads an integer query parameter with a fallback
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// pagination reads the standard limit/offset query parameters
func pagination(r *http.Request) (limit, offset int) {
	return queryInt(r, "limit", 20), queryInt(r, "offset", 0)
}
