package handler

import (
	"net/http"
	"time"

	"inkwell/pkg/database"
	"inkwell/pkg/logger"
	"inkwell/pkg/redis"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db     *database.PostgresDB
	redis  *redis.Client
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.PostgresDB, redis *redis.Client, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  redis,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeData(w, h.logger, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "inkwell",
	})
}

// Ready handles GET /health/ready and verifies backing stores
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := http.StatusOK
	checks := map[string]string{
		"postgres": "ok",
		"redis":    "ok",
	}

	if err := h.db.Health(ctx); err != nil {
		h.logger.WithError(err).Error("Postgres health check failed")
		checks["postgres"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if h.redis == nil {
		checks["redis"] = "not configured"
	} else if err := h.redis.Health(ctx); err != nil {
		h.logger.WithError(err).Error("Redis health check failed")
		checks["redis"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "degraded"
	}

	writeData(w, h.logger, status, HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Service:   "inkwell",
		Checks:    checks,
	})
}
