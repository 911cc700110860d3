package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/parsfiltration/site-backend/internal/queue"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db          *sql.DB
	queueClient queue.Client
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *sql.DB, queueClient queue.Client, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:          db,
		queueClient: queueClient,
		logger:      logger,
	}
}

// HealthStatus represents the health check payload
type HealthStatus struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:   "healthy",
		Services: make(map[string]string),
	}

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("database health check failed", slog.String("error", err.Error()))
		status.Status = "unhealthy"
		status.Services["database"] = "unhealthy"
	} else {
		status.Services["database"] = "healthy"
	}

	if h.queueClient != nil {
		if err := h.queueClient.Health(ctx); err != nil {
			h.logger.Error("queue health check failed", slog.String("error", err.Error()))
			status.Status = "unhealthy"
			status.Services["queue"] = "unhealthy"
		} else {
			status.Services["queue"] = "healthy"
		}
	} else {
		status.Services["queue"] = "not_configured"
	}

	if status.Status == "healthy" {
		respondSuccess(w, status)
	} else {
		respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Data: status})
	}
}
