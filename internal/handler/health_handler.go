package handler

import (
	"net/http"
	"time"

	"ballotbox/pkg/database"
	"ballotbox/pkg/redis"

	"go.uber.org/zap"
)

// HealthHandler reports liveness plus the state of the storage backends.
type HealthHandler struct {
	db     *database.PostgresDB
	redis  *redis.Client
	logger *zap.Logger
}

func NewHealthHandler(db *database.PostgresDB, redisClient *redis.Client, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "ballotbox",
		Checks:    map[string]string{},
	}

	if h.db != nil {
		if err := h.db.Health(ctx); err != nil {
			h.logger.Warn("Database health check failed", zap.Error(err))
			response.Status = "degraded"
			response.Checks["database"] = "down"
		} else {
			response.Checks["database"] = "up"
		}
	}

	if h.redis != nil {
		if err := h.redis.Health(ctx); err != nil {
			h.logger.Warn("Redis health check failed", zap.Error(err))
			response.Status = "degraded"
			response.Checks["redis"] = "down"
		} else {
			response.Checks["redis"] = "up"
		}
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, response)
}
