package handler

import (
	"context"
	"net/http"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/database"
	"github.com/gin-gonic/gin"
)

// DatabaseHealth reports the state of the database
type DatabaseHealth interface {
	Health(ctx context.Context) database.HealthStatus
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	db      DatabaseHealth
	version string
}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler(db DatabaseHealth, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Check handles GET /health; an unreachable database answers 503
func (h *HealthHandler) Check(c *gin.Context) {
	dbStatus := h.db.Health(c.Request.Context())

	status, code := "ok", http.StatusOK
	if !dbStatus.Healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":   status,
		"version":  h.version,
		"database": dbStatus,
	})
}
