// Package health provides the health check endpoint.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BhargavGarge/devpulse/internal/database/database"
)

const checkTimeout = 5 * time.Second

// Integrations describes how optional external collaborators are configured.
type Integrations struct {
	GitHubAuthenticated bool
	AdvisorEnabled      bool
}

// Handler handles health check requests.
type Handler struct {
	db           *gorm.DB
	integrations Integrations
	logger       *zap.SugaredLogger
}

// New creates a new health handler instance.
func New(db *gorm.DB, integrations Integrations, logger *zap.SugaredLogger) *Handler {
	return &Handler{db: db, integrations: integrations, logger: logger}
}

// Response represents health check response.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Pool   *PoolStats        `json:"pool,omitempty"`
}

// PoolStats is a subset of the database connection pool statistics.
type PoolStats struct {
	MaxOpenConnections int   `json:"max_open_connections"`
	OpenConnections    int   `json:"open_connections"`
	InUse              int   `json:"in_use"`
	Idle               int   `json:"idle"`
	WaitCount          int64 `json:"wait_count"`
}

// RegisterRoutes registers GET /health.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", h.Check)
}

// Check handles GET /health. Only the database decides the status code;
// integrations are reported for visibility.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	checks := map[string]string{
		"database": "ok",
		"github":   "unauthenticated",
		"advisor":  "disabled",
	}
	if h.integrations.GitHubAuthenticated {
		checks["github"] = "authenticated"
	}
	if h.integrations.AdvisorEnabled {
		checks["advisor"] = "enabled"
	}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "error", err)
		checks["database"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, Response{Status: "unhealthy", Checks: checks})
		return
	}

	resp := Response{Status: "ok", Checks: checks}
	if stats, err := database.GetStats(h.db); err == nil {
		resp.Pool = &PoolStats{
			MaxOpenConnections: stats.MaxOpenConnections,
			OpenConnections:    stats.OpenConnections,
			InUse:              stats.InUse,
			Idle:               stats.Idle,
			WaitCount:          stats.WaitCount,
		}
	}
	c.JSON(http.StatusOK, resp)
}
