package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"barinalp/internal/config"
)

// Pinger checks the storage backend. Nil means in-memory storage.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsReporter exposes connection pool statistics.
type StatsReporter interface {
	Stats() map[string]any
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	app    config.App
	pinger Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(app config.App, pinger Pinger) *HealthHandler {
	return &HealthHandler{app: app, pinger: pinger}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.pinger == nil {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"checks": map[string]string{"database": "memory"},
		})
		return
	}

	if err := h.pinger.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{
				"database": "unhealthy: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"database": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	body := gin.H{
		"app":     h.app.Name,
		"version": h.app.Version,
		"storage": "memory",
	}
	if h.pinger != nil {
		body["storage"] = "postgres"
	}
	if stats, ok := h.pinger.(StatsReporter); ok {
		body["database"] = stats.Stats()
	}
	c.JSON(http.StatusOK, body)
}
