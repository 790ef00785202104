package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwhitmore/portfolio-backend/types"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	version string
}

func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
	}
}

// LivenessCheck reports that the process is running.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ReadinessCheck reports whether the service can take traffic. Returns 503
// when the database is unreachable.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	health := h.check(c.Request.Context())

	if health.Status == types.HealthStatusDown {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}

// DetailedHealth provides component-level health information.
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.check(c.Request.Context()))
}

func (h *HealthHandler) check(ctx context.Context) types.HealthCheck {
	components := map[string]string{"database": types.HealthStatusUp}
	status := types.HealthStatusUp

	if err := h.db.Ping(ctx); err != nil {
		components["database"] = types.HealthStatusDown
		status = types.HealthStatusDown
	}

	return types.HealthCheck{
		Status:     status,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}
