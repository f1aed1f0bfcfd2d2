package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stwalsh4118/homestead/internal/middleware"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
	// HealthCheckTimeout is the timeout for catalog health checks
	HealthCheckTimeout = 2 * time.Second
)

// Pinger checks that the catalog source is reachable. *database.Database
// satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	catalog   Pinger
	startTime time.Time
	source    string
	env       string
}

// NewHealthHandler creates a new HealthHandler instance. A nil catalog means
// the catalog is held in memory and is always ready.
func NewHealthHandler(catalog Pinger, source, env string) *HealthHandler {
	return &HealthHandler{
		catalog:   catalog,
		startTime: time.Now(),
		source:    source,
		env:       env,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status  string `json:"status"`
	Source  string `json:"source"`
	Catalog string `json:"catalog"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	CatalogSource string `json:"catalogSource"`
	Uptime        string `json:"uptime"`
}

// Health handles GET /health endpoint.
// This is a liveness check that always returns 200 OK.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready endpoint.
// Returns 200 OK if the catalog source answers, 503 Service Unavailable otherwise.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.catalog != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
		defer cancel()

		if err := h.catalog.Ping(ctx); err != nil {
			if log := middleware.GetLogger(c); log != nil {
				log.Error("Catalog health check failed", err, map[string]interface{}{
					"source":  h.source,
					"timeout": HealthCheckTimeout.String(),
				})
			}

			c.JSON(http.StatusServiceUnavailable, ReadyResponse{
				Status:  "not_ready",
				Source:  h.source,
				Catalog: "unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, ReadyResponse{
		Status:  "ready",
		Source:  h.source,
		Catalog: "available",
	})
}

// Info handles GET /api/v1/info endpoint.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Version:       APIVersion,
		Environment:   h.env,
		CatalogSource: h.source,
		Uptime:        formatUptime(time.Since(h.startTime)),
	})
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
