package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/patriot/pkg/api/types"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	fleet Fleet
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(fleet Fleet) *HealthHandler {
	return &HealthHandler{fleet: fleet}
}

// Health handles GET /health. It reports degraded until the cloud login succeeds.
func (h *HealthHandler) Health(c *gin.Context) {
	cloudStatus := "logged_out"
	if h.fleet.IsLoggedIn() {
		cloudStatus = "logged_in"
	}

	status := "healthy"
	httpStatus := http.StatusOK

	if !h.fleet.IsLoggedIn() {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:     status,
		Cloud:      cloudStatus,
		User:       h.fleet.User(),
		Subscribed: h.fleet.IsSubscribed(),
		Photons:    len(h.fleet.Photons()),
		Timestamp:  time.Now(),
	})
}

// Logout handles POST /api/v1/logout. It drops the cloud login; the hub
// stays up in degraded mode until it is restarted with credentials.
func (h *HealthHandler) Logout(c *gin.Context) {
	h.fleet.Logout()
	c.JSON(http.StatusOK, types.LogoutResponse{Cloud: "logged_out"})
}
