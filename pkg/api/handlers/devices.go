package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/patriot/pkg/api/types"
	"github.com/urmzd/patriot/pkg/photon"
)

// DevicesHandler handles Photon listing and discovery
type DevicesHandler struct {
	fleet Fleet
}

// NewDevicesHandler creates a new devices handler
func NewDevicesHandler(fleet Fleet) *DevicesHandler {
	return &DevicesHandler{fleet: fleet}
}

// ListDevices handles GET /devices
func (h *DevicesHandler) ListDevices(c *gin.Context) {
	photons := h.fleet.Photons()

	devices := make([]types.Photon, 0, len(photons))
	for _, p := range photons {
		devices = append(devices, ToPhoton(p))
	}

	c.JSON(http.StatusOK, types.ListDevicesResponse{
		Devices: devices,
		Count:   len(devices),
	})
}

// GetDevice handles GET /devices/:name
func (h *DevicesHandler) GetDevice(c *gin.Context) {
	name := c.Param("name")

	p, ok := h.fleet.GetPhoton(name)
	if !ok {
		writeError(c, fmt.Errorf("%w: %s", photon.ErrNotFound, name))
		return
	}

	c.JSON(http.StatusOK, types.DeviceResponse{Device: ToPhoton(p)})
}

// Discover handles POST /discovery. It blocks until every Photon has refreshed.
func (h *DevicesHandler) Discover(c *gin.Context) {
	if err := h.fleet.DiscoverDevices(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.DiscoveryResponse{
		Photons:   len(h.fleet.Photons()),
		Devices:   h.fleet.DeviceNames(),
		Supported: h.fleet.SupportedNames(),
	})
}

// ToPhoton converts a Photon to its API form.
func ToPhoton(p *photon.Photon) types.Photon {
	out := types.Photon{
		Name:        p.Name(),
		ID:          p.ID(),
		State:       p.State().String(),
		Devices:     p.Devices(),
		Supported:   p.Supported(),
		PublishName: p.PublishName(),
	}
	if acts, ok := p.Activities(); ok {
		out.Activities = acts
	}
	if t := p.RefreshedAt(); !t.IsZero() {
		out.RefreshedAt = &t
	}
	if err := p.Err(); err != nil {
		out.Error = err.Error()
	}
	return out
}
