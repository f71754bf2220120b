package types

import (
	"time"

	"github.com/urmzd/patriot/pkg/activity"
)

// --- Request DTOs ---

// SetActivityRequest is the request body for POST /activities/:name
type SetActivityRequest struct {
	Percent int `json:"percent"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// LogoutResponse is returned from POST /logout
type LogoutResponse struct {
	Cloud string `json:"cloud"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status     string    `json:"status"`
	Cloud      string    `json:"cloud"`
	User       string    `json:"user,omitempty"`
	Subscribed bool      `json:"subscribed"`
	Photons    int       `json:"photons"`
	Timestamp  time.Time `json:"timestamp"`
}

// Photon is one controller as reported by the API
type Photon struct {
	Name        string         `json:"name"`
	ID          string         `json:"id"`
	State       string         `json:"state"`
	Devices     []string       `json:"devices"`
	Supported   []string       `json:"supported"`
	Activities  map[string]int `json:"activities,omitempty"`
	PublishName string         `json:"publish_name"`
	RefreshedAt *time.Time     `json:"refreshed_at,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// ListDevicesResponse is returned from GET /devices
type ListDevicesResponse struct {
	Devices []Photon `json:"devices"`
	Count   int      `json:"count"`
}

// DeviceResponse is returned from GET /devices/:name
type DeviceResponse struct {
	Device Photon `json:"device"`
}

// DiscoveryResponse is returned from POST /discovery
type DiscoveryResponse struct {
	Photons   int      `json:"photons"`
	Devices   []string `json:"devices"`
	Supported []string `json:"supported"`
}

// ListActivitiesResponse is returned from GET /activities
type ListActivitiesResponse struct {
	Activities []activity.Activity `json:"activities"`
	Count      int                 `json:"count"`
}

// ActivityResponse is returned from the single-activity endpoints
type ActivityResponse struct {
	Activity activity.Activity `json:"activity"`
}
