package mcp

import (
	"github.com/urmzd/patriot/pkg/activity"
	"github.com/urmzd/patriot/pkg/api/types"
)

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status     string `json:"status" jsonschema:"description=Overall health status (healthy or unhealthy)"`
	Cloud      string `json:"cloud" jsonschema:"description=Particle cloud login status"`
	User       string `json:"user,omitempty" jsonschema:"description=Logged in Particle account"`
	Subscribed bool   `json:"subscribed" jsonschema:"description=Whether the live event stream is open"`
	Photons    int    `json:"photons" jsonschema:"description=Number of connected Photons"`
	Timestamp  string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// ListDevicesOutput is the output for the list_devices tool
type ListDevicesOutput struct {
	Devices []types.Photon `json:"devices" jsonschema:"description=Connected Photons"`
	Count   int            `json:"count" jsonschema:"description=Number of Photons"`
}

// GetDeviceOutput is the output for the get_device tool
type GetDeviceOutput struct {
	Device types.Photon `json:"device" jsonschema:"description=Photon information"`
}

// DiscoverDevicesOutput is the output for the discover_devices tool
type DiscoverDevicesOutput struct {
	Photons   int      `json:"photons" jsonschema:"description=Number of Photons found"`
	Devices   []string `json:"devices" jsonschema:"description=Device names across the fleet"`
	Supported []string `json:"supported" jsonschema:"description=Activity names across the fleet"`
}

// ListActivitiesOutput is the output for the list_activities tool
type ListActivitiesOutput struct {
	Activities []activity.Activity `json:"activities" jsonschema:"description=Activities in display order"`
	Count      int                 `json:"count" jsonschema:"description=Number of activities"`
}

// ActivityOutput is the output for the tools that change one activity
type ActivityOutput struct {
	Activity activity.Activity `json:"activity" jsonschema:"description=Activity after the change"`
	Message  string            `json:"message" jsonschema:"description=Status message"`
}
