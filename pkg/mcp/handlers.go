package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
	"github.com/urmzd/patriot/pkg/api/handlers"
	"github.com/urmzd/patriot/pkg/api/types"
	"github.com/urmzd/patriot/pkg/schema"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cloudStatus := "logged_out"
	status := "unhealthy"
	if s.fleet.IsLoggedIn() {
		cloudStatus = "logged_in"
		status = "healthy"
	}

	out := GetHealthOutput{
		Status:     status,
		Cloud:      cloudStatus,
		User:       s.fleet.User(),
		Subscribed: s.fleet.IsSubscribed(),
		Photons:    len(s.fleet.Photons()),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	photons := s.fleet.Photons()

	devices := make([]types.Photon, 0, len(photons))
	for _, p := range photons {
		devices = append(devices, handlers.ToPhoton(p))
	}

	out := ListDevicesOutput{
		Devices: devices,
		Count:   len(devices),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(request, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p, ok := s.fleet.GetPhoton(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("device not found: %s", name)), nil
	}

	out := GetDeviceOutput{Device: handlers.ToPhoton(p)}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleDiscoverDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.fleet.DiscoverDevices(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to discover devices: %s", err)), nil
	}

	out := DiscoverDevicesOutput{
		Photons:   len(s.fleet.Photons()),
		Devices:   s.fleet.DeviceNames(),
		Supported: s.fleet.SupportedNames(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListActivities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	activities := s.store.Activities()
	out := ListActivitiesOutput{
		Activities: activities,
		Count:      len(activities),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSetActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(request, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, ok := request.GetArguments()["percent"]
	if !ok {
		return mcp.NewToolResultError(`required parameter "percent" is missing`), nil
	}
	if s.validator != nil {
		if err := s.validator.Validate(schema.SetActivity, map[string]any{"percent": raw}); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("validation error: %s", err)), nil
		}
	}
	percent, err := cast.ToIntE(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid percent: %s", err)), nil
	}

	return s.setActivity(name, percent)
}

func (s *Server) handleToggleActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(request, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	a, err := s.store.ToggleByName(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle activity: %s", err)), nil
	}

	out := ActivityOutput{
		Activity: a,
		Message:  fmt.Sprintf("Activity %q set to %d", a.Name, a.Percent),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleTurnOn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(request, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	percent := 100
	if p, ok := request.GetArguments()["percent"]; ok {
		if pi, err := cast.ToIntE(p); err == nil && pi > 0 {
			percent = pi
		}
	}

	return s.setActivity(name, percent)
}

func (s *Server) handleTurnOff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(request, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.setActivity(name, 0)
}

func (s *Server) setActivity(name string, percent int) (*mcp.CallToolResult, error) {
	a, err := s.store.SetByName(name, percent)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set activity: %s", err)), nil
	}

	out := ActivityOutput{
		Activity: a,
		Message:  fmt.Sprintf("Activity %q set to %d", a.Name, a.Percent),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}

