package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check whether Patriot is logged in to the Particle cloud and listening for events"),
		),
		s.handleGetHealth,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_devices",
			mcp.WithDescription("List the connected Photon controllers with the devices and activities each supports"),
		),
		s.handleListDevices,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_device",
			mcp.WithDescription("Get one Photon controller by name"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Photon name (case-insensitive)"),
			),
		),
		s.handleGetDevice,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("discover_devices",
			mcp.WithDescription("Rediscover the Photon controllers on the account and refresh their state"),
		),
		s.handleDiscoverDevices,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_activities",
			mcp.WithDescription("List all activities with their current level (0-100)"),
		),
		s.handleListActivities,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_activity",
			mcp.WithDescription("Set an activity to a level between 0 (off) and 100 (fully on)"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Activity name"),
			),
			mcp.WithNumber("percent",
				mcp.Required(),
				mcp.Description("Level 0-100"),
				mcp.Min(0),
				mcp.Max(100),
			),
		),
		s.handleSetActivity,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("toggle_activity",
			mcp.WithDescription("Turn an activity off if it is on, otherwise fully on"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Activity name"),
			),
		),
		s.handleToggleActivity,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("turn_on",
			mcp.WithDescription("Turn an activity on"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Activity name"),
			),
			mcp.WithNumber("percent",
				mcp.Description("Level 1-100 (default 100)"),
			),
		),
		s.handleTurnOn,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("turn_off",
			mcp.WithDescription("Turn an activity off"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Activity name"),
			),
		),
		s.handleTurnOff,
	)
}
