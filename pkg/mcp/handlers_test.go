package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/patriot/pkg/activity"
	"github.com/urmzd/patriot/pkg/cloud/cloudtest"
	"github.com/urmzd/patriot/pkg/photon"
	"github.com/urmzd/patriot/pkg/schema"
)

func newTestServer(t *testing.T) (*Server, *photon.Manager, *cloudtest.Fake) {
	t.Helper()

	fake := cloudtest.New("u", "p")
	fake.AddDevice("d1", "Den", true, map[string]string{
		photon.VarDevices:     "tv",
		photon.VarSupported:   "tv,lamp",
		photon.VarPublishName: "patriot",
	})

	m := photon.NewManager(fake)
	store := activity.NewStore(m, nil)
	m.AddObserver(store)

	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "u", "p"))
	require.NoError(t, m.DiscoverDevices(ctx))

	return NewServer(m, store, schema.NewValidator()), m, fake
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()

	var req mcp.CallToolRequest
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func TestHandleGetHealth(t *testing.T) {
	s, _, _ := newTestServer(t)

	text, isErr := call(t, s.handleGetHealth, nil)
	require.False(t, isErr)

	var out GetHealthOutput
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, 1, out.Photons)
}

func TestHandleDevices(t *testing.T) {
	s, _, _ := newTestServer(t)

	text, isErr := call(t, s.handleListDevices, nil)
	require.False(t, isErr)
	var list ListDevicesOutput
	require.NoError(t, json.Unmarshal([]byte(text), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, []string{"lamp", "tv"}, list.Devices[0].Supported)

	text, isErr = call(t, s.handleGetDevice, map[string]any{"name": "DEN"})
	require.False(t, isErr)
	var dev GetDeviceOutput
	require.NoError(t, json.Unmarshal([]byte(text), &dev))
	assert.Equal(t, "d1", dev.Device.ID)

	_, isErr = call(t, s.handleGetDevice, map[string]any{"name": "attic"})
	assert.True(t, isErr)

	_, isErr = call(t, s.handleGetDevice, nil)
	assert.True(t, isErr)
}

func TestHandleDiscoverDevices(t *testing.T) {
	s, _, _ := newTestServer(t)

	text, isErr := call(t, s.handleDiscoverDevices, nil)
	require.False(t, isErr)
	var out DiscoverDevicesOutput
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, []string{"lamp", "tv"}, out.Supported)
	assert.Equal(t, []string{"tv"}, out.Devices)
}

func TestHandleSetActivity(t *testing.T) {
	s, m, fake := newTestServer(t)

	text, isErr := call(t, s.handleSetActivity, map[string]any{"name": "lamp", "percent": float64(30)})
	require.False(t, isErr, text)
	var out ActivityOutput
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, 30, out.Activity.Percent)

	_, isErr = call(t, s.handleSetActivity, map[string]any{"name": "lamp", "percent": float64(150)})
	assert.True(t, isErr)
	_, isErr = call(t, s.handleSetActivity, map[string]any{"name": "lamp"})
	assert.True(t, isErr)
	_, isErr = call(t, s.handleSetActivity, map[string]any{"name": "pool", "percent": float64(10)})
	assert.True(t, isErr)

	m.Flush()
	published := fake.Published()
	require.Len(t, published, 1)
	assert.Equal(t, "lamp:30", published[0].Data)
}

func TestHandleOnOffToggle(t *testing.T) {
	s, m, fake := newTestServer(t)

	_, isErr := call(t, s.handleTurnOn, map[string]any{"name": "tv"})
	require.False(t, isErr)
	_, isErr = call(t, s.handleTurnOff, map[string]any{"name": "tv"})
	require.False(t, isErr)
	text, isErr := call(t, s.handleToggleActivity, map[string]any{"name": "tv"})
	require.False(t, isErr)

	var out ActivityOutput
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, 100, out.Activity.Percent)

	m.Flush()
	var data []string
	for _, evt := range fake.Published() {
		data = append(data, evt.Data)
	}
	assert.ElementsMatch(t, []string{"tv:100", "tv:0", "tv:100"}, data)

	text, isErr = call(t, s.handleListActivities, nil)
	require.False(t, isErr)
	var list ListActivitiesOutput
	require.NoError(t, json.Unmarshal([]byte(text), &list))
	assert.Equal(t, 2, list.Count)
}
