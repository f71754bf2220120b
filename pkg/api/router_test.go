package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/patriot/pkg/activity"
	"github.com/urmzd/patriot/pkg/api/types"
	"github.com/urmzd/patriot/pkg/cloud"
	"github.com/urmzd/patriot/pkg/cloud/cloudtest"
	"github.com/urmzd/patriot/pkg/photon"
	"github.com/urmzd/patriot/pkg/schema"
)

type testHub struct {
	fake    *cloudtest.Fake
	manager *photon.Manager
	store   *activity.Store
	bus     *photon.EventBus
	router  *Router
}

func newTestHub(t *testing.T, login bool) *testHub {
	t.Helper()

	fake := cloudtest.New("u", "p")
	fake.AddDevice("d1", "FrontPanel", true, map[string]string{
		photon.VarDevices:     "led",
		photon.VarSupported:   "led,fan",
		photon.VarActivities:  "fan:20",
		photon.VarPublishName: "patriot",
	})

	m := photon.NewManager(fake)
	s := activity.NewStore(m, nil)
	bus := photon.NewEventBus()
	m.AddObserver(s)
	m.AddObserver(bus)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("patriot_up 1\n"))
	})

	h := &testHub{
		fake:    fake,
		manager: m,
		store:   s,
		bus:     bus,
		router:  NewRouter(m, s, bus, schema.NewValidator(), WithMetrics(metrics)),
	}

	if login {
		ctx := context.Background()
		require.NoError(t, m.Login(ctx, "u", "p"))
		require.NoError(t, m.DiscoverDevices(ctx))
	}
	return h
}

func (h *testHub) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.router.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	h := newTestHub(t, false)
	rec := h.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "logged_out", decode[types.HealthResponse](t, rec).Cloud)

	h = newTestHub(t, true)
	rec = h.do(t, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	health := decode[types.HealthResponse](t, rec)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "u", health.User)
	assert.Equal(t, 1, health.Photons)
}

func TestLogout(t *testing.T) {
	h := newTestHub(t, true)

	rec := h.do(t, http.MethodPost, "/api/v1/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "logged_out", decode[types.LogoutResponse](t, rec).Cloud)
	assert.Equal(t, 1, h.fake.Logouts())

	rec = h.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, decode[types.HealthResponse](t, rec).User)

	rec = h.do(t, http.MethodPost, "/api/v1/discovery", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDevices(t *testing.T) {
	h := newTestHub(t, true)

	rec := h.do(t, http.MethodGet, "/api/v1/devices", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[types.ListDevicesResponse](t, rec)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "FrontPanel", list.Devices[0].Name)
	assert.Equal(t, "ready", list.Devices[0].State)
	assert.Equal(t, []string{"fan", "led"}, list.Devices[0].Supported)
	assert.Equal(t, map[string]int{"fan": 20}, list.Devices[0].Activities)

	rec = h.do(t, http.MethodGet, "/api/v1/devices/frontpanel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "d1", decode[types.DeviceResponse](t, rec).Device.ID)

	rec = h.do(t, http.MethodGet, "/api/v1/devices/garage", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDiscovery(t *testing.T) {
	h := newTestHub(t, false)
	rec := h.do(t, http.MethodPost, "/api/v1/discovery", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_logged_in", decode[types.ErrorResponse](t, rec).Error)

	h = newTestHub(t, true)
	rec = h.do(t, http.MethodPost, "/api/v1/discovery", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[types.DiscoveryResponse](t, rec)
	assert.Equal(t, 1, resp.Photons)
	assert.Equal(t, []string{"fan", "led"}, resp.Supported)

	h.fake.ListErr = assert.AnError
	rec = h.do(t, http.MethodPost, "/api/v1/discovery", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestActivities(t *testing.T) {
	h := newTestHub(t, true)

	rec := h.do(t, http.MethodGet, "/api/v1/activities", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[types.ListActivitiesResponse](t, rec)
	assert.Equal(t, []activity.Activity{
		{Name: "fan", Command: "fan", Percent: 20},
		{Name: "led", Command: "led", Percent: 0},
	}, list.Activities)

	rec = h.do(t, http.MethodGet, "/api/v1/activities/FAN", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, decode[types.ActivityResponse](t, rec).Activity.Percent)

	rec = h.do(t, http.MethodGet, "/api/v1/activities/pump", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetActivity(t *testing.T) {
	h := newTestHub(t, true)

	rec := h.do(t, http.MethodPost, "/api/v1/activities/led", `{"percent": 60}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 60, decode[types.ActivityResponse](t, rec).Activity.Percent)

	h.manager.Flush()
	published := h.fake.Published()
	require.Len(t, published, 1)
	assert.Equal(t, "led:60", published[0].Data)
}

func TestSetActivity_Invalid(t *testing.T) {
	h := newTestHub(t, true)

	for _, body := range []string{`{"percent": 150}`, `{"percent": "on"}`, `{}`, `nope`} {
		rec := h.do(t, http.MethodPost, "/api/v1/activities/led", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "validation_error", decode[types.ErrorResponse](t, rec).Error, body)
	}

	rec := h.do(t, http.MethodPost, "/api/v1/activities/pump", `{"percent": 10}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	h.manager.Flush()
	assert.Empty(t, h.fake.Published())
}

func TestToggleActivity(t *testing.T) {
	h := newTestHub(t, true)

	rec := h.do(t, http.MethodPost, "/api/v1/activities/fan/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[types.ActivityResponse](t, rec).Activity.Percent)

	rec = h.do(t, http.MethodPost, "/api/v1/activities/fan/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, decode[types.ActivityResponse](t, rec).Activity.Percent)
}

func TestMetricsRoute(t *testing.T) {
	h := newTestHub(t, true)
	rec := h.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "patriot_up 1")
}

func TestEventsStream(t *testing.T) {
	h := newTestHub(t, true)
	srv := httptest.NewServer(h.router.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var name, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event:"):
				name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			case line == "" && name != "":
				return name, data
			}
		}
	}

	name, _ := readEvent()
	require.Equal(t, "connected", name)

	h.manager.HandleEvent(cloud.Event{Name: "patriot", Data: "led:100"})

	name, data := readEvent()
	assert.Equal(t, photon.EventActivityChanged, name)
	var evt photon.Event
	require.NoError(t, json.Unmarshal([]byte(data), &evt))
	assert.Equal(t, "led", evt.Name)
	require.NotNil(t, evt.Percent)
	assert.Equal(t, 100, *evt.Percent)
}
