package photon

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/patriot/pkg/cloud"
	"github.com/urmzd/patriot/pkg/cloud/cloudtest"
)

type recordingDelegate struct {
	mu         sync.Mutex
	devices    []map[string]struct{}
	supported  []map[string]struct{}
	activities []map[string]int
}

func (d *recordingDelegate) HasDevices(photon string, devices map[string]struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.devices = append(d.devices, devices)
}

func (d *recordingDelegate) Supports(photon string, supported map[string]struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supported = append(d.supported, supported)
}

func (d *recordingDelegate) HasSeenActivities(photon string, activities map[string]int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activities = append(d.activities, activities)
}

func newTestPhoton(t *testing.T, fake *cloudtest.Fake, name string) *Photon {
	t.Helper()
	devices, err := fake.ListDevices(context.Background())
	require.NoError(t, err)
	for _, d := range devices {
		if d.Name == name {
			return New(d, cloud.NewVariableReader(fake))
		}
	}
	t.Fatalf("device %s not registered", name)
	return nil
}

func TestPhoton_Refresh(t *testing.T) {
	fake := cloudtest.New("u", "p")
	fake.AddDevice("d1", "FrontPanel", true, map[string]string{
		VarDevices:     "led:1,fan",
		VarSupported:   "Photon,Coffee",
		VarActivities:  "test:33",
		VarPublishName: "patriot",
	})

	p := newTestPhoton(t, fake, "FrontPanel")
	assert.Equal(t, StateUninitialized, p.State())
	assert.Equal(t, UninitializedPublishName, p.PublishName())

	d := &recordingDelegate{}
	p.SetDelegate(d)

	require.NoError(t, p.Refresh(context.Background()))

	assert.Equal(t, StateReady, p.State())
	assert.Equal(t, "frontpanel", p.Key())
	assert.Equal(t, []string{"fan", "led"}, p.Devices())
	assert.Equal(t, []string{"coffee", "photon"}, p.Supported())
	acts, ok := p.Activities()
	assert.True(t, ok)
	assert.Equal(t, map[string]int{"test": 33}, acts)
	assert.Equal(t, "patriot", p.PublishName())

	require.Len(t, d.devices, 1)
	assert.Equal(t, map[string]struct{}{"led": {}, "fan": {}}, d.devices[0])
	require.Len(t, d.supported, 1)
	assert.Equal(t, map[string]struct{}{"photon": {}, "coffee": {}}, d.supported[0])
	require.Len(t, d.activities, 1)
}

func TestPhoton_RefreshWithoutActivities(t *testing.T) {
	fake := cloudtest.New("u", "p")
	fake.AddDevice("d1", "Garage", true, map[string]string{
		VarDevices:     "door",
		VarSupported:   "garage",
		VarPublishName: "patriot",
	})

	p := newTestPhoton(t, fake, "Garage")
	d := &recordingDelegate{}
	p.SetDelegate(d)

	require.NoError(t, p.Refresh(context.Background()))

	_, ok := p.Activities()
	assert.False(t, ok)
	assert.Equal(t, 0, fake.Reads("d1", VarActivities))
	assert.Empty(t, d.activities)
	assert.Len(t, d.supported, 1)
}

func TestPhoton_RefreshIgnoresActivitiesReadError(t *testing.T) {
	fake := cloudtest.New("u", "p")
	fake.AddDevice("d1", "Garage", true, map[string]string{
		VarDevices:     "door",
		VarSupported:   "garage",
		VarActivities:  "garage:100",
		VarPublishName: "patriot",
	})
	fake.FailRead("d1", VarActivities, nil)

	p := newTestPhoton(t, fake, "Garage")
	require.NoError(t, p.Refresh(context.Background()))

	_, ok := p.Activities()
	assert.False(t, ok)
	assert.Equal(t, StateReady, p.State())
}

func TestPhoton_RefreshFailsOnRequiredVariable(t *testing.T) {
	for _, variable := range []string{VarDevices, VarSupported, VarPublishName} {
		t.Run(variable, func(t *testing.T) {
			fake := cloudtest.New("u", "p")
			fake.AddDevice("d1", "Panel", true, map[string]string{
				VarDevices:     "led",
				VarSupported:   "photon",
				VarPublishName: "patriot",
			})
			fake.FailRead("d1", variable, nil)

			p := newTestPhoton(t, fake, "Panel")
			d := &recordingDelegate{}
			p.SetDelegate(d)

			err := p.Refresh(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRefresh)
			assert.ErrorIs(t, err, cloud.ErrRead)
			assert.Equal(t, StateFailed, p.State())
			assert.Error(t, p.Err())

			// Nothing reaches the delegate from a failed refresh.
			assert.Empty(t, d.devices)
			assert.Empty(t, d.supported)
		})
	}
}

func TestPhoton_FailedRefreshKeepsReadFields(t *testing.T) {
	fake := cloudtest.New("u", "p")
	fake.AddDevice("d1", "Panel", true, map[string]string{
		VarDevices:     "led",
		VarSupported:   "photon",
		VarPublishName: "patriot",
	})
	fake.FailRead("d1", VarDevices, nil)

	p := newTestPhoton(t, fake, "Panel")
	require.Error(t, p.Refresh(context.Background()))

	assert.Empty(t, p.Devices())
	assert.Equal(t, []string{"photon"}, p.Supported())
	assert.Equal(t, "patriot", p.PublishName())
}

func TestPhoton_RefreshClearsStaleFields(t *testing.T) {
	fake := cloudtest.New("u", "p")
	fake.AddDevice("d1", "Panel", true, map[string]string{
		VarDevices:     "led",
		VarSupported:   "photon",
		VarPublishName: "patriot",
	})

	p := newTestPhoton(t, fake, "Panel")
	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, []string{"led"}, p.Devices())

	fake.FailRead("d1", VarDevices, nil)
	require.Error(t, p.Refresh(context.Background()))
	assert.Empty(t, p.Devices())
}

func TestPhoton_UndeclaredRequiredVariableIsEmpty(t *testing.T) {
	fake := cloudtest.New("u", "p")
	fake.AddDevice("d1", "Bare", true, map[string]string{})

	p := newTestPhoton(t, fake, "Bare")
	require.NoError(t, p.Refresh(context.Background()))

	assert.Empty(t, p.Devices())
	assert.Empty(t, p.Supported())
	assert.Equal(t, UninitializedPublishName, p.PublishName())
}
