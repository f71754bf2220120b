// Package photon keeps the hub's view of Particle Photon controllers: one
// Photon per connected device and a Manager for the whole fleet.
package photon

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/patriot/pkg/cloud"
	"golang.org/x/sync/errgroup"
)

// Variables a Photon exposes to the cloud.
const (
	VarDevices     = "Devices"
	VarSupported   = "Supported"
	VarActivities  = "Activities"
	VarPublishName = "PublishName"
)

// UninitializedPublishName is reported until the PublishName variable has been read.
const UninitializedPublishName = "uninitialized"

// State is a Photon's refresh state.
type State int

const (
	StateUninitialized State = iota
	StateRefreshing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRefreshing:
		return "refreshing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Photon caches the state one remote controller exposes.
type Photon struct {
	device cloud.Device
	reader *cloud.VariableReader

	mu          sync.RWMutex
	devices     map[string]struct{}
	supported   map[string]struct{}
	activities  map[string]int // nil when the device has no Activities variable
	publishName string
	state       State
	lastErr     error
	refreshedAt time.Time
	gen         uint64

	delegate Delegate
}

// New creates a Photon for dev. Nothing is read until Refresh.
func New(dev cloud.Device, reader *cloud.VariableReader) *Photon {
	return &Photon{
		device:      dev,
		reader:      reader,
		publishName: UninitializedPublishName,
	}
}

// SetDelegate sets the receiver of parsed state.
func (p *Photon) SetDelegate(d Delegate) {
	p.mu.Lock()
	p.delegate = d
	p.mu.Unlock()
}

// Name returns the device's display name.
func (p *Photon) Name() string {
	return p.device.Name
}

// Key returns the lower-cased name used for lookups.
func (p *Photon) Key() string {
	return strings.ToLower(p.device.Name)
}

// ID returns the vendor device ID.
func (p *Photon) ID() string {
	return p.device.ID
}

// Devices returns the sorted device names the Photon exposes.
func (p *Photon) Devices() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sortedNames(p.devices)
}

// Supported returns the sorted activity names the Photon supports.
func (p *Photon) Supported() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sortedNames(p.supported)
}

// Activities returns the activity percents the Photon reported.
// ok is false when the Photon does not expose an Activities variable.
func (p *Photon) Activities() (activities map[string]int, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.activities == nil {
		return nil, false
	}
	return copyActivities(p.activities), true
}

// PublishName returns the event name the Photon publishes on.
func (p *Photon) PublishName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.publishName
}

// State returns the refresh state.
func (p *Photon) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Err returns the error of the last failed refresh.
func (p *Photon) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// RefreshedAt returns when the last refresh finished.
func (p *Photon) RefreshedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.refreshedAt
}

// Refresh re-reads the Devices, Supported, Activities and PublishName
// variables concurrently. Activities is optional: a device that does not
// declare it, or whose read fails, refreshes without activities. A failed
// read of any other variable fails the refresh; fields that were read are
// kept and the rest stay empty. The delegate only hears about a refresh
// that completed.
func (p *Photon) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.state = StateRefreshing
	p.devices = nil
	p.supported = nil
	p.activities = nil
	p.publishName = UninitializedPublishName
	p.lastErr = nil
	p.mu.Unlock()

	log.Debug().Str("device", p.Name()).Msg("Refreshing photon")

	var (
		devices     map[string]struct{}
		supported   map[string]struct{}
		activities  map[string]int
		publishName = UninitializedPublishName
	)

	var g errgroup.Group
	g.Go(func() error {
		v, err := p.reader.Read(ctx, p.device, VarDevices)
		if err != nil {
			return err
		}
		devices = ParseDeviceNames(v.Value)
		return nil
	})
	g.Go(func() error {
		v, err := p.reader.Read(ctx, p.device, VarSupported)
		if err != nil {
			return err
		}
		supported = ParseSupported(v.Value)
		return nil
	})
	g.Go(func() error {
		v, err := p.reader.Read(ctx, p.device, VarActivities)
		if err != nil {
			log.Warn().Err(err).Str("device", p.Name()).Msg("Ignoring unreadable Activities variable")
			return nil
		}
		if v.Declared {
			activities = ParseActivities(v.Value)
		}
		return nil
	})
	g.Go(func() error {
		v, err := p.reader.Read(ctx, p.device, VarPublishName)
		if err != nil {
			return err
		}
		if v.Declared {
			publishName = v.Value
		}
		return nil
	})
	err := g.Wait()

	p.mu.Lock()
	if gen != p.gen {
		// A newer refresh owns the fields now.
		p.mu.Unlock()
		return err
	}
	p.devices = devices
	p.supported = supported
	p.activities = activities
	p.publishName = publishName
	p.refreshedAt = time.Now()
	if err != nil {
		p.state = StateFailed
		p.lastErr = err
	} else {
		p.state = StateReady
	}
	delegate := p.delegate
	p.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRefresh, p.Name(), err)
	}

	log.Info().
		Str("device", p.Name()).
		Strs("devices", sortedNames(devices)).
		Strs("supported", sortedNames(supported)).
		Str("publish", publishName).
		Msg("Photon refreshed")

	if delegate != nil {
		delegate.HasDevices(p.Name(), copyNames(devices))
		delegate.Supports(p.Name(), copyNames(supported))
		if activities != nil {
			delegate.HasSeenActivities(p.Name(), copyActivities(activities))
		}
	}
	return nil
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func copyNames(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for n := range set {
		out[n] = struct{}{}
	}
	return out
}

func copyActivities(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
