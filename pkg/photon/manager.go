package photon

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/patriot/pkg/cloud"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultEventName is the event channel commands and state changes travel on.
	DefaultEventName = "patriot"

	// CommandTTL is the time-to-live attached to published commands.
	CommandTTL = 60 * time.Second
)

// Manager owns the fleet of Photons on one cloud account. Construct one per
// process and pass it to its consumers.
type Manager struct {
	session   *cloud.Session
	cloud     cloud.Cloud
	reader    *cloud.VariableReader
	eventName string

	mu                sync.RWMutex
	photons           map[string]*Photon // lower-cased name -> photon
	deviceNames       map[string]struct{}
	supportedNames    map[string]struct{}
	currentActivities map[string]int

	observersMu sync.RWMutex
	observers   []Observer

	subscribed atomic.Bool
	pending    sync.WaitGroup
}

// Option configures a Manager.
type Option func(*Manager)

// WithEventName overrides the event channel name.
func WithEventName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.eventName = name
		}
	}
}

// NewManager creates a manager for the fleet reachable through c.
func NewManager(c cloud.Cloud, opts ...Option) *Manager {
	m := &Manager{
		session:           cloud.NewSession(c),
		cloud:             c,
		reader:            cloud.NewVariableReader(c),
		eventName:         DefaultEventName,
		photons:           make(map[string]*Photon),
		deviceNames:       make(map[string]struct{}),
		supportedNames:    make(map[string]struct{}),
		currentActivities: make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddObserver registers o for fleet notifications.
func (m *Manager) AddObserver(o Observer) {
	m.observersMu.Lock()
	m.observers = append(m.observers, o)
	m.observersMu.Unlock()
}

func (m *Manager) notify(fn func(Observer)) {
	m.observersMu.RLock()
	observers := append([]Observer(nil), m.observers...)
	m.observersMu.RUnlock()

	for _, o := range observers {
		fn(o)
	}
}

// Login logs in to the cloud account.
func (m *Manager) Login(ctx context.Context, user, password string) error {
	return m.session.Login(ctx, user, password)
}

// Logout forgets the cloud login.
func (m *Manager) Logout() {
	m.session.Logout()
}

// User returns the logged in account, or "" when logged out.
func (m *Manager) User() string {
	return m.session.User()
}

// IsLoggedIn reports whether a login has succeeded.
func (m *Manager) IsLoggedIn() bool {
	return m.session.IsLoggedIn()
}

// IsSubscribed reports whether the live event stream is open.
func (m *Manager) IsSubscribed() bool {
	return m.subscribed.Load()
}

// EventName returns the event channel name.
func (m *Manager) EventName() string {
	return m.eventName
}

// DiscoverDevices rebuilds the fleet from the account's connected devices
// and refreshes every Photon. A Photon whose refresh fails is logged and kept;
// the others are unaffected. Observers get one SupportedListChanged when
// every refresh has finished.
func (m *Manager) DiscoverDevices(ctx context.Context) error {
	if err := m.session.Require(); err != nil {
		return err
	}

	devices, err := m.cloud.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", cloud.ErrDiscovery, err)
	}

	fresh := make(map[string]*Photon)
	for _, d := range devices {
		if !d.Connected {
			log.Debug().Str("device", d.Name).Msg("Skipping disconnected device")
			continue
		}
		key := strings.ToLower(d.Name)
		if key == "" {
			continue
		}
		p := New(d, m.reader)
		p.SetDelegate(&fleetDelegate{m: m, photon: p})
		fresh[key] = p
	}

	m.mu.Lock()
	old := m.photons
	m.photons = fresh
	m.deviceNames = make(map[string]struct{})
	m.supportedNames = make(map[string]struct{})
	m.mu.Unlock()

	for _, key := range sortedKeys(old) {
		if _, ok := fresh[key]; !ok {
			m.notify(func(o Observer) { o.DeviceLost(key) })
		}
	}
	for _, key := range sortedKeys(fresh) {
		if _, ok := old[key]; ok {
			continue
		}
		log.Info().Str("device", key).Msg("Photon found")
		m.notify(func(o Observer) { o.DeviceFound(key) })
	}

	var g errgroup.Group
	var failed atomic.Int32
	for key, p := range fresh {
		g.Go(func() error {
			if err := p.Refresh(ctx); err != nil {
				failed.Add(1)
				log.Warn().Err(err).Str("device", key).Msg("Photon refresh failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	names := m.SupportedNames()
	log.Info().
		Int("photons", len(fresh)).
		Int("failed", int(failed.Load())).
		Strs("supported", names).
		Msg("Discovery complete")

	m.notify(func(o Observer) { o.SupportedListChanged(names) })
	return nil
}

// SendCommand publishes "activity:percent" on the fleet's event channel.
// It does not wait for delivery; failures are logged.
func (m *Manager) SendCommand(activity string, percent int) {
	data := FormatCommand(activity, percent)

	if err := m.session.Require(); err != nil {
		log.Error().Err(err).Str("command", data).Msg("Cannot send command")
		return
	}

	log.Info().Str("event", m.eventName).Str("command", data).Msg("Sending command")

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()

		err := m.cloud.PublishEvent(context.Background(), cloud.OutboundEvent{
			Name:    m.eventName,
			Data:    data,
			Private: true,
			TTL:     CommandTTL,
		})
		if err != nil {
			log.Error().Err(err).Str("command", data).Msg("Failed to publish command")
		}
	}()
}

// Flush waits for commands still being published.
func (m *Manager) Flush() {
	m.pending.Wait()
}

// SubscribeToEvents opens the live event stream and applies every event
// until ctx is done or the stream ends. The stream is not reopened.
func (m *Manager) SubscribeToEvents(ctx context.Context) error {
	if err := m.session.Require(); err != nil {
		return err
	}

	events, err := m.cloud.Subscribe(ctx, m.eventName)
	if err != nil {
		if errors.Is(err, cloud.ErrStream) {
			return err
		}
		return fmt.Errorf("%w: %v", cloud.ErrStream, err)
	}

	m.subscribed.Store(true)
	go func() {
		defer m.subscribed.Store(false)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					log.Warn().Str("event", m.eventName).Msg("Event stream closed")
					return
				}
				m.HandleEvent(evt)
			}
		}
	}()

	return nil
}

// HandleEvent applies one live "name:percent" event. Malformed or
// out-of-range payloads are dropped.
func (m *Manager) HandleEvent(evt cloud.Event) {
	if !strings.HasPrefix(evt.Name, m.eventName) {
		return
	}

	name, percent, ok := ParseEvent(evt.Data)
	if !ok {
		log.Debug().Str("event", evt.Name).Str("data", evt.Data).Msg("Dropping invalid event")
		return
	}

	m.mu.Lock()
	m.currentActivities[name] = percent
	m.mu.Unlock()

	log.Debug().Str("activity", name).Int("percent", percent).Msg("Activity changed")
	m.notify(func(o Observer) { o.ActivityChanged(name, percent) })
}

// GetPhoton looks up a Photon by name, ignoring case.
func (m *Manager) GetPhoton(name string) (*Photon, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.photons[strings.ToLower(name)]
	return p, ok
}

// Photons returns the fleet sorted by name.
func (m *Manager) Photons() []*Photon {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Photon, 0, len(m.photons))
	for _, key := range sortedKeys(m.photons) {
		out = append(out, m.photons[key])
	}
	return out
}

// DeviceNames returns the union of every Photon's device names.
func (m *Manager) DeviceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedNames(m.deviceNames)
}

// SupportedNames returns the union of every Photon's supported activities.
func (m *Manager) SupportedNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedNames(m.supportedNames)
}

// CurrentActivities returns the last known percent of each activity.
func (m *Manager) CurrentActivities() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyActivities(m.currentActivities)
}

// fleetDelegate merges one Photon's refresh results into the fleet,
// provided the Photon still belongs to the current fleet.
type fleetDelegate struct {
	m      *Manager
	photon *Photon
}

func (d *fleetDelegate) current() bool {
	return d.m.photons[d.photon.Key()] == d.photon
}

func (d *fleetDelegate) HasDevices(photon string, devices map[string]struct{}) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	if !d.current() {
		return
	}
	for n := range devices {
		d.m.deviceNames[n] = struct{}{}
	}
}

func (d *fleetDelegate) Supports(photon string, supported map[string]struct{}) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	if !d.current() {
		return
	}
	for n := range supported {
		d.m.supportedNames[n] = struct{}{}
	}
}

func (d *fleetDelegate) HasSeenActivities(photon string, activities map[string]int) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	if !d.current() {
		return
	}
	for n, pct := range activities {
		d.m.currentActivities[n] = pct
	}
}

func sortedKeys(m map[string]*Photon) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
