// Package hub wires the cloud client, fleet manager, activity store and
// event fan-out together for the binaries.
package hub

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/patriot/pkg/activity"
	"github.com/urmzd/patriot/pkg/cloud"
	"github.com/urmzd/patriot/pkg/db"
	"github.com/urmzd/patriot/pkg/metrics"
	"github.com/urmzd/patriot/pkg/photon"
	"github.com/urmzd/patriot/pkg/schema"
)

type Options struct {
	APIURL    string
	User      string
	Password  string
	EventName string
	Commands  map[string]string

	// Cloud replaces the Particle client when set.
	Cloud cloud.Cloud
}

// OptionsFromConfig reads the account and command overrides of cfg.
// Non-empty user and password override the stored credentials.
func OptionsFromConfig(cfg *db.Config, user, password string) Options {
	opts := Options{
		APIURL:    cfg.APIURL(),
		EventName: cfg.EventName(),
		Commands:  cfg.Commands,
	}
	if cfg.Account != nil {
		opts.User = cfg.Account.Username
		opts.Password = cfg.Account.Password
	}
	if user != "" {
		opts.User = user
	}
	if password != "" {
		opts.Password = password
	}
	return opts
}

type Hub struct {
	Manager   *photon.Manager
	Store     *activity.Store
	Bus       *photon.EventBus
	Validator *schema.Validator
	Metrics   *metrics.Registry

	opts Options
}

// New builds a hub. Without credentials or an explicit Cloud, it runs on a
// NullCloud and every cloud operation reports not logged in.
func New(opts Options) *Hub {
	c := opts.Cloud
	if c == nil {
		if opts.User == "" || opts.Password == "" {
			log.Warn().Msg("No Particle credentials configured, using null cloud")
			c = cloud.NewNullCloud()
		} else {
			c = cloud.NewParticleClient(opts.APIURL)
		}
	}

	manager := photon.NewManager(c, photon.WithEventName(opts.EventName))

	var resolver activity.CommandResolver
	if len(opts.Commands) > 0 {
		resolver = activity.CommandMap(opts.Commands)
	}
	store := activity.NewStore(manager, resolver)
	bus := photon.NewEventBus()

	manager.AddObserver(store)
	manager.AddObserver(bus)

	reg := metrics.NewRegistry(manager, store)
	store.AddObserver(reg.Recorder)

	return &Hub{
		Manager:   manager,
		Store:     store,
		Bus:       bus,
		Validator: schema.NewValidator(),
		Metrics:   reg,
		opts:      opts,
	}
}

// Start logs in, opens the event stream and runs the first discovery.
// Only a failed login is fatal; the stream and discovery are logged and the
// hub keeps running with whatever it has.
func (h *Hub) Start(ctx context.Context) error {
	if err := h.Manager.Login(ctx, h.opts.User, h.opts.Password); err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}

	if err := h.Manager.SubscribeToEvents(ctx); err != nil {
		log.Warn().Err(err).Msg("Event stream unavailable")
	}

	if err := h.Manager.DiscoverDevices(ctx); err != nil {
		log.Error().Err(err).Msg("Initial discovery failed")
	}

	log.Info().
		Int("photons", len(h.Manager.Photons())).
		Int("activities", h.Store.Len()).
		Msg("Hub started")
	return nil
}

// Close waits for in-flight commands.
func (h *Hub) Close() {
	h.Manager.Flush()
}
