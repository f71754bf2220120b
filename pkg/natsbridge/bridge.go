// Package natsbridge mirrors fleet events onto NATS subjects.
package natsbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/patriot/pkg/photon"
)

// SubjectPrefix is prepended to the event type to form the subject.
const SubjectPrefix = "patriot.events"

// Subject returns the subject an event type is published on.
func Subject(eventType string) string {
	return SubjectPrefix + "." + eventType
}

// Bridge publishes every event from an EventBus as JSON.
type Bridge struct {
	nc  *nats.Conn
	bus *photon.EventBus
}

// Connect dials the NATS server at url.
func Connect(url string, bus *photon.EventBus) (*Bridge, error) {
	nc, err := nats.Connect(url,
		nats.Name("patriot"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return &Bridge{nc: nc, bus: bus}, nil
}

// Run forwards events until ctx is done.
func (b *Bridge) Run(ctx context.Context) {
	events := b.bus.Subscribe()
	defer b.bus.Unsubscribe(events)

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := b.Publish(evt); err != nil {
				log.Warn().Err(err).Str("event", evt.Type).Msg("Failed to mirror event")
			}
		}
	}
}

// Publish sends one event.
func (b *Bridge) Publish(evt photon.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.nc.Publish(Subject(evt.Type), data)
}

// Close drains the connection.
func (b *Bridge) Close() error {
	return b.nc.Drain()
}
