package db

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoActiveProfile = errors.New("no active profile found")

// Config represents the complete runtime configuration loaded from the database.
type Config struct {
	Profile   *Profile
	APIServer *APIServer
	Account   *Account
	Commands  map[string]string
}

// APIAddress returns the API server listen address.
func (c *Config) APIAddress() string {
	if c.APIServer == nil {
		return "0.0.0.0:8080"
	}
	return c.APIServer.Address()
}

// NATSURL returns the NATS server events are mirrored to, or "".
func (c *Config) NATSURL() string {
	if c.APIServer == nil {
		return ""
	}
	return c.APIServer.NATSURL
}

// APIURL returns the cloud endpoint.
func (c *Config) APIURL() string {
	if c.Account == nil || c.Account.APIURL == "" {
		return DefaultAPIURL
	}
	return c.Account.APIURL
}

// EventName returns the event channel commands travel on.
func (c *Config) EventName() string {
	if c.Account == nil || c.Account.EventName == "" {
		return "patriot"
	}
	return c.Account.EventName
}

// ActiveConfig loads the complete configuration for the active profile.
func (db *DB) ActiveConfig(ctx context.Context) (*Config, error) {
	profile, err := db.Profiles().GetActive(ctx)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrNoActiveProfile
		}
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}

	config := &Config{Profile: profile}

	apiServer, err := db.APIServers().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrAPIServerNotFound) {
		return nil, fmt.Errorf("failed to get API server config: %w", err)
	}
	config.APIServer = apiServer

	account, err := db.Accounts().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to get particle account: %w", err)
	}
	config.Account = account

	commands, err := db.Commands().List(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity commands: %w", err)
	}
	config.Commands = commands

	return config, nil
}
