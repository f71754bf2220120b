package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrAccountNotFound = errors.New("particle account not found")

// DefaultAPIURL is the Particle cloud endpoint.
const DefaultAPIURL = "https://api.particle.io"

// Account is the cloud login a profile uses.
type Account struct {
	ID        int64
	ProfileID int64
	Username  string
	Password  string
	APIURL    string
	EventName string
	UpdatedAt time.Time
}

// HasCredentials reports whether both username and password are set.
func (a *Account) HasCredentials() bool {
	return a != nil && a.Username != "" && a.Password != ""
}

// AccountStore provides cloud account operations.
type AccountStore interface {
	Get(ctx context.Context, profileID int64) (*Account, error)
	Save(ctx context.Context, a *Account) error
	SetCredentials(ctx context.Context, profileID int64, username, password string) error
}

// Accounts returns an AccountStore for this database.
func (db *DB) Accounts() AccountStore {
	return &accountStore{db: db}
}

type accountStore struct {
	db *DB
}

func (s *accountStore) Get(ctx context.Context, profileID int64) (*Account, error) {
	a := &Account{}
	var updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, username, password, api_url, event_name, updated_at
		FROM particle_accounts WHERE profile_id = ?
	`, profileID).Scan(&a.ID, &a.ProfileID, &a.Username, &a.Password, &a.APIURL, &a.EventName, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	a.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return a, nil
}

// Save creates or replaces the profile's account. Empty API URL and event
// name fall back to the defaults.
func (s *accountStore) Save(ctx context.Context, a *Account) error {
	if a.APIURL == "" {
		a.APIURL = DefaultAPIURL
	}
	if a.EventName == "" {
		a.EventName = "patriot"
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO particle_accounts (profile_id, username, password, api_url, event_name)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(profile_id) DO UPDATE SET
			username = excluded.username,
			password = excluded.password,
			api_url = excluded.api_url,
			event_name = excluded.event_name,
			updated_at = datetime('now')
		RETURNING id
	`, a.ProfileID, a.Username, a.Password, a.APIURL, a.EventName).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to save particle account: %w", err)
	}
	return nil
}

func (s *accountStore) SetCredentials(ctx context.Context, profileID int64, username, password string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE particle_accounts SET username = ?, password = ?, updated_at = datetime('now')
		WHERE profile_id = ?
	`, username, password, profileID)
	if err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAccountNotFound
	}
	return nil
}
