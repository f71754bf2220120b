package db

import (
	"context"
	"fmt"
	"strings"
)

// CommandStore holds per-profile overrides of the command sent for an activity.
type CommandStore interface {
	List(ctx context.Context, profileID int64) (map[string]string, error)
	Set(ctx context.Context, profileID int64, name, command string) error
	Delete(ctx context.Context, profileID int64, name string) error
}

// Commands returns a CommandStore for this database.
func (db *DB) Commands() CommandStore {
	return &commandStore{db: db}
}

type commandStore struct {
	db *DB
}

func (s *commandStore) List(ctx context.Context, profileID int64) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, command FROM activity_commands WHERE profile_id = ?
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	commands := make(map[string]string)
	for rows.Next() {
		var name, command string
		if err := rows.Scan(&name, &command); err != nil {
			return nil, err
		}
		commands[name] = command
	}
	return commands, rows.Err()
}

// Set stores an override. Names are stored lower-cased.
func (s *commandStore) Set(ctx context.Context, profileID int64, name, command string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_commands (profile_id, name, command) VALUES (?, ?, ?)
		ON CONFLICT(profile_id, name) DO UPDATE SET command = excluded.command
	`, profileID, strings.ToLower(name), command)
	if err != nil {
		return fmt.Errorf("failed to set activity command: %w", err)
	}
	return nil
}

func (s *commandStore) Delete(ctx context.Context, profileID int64, name string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM activity_commands WHERE profile_id = ? AND name = ?
	`, profileID, strings.ToLower(name))
	return err
}
