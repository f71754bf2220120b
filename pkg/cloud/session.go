package cloud

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Session tracks whether the process has logged in to the cloud.
// The token itself lives inside the Cloud implementation.
type Session struct {
	cloud Cloud

	mu       sync.RWMutex
	loggedIn bool
	user     string
}

// NewSession creates a session over the given cloud.
func NewSession(c Cloud) *Session {
	return &Session{cloud: c}
}

// Login authenticates against the cloud. Errors are wrapped with ErrAuth
// and never retried.
func (s *Session) Login(ctx context.Context, user, password string) error {
	if err := s.cloud.Login(ctx, user, password); err != nil {
		log.Warn().Err(err).Str("user", user).Msg("Cloud login failed")
		return fmt.Errorf("%w: %w", ErrAuth, err)
	}

	s.mu.Lock()
	s.loggedIn = true
	s.user = user
	s.mu.Unlock()

	log.Info().Str("user", user).Msg("Logged in to cloud")
	return nil
}

// Logout forgets the login and the cloud's token. The next operation
// needs a fresh Login.
func (s *Session) Logout() {
	s.cloud.Logout()

	s.mu.Lock()
	user := s.user
	s.loggedIn = false
	s.user = ""
	s.mu.Unlock()

	log.Info().Str("user", user).Msg("Logged out of cloud")
}

// IsLoggedIn reports whether a login has succeeded.
func (s *Session) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// User returns the logged in user, or "" when logged out.
func (s *Session) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Require returns ErrNotLoggedIn until a login has succeeded.
func (s *Session) Require() error {
	if !s.IsLoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}

// Cloud returns the underlying cloud.
func (s *Session) Cloud() Cloud {
	return s.cloud
}
