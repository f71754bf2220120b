package photon

import "errors"

var (
	// ErrRefresh indicates a required variable could not be read during refresh
	ErrRefresh = errors.New("photon refresh failed")

	// ErrNotFound indicates no photon with the given name is known
	ErrNotFound = errors.New("photon not found")
)
