package cloud

import "errors"

var (
	// ErrAuth indicates the cloud rejected the credentials or could not be reached during login
	ErrAuth = errors.New("cloud login failed")

	// ErrNotLoggedIn indicates an operation was attempted before a successful login
	ErrNotLoggedIn = errors.New("not logged in to cloud")

	// ErrNotConfigured indicates no cloud account is configured
	ErrNotConfigured = errors.New("cloud account not configured")

	// ErrDiscovery indicates the device list could not be fetched
	ErrDiscovery = errors.New("device discovery failed")

	// ErrRead indicates a device variable read failed
	ErrRead = errors.New("variable read failed")

	// ErrPublish indicates an event could not be published
	ErrPublish = errors.New("event publish failed")

	// ErrStream indicates the event stream could not be opened
	ErrStream = errors.New("event stream failed")
)
