// Package cloud talks to the device vendor's cloud: login, device listing,
// variable reads and the publish/subscribe event channel.
package cloud

import "context"

// Cloud is the narrow contract the hub needs from the vendor cloud.
type Cloud interface {
	// Login authenticates the account; later calls reuse the issued token
	Login(ctx context.Context, user, password string) error

	// Logout discards the credentials issued by Login
	Logout()

	// ListDevices returns every device on the account
	ListDevices(ctx context.Context) ([]Device, error)

	// GetVariable reads a variable from a device
	GetVariable(ctx context.Context, deviceID, name string) (string, error)

	// PublishEvent publishes an event on the account's event channel
	PublishEvent(ctx context.Context, evt OutboundEvent) error

	// Subscribe opens the event stream for events whose name starts with prefix.
	// The returned channel is closed when the stream ends or ctx is done.
	Subscribe(ctx context.Context, prefix string) (<-chan Event, error)
}
