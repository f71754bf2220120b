package cloud

import "context"

// NullCloud is a no-op cloud used when no account is configured.
// It allows the hub to run in limited mode without vendor access.
type NullCloud struct{}

// NewNullCloud creates a new NullCloud.
func NewNullCloud() *NullCloud {
	return &NullCloud{}
}

func (c *NullCloud) Login(ctx context.Context, user, password string) error {
	return ErrNotConfigured
}

func (c *NullCloud) Logout() {}

func (c *NullCloud) ListDevices(ctx context.Context) ([]Device, error) {
	return nil, ErrNotLoggedIn
}

func (c *NullCloud) GetVariable(ctx context.Context, deviceID, name string) (string, error) {
	return "", ErrNotLoggedIn
}

func (c *NullCloud) PublishEvent(ctx context.Context, evt OutboundEvent) error {
	return ErrNotLoggedIn
}

func (c *NullCloud) Subscribe(ctx context.Context, prefix string) (<-chan Event, error) {
	return nil, ErrNotLoggedIn
}
