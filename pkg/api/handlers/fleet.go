package handlers

import (
	"context"

	"github.com/urmzd/patriot/pkg/photon"
)

// Fleet is the part of photon.Manager the handlers use.
type Fleet interface {
	IsLoggedIn() bool
	User() string
	Logout()
	IsSubscribed() bool
	Photons() []*photon.Photon
	GetPhoton(name string) (*photon.Photon, bool)
	DiscoverDevices(ctx context.Context) error
	DeviceNames() []string
	SupportedNames() []string
}
