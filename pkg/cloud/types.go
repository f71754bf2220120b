package cloud

import "time"

// Device is the vendor's handle to one cloud-connected controller.
// The core never mutates it.
type Device struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Connected bool              `json:"connected"`
	Variables map[string]string `json:"variables,omitempty"` // variable name -> declared type
}

// HasVariable reports whether the device declares the named variable.
func (d Device) HasVariable(name string) bool {
	_, ok := d.Variables[name]
	return ok
}

// Event is a live event received from the cloud event stream.
type Event struct {
	Name        string    `json:"name"`
	Data        string    `json:"data"`
	TTL         int       `json:"ttl"`
	PublishedAt time.Time `json:"published_at"`
	DeviceID    string    `json:"coreid"`
}

// OutboundEvent is an event published to the cloud.
type OutboundEvent struct {
	Name    string
	Data    string
	Private bool
	TTL     time.Duration
}

// Variable is the tagged result of a variable read.
// Declared is false when the device does not expose the variable at all,
// which is distinct from a declared variable holding an empty string.
type Variable struct {
	Declared bool
	Value    string
}
