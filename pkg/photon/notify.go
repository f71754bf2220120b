package photon

// Delegate receives a photon's parsed state once a refresh has completed.
type Delegate interface {
	HasDevices(photon string, devices map[string]struct{})
	Supports(photon string, supported map[string]struct{})
	HasSeenActivities(photon string, activities map[string]int)
}

// Observer receives fleet-level notifications from a Manager.
type Observer interface {
	DeviceFound(name string)
	DeviceLost(name string)
	SupportedListChanged(names []string)
	ActivityChanged(name string, percent int)
}
