// Package activity holds the user-facing list of activities and the
// commands that drive them.
package activity

import "strings"

// Activity is one controllable activity and its last known level.
type Activity struct {
	Name    string `json:"name"`
	Command string `json:"command"`
	Percent int    `json:"percent"`
}

// On reports whether the activity is at a non-zero level.
func (a Activity) On() bool {
	return a.Percent > 0
}

// Commander sends activity commands to the fleet.
type Commander interface {
	SendCommand(activity string, percent int)
	CurrentActivities() map[string]int
}

// CommandResolver maps an activity name to the command sent for it.
type CommandResolver interface {
	ResolveCommand(name string) (string, bool)
}

// CommandMap is a CommandResolver backed by a fixed map.
type CommandMap map[string]string

func (m CommandMap) ResolveCommand(name string) (string, bool) {
	cmd, ok := m[strings.ToLower(name)]
	return cmd, ok && cmd != ""
}

// Notifying is implemented by displays that follow the store.
type Notifying interface {
	ListChanged()
	ActivityChanged(index int, a Activity)
}
