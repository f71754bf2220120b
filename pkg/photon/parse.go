package photon

import (
	"strconv"
	"strings"
)

// ParseDeviceNames parses the "Devices" variable: a comma separated list of
// name[:extra] items. Names are lower-cased; anything after a colon is ignored.
func ParseDeviceNames(s string) map[string]struct{} {
	return parseNameList(s)
}

// ParseSupported parses the "Supported" variable. Same format as "Devices".
func ParseSupported(s string) map[string]struct{} {
	return parseNameList(s)
}

func parseNameList(s string) map[string]struct{} {
	names := make(map[string]struct{})
	for _, item := range strings.Split(s, ",") {
		name, _, _ := strings.Cut(item, ":")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		names[name] = struct{}{}
	}
	return names
}

// ParseActivities parses the "Activities" variable: name:percent items.
// Unparsable or missing percents default to 0.
func ParseActivities(s string) map[string]int {
	activities := make(map[string]int)
	for _, item := range strings.Split(s, ",") {
		name, value, _ := strings.Cut(item, ":")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		percent, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			percent = 0
		}
		activities[name] = percent
	}
	return activities
}

// ParseEvent parses a live "name:percent" event payload.
// ok is false unless percent is an integer in [0,100].
func ParseEvent(data string) (name string, percent int, ok bool) {
	name, value, found := strings.Cut(data, ":")
	if !found {
		return "", 0, false
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", 0, false
	}
	percent, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || percent < 0 || percent > 100 {
		return "", 0, false
	}
	return name, percent, true
}

// FormatCommand formats an outbound "activity:percent" payload.
func FormatCommand(activity string, percent int) string {
	return activity + ":" + strconv.Itoa(percent)
}
