package activity

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store is the ordered list of activities shown to the user. Activities
// are appended as the fleet reports them and never removed.
type Store struct {
	commander Commander
	resolver  CommandResolver

	mu         sync.RWMutex
	activities []Activity

	observersMu sync.RWMutex
	observers   []Notifying
}

// NewStore creates an empty store. resolver may be nil.
func NewStore(commander Commander, resolver CommandResolver) *Store {
	return &Store{commander: commander, resolver: resolver}
}

// AddObserver registers n for list and activity changes.
func (s *Store) AddObserver(n Notifying) {
	s.observersMu.Lock()
	s.observers = append(s.observers, n)
	s.observersMu.Unlock()
}

func (s *Store) notify(fn func(Notifying)) {
	s.observersMu.RLock()
	observers := append([]Notifying(nil), s.observers...)
	s.observersMu.RUnlock()

	for _, n := range observers {
		fn(n)
	}
}

// Activities returns a copy of the list.
func (s *Store) Activities() []Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Activity(nil), s.activities...)
}

// Len returns the number of activities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities)
}

// Find returns the index and value of the named activity.
func (s *Store) Find(name string) (int, Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(name)
	if i < 0 {
		return -1, Activity{}, false
	}
	return i, s.activities[i], true
}

func (s *Store) indexOf(name string) int {
	for i, a := range s.activities {
		if a.Name == name {
			return i
		}
	}
	return -1
}

func (s *Store) commandFor(name string) string {
	if s.resolver != nil {
		if cmd, ok := s.resolver.ResolveCommand(name); ok {
			return cmd
		}
	}
	return name
}

// RefreshActivities appends an activity for every name not yet listed.
// Existing entries keep their place and level. Observers get one
// ListChanged per call.
func (s *Store) RefreshActivities(names []string) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	var current map[string]int
	if s.commander != nil {
		current = s.commander.CurrentActivities()
	}

	s.mu.Lock()
	added := 0
	for _, name := range sorted {
		if name == "" || s.indexOf(name) >= 0 {
			continue
		}
		s.activities = append(s.activities, Activity{
			Name:    name,
			Command: s.commandFor(name),
			Percent: current[name],
		})
		added++
	}
	s.mu.Unlock()

	log.Debug().Int("added", added).Int("total", s.Len()).Msg("Activities refreshed")
	s.notify(func(n Notifying) { n.ListChanged() })
}

// ToggleActivity turns an activity off when it is on, and fully on otherwise.
func (s *Store) ToggleActivity(index int) error {
	_, err := s.update(index, func(a Activity) int {
		if a.On() {
			return 0
		}
		return 100
	})
	return err
}

// SetActivity updates the local level and sends the command. The local
// value is not rolled back if the command fails to reach the fleet.
func (s *Store) SetActivity(index, percent int) error {
	if percent < 0 || percent > 100 {
		return ErrInvalidPercent
	}
	_, err := s.update(index, func(Activity) int { return percent })
	return err
}

// update picks and stores the new level under one lock, then sends the
// command and notifies outside it.
func (s *Store) update(index int, level func(Activity) int) (Activity, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.activities) {
		s.mu.Unlock()
		return Activity{}, ErrIndexOutOfRange
	}
	percent := level(s.activities[index])
	s.activities[index].Percent = percent
	a := s.activities[index]
	s.mu.Unlock()

	log.Info().Str("activity", a.Name).Int("percent", percent).Msg("Setting activity")
	if s.commander != nil {
		s.commander.SendCommand(a.Command, percent)
	}
	s.notify(func(n Notifying) { n.ActivityChanged(index, a) })
	return a, nil
}

// SetByName is SetActivity for a named activity.
func (s *Store) SetByName(name string, percent int) (Activity, error) {
	if percent < 0 || percent > 100 {
		return Activity{}, ErrInvalidPercent
	}
	i, _, ok := s.Find(strings.ToLower(name))
	if !ok {
		return Activity{}, ErrActivityNotFound
	}
	return s.update(i, func(Activity) int { return percent })
}

// ToggleByName is ToggleActivity for a named activity.
func (s *Store) ToggleByName(name string) (Activity, error) {
	i, _, ok := s.Find(strings.ToLower(name))
	if !ok {
		return Activity{}, ErrActivityNotFound
	}
	return s.update(i, func(a Activity) int {
		if a.On() {
			return 0
		}
		return 100
	})
}

// DeviceFound implements photon.Observer.
func (s *Store) DeviceFound(name string) {
	log.Debug().Str("device", name).Msg("Device found")
}

// DeviceLost implements photon.Observer.
func (s *Store) DeviceLost(name string) {
	log.Debug().Str("device", name).Msg("Device lost")
}

// SupportedListChanged implements photon.Observer.
func (s *Store) SupportedListChanged(names []string) {
	s.RefreshActivities(names)
}

// ActivityChanged implements photon.Observer. Names the store does not
// list are ignored.
func (s *Store) ActivityChanged(name string, percent int) {
	s.mu.Lock()
	i := s.indexOf(name)
	if i < 0 {
		s.mu.Unlock()
		log.Debug().Str("activity", name).Msg("Ignoring change for unknown activity")
		return
	}
	s.activities[i].Percent = percent
	a := s.activities[i]
	s.mu.Unlock()

	s.notify(func(n Notifying) { n.ActivityChanged(i, a) })
}
