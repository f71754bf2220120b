package photon

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types published on an EventBus.
const (
	EventDeviceFound      = "device_found"
	EventDeviceLost       = "device_lost"
	EventSupportedChanged = "supported_changed"
	EventActivityChanged  = "activity_changed"
)

// Event is a tagged fleet notification.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name,omitempty"`
	Percent   *int      `json:"percent,omitempty"`
	Names     []string  `json:"names,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventBus turns Observer callbacks into Events and fans them out to
// subscriber channels. Slow subscribers miss events rather than block the fleet.
type EventBus struct {
	mu          sync.Mutex
	subscribers []chan Event
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe returns a channel that receives fleet events.
func (b *EventBus) Subscribe() chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscription.
func (b *EventBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

func (b *EventBus) publish(evt Event) {
	evt.ID = uuid.NewString()
	evt.Timestamp = time.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (b *EventBus) DeviceFound(name string) {
	b.publish(Event{Type: EventDeviceFound, Name: name})
}

func (b *EventBus) DeviceLost(name string) {
	b.publish(Event{Type: EventDeviceLost, Name: name})
}

func (b *EventBus) SupportedListChanged(names []string) {
	b.publish(Event{Type: EventSupportedChanged, Names: append([]string(nil), names...)})
}

func (b *EventBus) ActivityChanged(name string, percent int) {
	b.publish(Event{Type: EventActivityChanged, Name: name, Percent: &percent})
}
