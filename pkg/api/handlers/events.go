package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/patriot/pkg/photon"
)

// HeartbeatInterval is how often an idle event stream sends a heartbeat.
var HeartbeatInterval = 30 * time.Second

// EventsHandler streams fleet events
type EventsHandler struct {
	bus *photon.EventBus
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(bus *photon.EventBus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

// Events handles GET /events (SSE stream)
func (h *EventsHandler) Events(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	eventChan := h.bus.Subscribe()
	defer h.bus.Unsubscribe(eventChan)

	c.SSEvent("connected", gin.H{
		"timestamp": time.Now(),
		"message":   "Connected to fleet event stream",
	})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()

	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-clientGone:
			return

		case event, ok := <-eventChan:
			if !ok {
				return
			}
			c.SSEvent(event.Type, event)
			c.Writer.Flush()

		case <-ticker.C:
			c.SSEvent("heartbeat", gin.H{"timestamp": time.Now()})
			c.Writer.Flush()
		}
	}
}
