package cloud

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// streamPayload is the JSON carried on each "data:" line of the event stream.
type streamPayload struct {
	Data        string    `json:"data"`
	TTL         any       `json:"ttl"`
	PublishedAt time.Time `json:"published_at"`
	CoreID      string    `json:"coreid"`
}

// readEventStream parses a server-sent-event stream into events until the
// stream ends or ctx is done.
func readEventStream(ctx context.Context, r io.Reader, out chan<- Event) error {
	scanner := bufio.NewScanner(r)

	var name string
	var data strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			if name != "" && data.Len() > 0 {
				evt, ok := decodeStreamEvent(name, data.String())
				if ok {
					select {
					case out <- evt:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}
			name = ""
			data.Reset()
		case strings.HasPrefix(line, ":"):
			// keepalive comment
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}

	return scanner.Err()
}

func decodeStreamEvent(name, raw string) (Event, bool) {
	var p streamPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Debug().Err(err).Str("event", name).Msg("Dropping undecodable stream event")
		return Event{}, false
	}

	return Event{
		Name:        name,
		Data:        p.Data,
		TTL:         cast.ToInt(p.TTL),
		PublishedAt: p.PublishedAt,
		DeviceID:    p.CoreID,
	}, true
}
