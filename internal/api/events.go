package api

import (
	"encoding/json"
	"sync"

	"github.com/arcanejobs/arcanejobs/internal/job"
)

// Event is one Server-Sent Events frame.
type Event struct {
	Event string // "change"
	Data  string // JSON string
}

// Events fans store changes out to connected SSE clients.
type Events struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewEvents creates an empty hub.
func NewEvents() *Events {
	return &Events{subs: make(map[chan Event]struct{})}
}

// Subscribe creates a buffered channel that receives every published event.
func (e *Events) Subscribe() chan Event {
	ch := make(chan Event, 64)
	e.mu.Lock()
	e.subs[ch] = struct{}{}
	e.mu.Unlock()
	return ch
}

// Unsubscribe removes ch from the hub.
func (e *Events) Unsubscribe(ch chan Event) {
	e.mu.Lock()
	delete(e.subs, ch)
	e.mu.Unlock()
}

// Publish sends c to all subscribers without blocking; slow clients miss events.
func (e *Events) Publish(c job.Change) {
	data, err := json.Marshal(c)
	if err != nil {
		return
	}
	ev := Event{Event: "change", Data: string(data)}

	e.mu.RLock()
	defer e.mu.RUnlock()
	for ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
