package core

import (
	"fmt"
	"sync"
	"time"
)

// EventType represents the kind of change that occurred in the note set.
type EventType string

const (
	EventCreated  EventType = "CREATED"
	EventUpdated  EventType = "UPDATED"
	EventDeleted  EventType = "DELETED"
	EventRestored EventType = "RESTORED"
	EventImported EventType = "IMPORTED"
	EventPinned   EventType = "PINNED"
	EventReloaded EventType = "RELOADED"
)

// Event signals one mutation of the note set. Subscribers (typically a list
// renderer) use it as a re-render hint; the Cache is the source for the data.
type Event struct {
	Type      EventType
	ID        int64
	Timestamp int64 // Unix timestamp
}

// String renders the event compactly ("UPDATED:3"). It also satisfies the
// lifecycle Event interface so the event stream can feed a supervisor.
func (e Event) String() string {
	return fmt.Sprintf("%s:%d", e.Type, e.ID)
}

// broker fans events out to subscribers over buffered channels.
// A slow subscriber loses events rather than blocking a mutation; the event
// stream is a hint, not a log.
type broker struct {
	mu     sync.Mutex
	subs   []chan Event
	buffer int
}

func newBroker(buffer int) *broker {
	if buffer <= 0 {
		buffer = 100
	}
	return &broker{buffer: buffer}
}

func (b *broker) subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, b.buffer)
	b.subs = append(b.subs, ch)
	return ch
}

func (b *broker) publish(t EventType, id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := Event{Type: t, ID: id, Timestamp: time.Now().Unix()}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			// Subscriber buffer full; drop. The next event still signals a re-render.
		}
	}
}

func (b *broker) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
