// Package events is an in-process fan-out hub for task activity. Handlers
// publish after successful writes; the websocket stream subscribes.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one task activity notification.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"` // e.g. "task.created", "task.assigned"
	TaskID    string         `json:"task_id,omitempty"`
	TeamID    string         `json:"team_id,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Hub fans events out to all subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewHub creates a Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Publish delivers an event to every subscriber. Sends are non-blocking;
// a subscriber that has fallen behind misses the event rather than stalling
// the publisher.
func (h *Hub) Publish(eventType, taskID, teamID string, payload map[string]any) Event {
	e := Event{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Type:      eventType,
		TaskID:    taskID,
		TeamID:    teamID,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	h.mu.RLock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
	h.mu.RUnlock()
	return e
}

// Subscribe returns a buffered channel receiving all published events.
func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, 64)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
	close(ch)
}
