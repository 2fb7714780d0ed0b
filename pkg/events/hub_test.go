package events

import (
	"testing"
	"time"
)

func TestPublishFansOut(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	defer h.Unsubscribe(a)
	defer h.Unsubscribe(b)

	sent := h.Publish("task.created", "task-1", "team-1", map[string]any{"description": "x"})
	if sent.ID == "" {
		t.Error("published event has no ID")
	}

	for _, ch := range []chan Event{a, b} {
		select {
		case e := <-ch:
			if e.Type != "task.created" || e.TaskID != "task-1" || e.TeamID != "team-1" {
				t.Errorf("received %+v", e)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

// TestPublishDropsSlowSubscriber verifies a full subscriber never blocks the
// publisher.
func TestPublishDropsSlowSubscriber(t *testing.T) {
	h := NewHub()
	slow := h.Subscribe()
	defer h.Unsubscribe(slow)

	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(slow)+10; i++ {
			h.Publish("task.updated", "task-1", "", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
	if len(slow) != cap(slow) {
		t.Errorf("buffer holds %d events, want full at %d", len(slow), cap(slow))
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	h.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("channel still open after unsubscribe")
	}

	// Publishing after unsubscribe must not panic on the closed channel.
	h.Publish("task.deleted", "task-1", "", nil)
}
