package email

import (
	"strings"
	"testing"
)

func TestInvitationMessage(t *testing.T) {
	m := InvitationMessage("dana@example.com", "Woodworkers", "http://app.test/invite/accept?token=tok-abc")
	if m.To != "dana@example.com" {
		t.Errorf("to = %q", m.To)
	}
	if !strings.Contains(m.Subject, "Woodworkers") {
		t.Errorf("subject = %q", m.Subject)
	}
	if !strings.Contains(m.HTML, "token=tok-abc") {
		t.Errorf("body missing accept link: %q", m.HTML)
	}
}

func TestTaskNotificationMessage(t *testing.T) {
	m := TaskNotificationMessage("dana@example.com", "Build a bookshelf", "Sam", "Woodworkers", "http://app.test/tasks/task-1")
	if !strings.Contains(m.Subject, "Sam") || !strings.Contains(m.Subject, "Woodworkers") {
		t.Errorf("subject = %q", m.Subject)
	}
	for _, want := range []string{"Build a bookshelf", "/tasks/task-1"} {
		if !strings.Contains(m.HTML, want) {
			t.Errorf("body missing %q: %q", want, m.HTML)
		}
	}
}
