package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/kevbot021/smart-tasks/pkg/assistant"
	"github.com/kevbot021/smart-tasks/pkg/task"
)

func chatRequest() map[string]any {
	return map[string]any{
		"threadId": "",
		"message":  "",
		"taskContext": map[string]any{
			"description": "Build a bookshelf",
			"category":    "Work",
		},
	}
}

func TestAssistantChat(t *testing.T) {
	fx := defaultFixture()
	fx.provider.latest = `{"question":"What's the budget?","options":["Low","Medium","High"],"assessment":"continuing","confidence_score":10}`

	rec := doJSON(t, newTestServer(fx), http.MethodPost, "/api/assistant/chat", chatRequest())
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	env := decodeBody[chatEnvelope](t, rec)
	if env.ThreadID == nil || *env.ThreadID != "thread_test" {
		t.Errorf("threadId = %v, want thread_test", env.ThreadID)
	}

	var resp assistant.AIResponse
	if err := json.Unmarshal([]byte(env.Message), &resp); err != nil {
		t.Fatalf("message is not JSON: %v", err)
	}
	if resp.Question != "What's the budget?" || len(resp.Options) != 3 {
		t.Errorf("response = %+v", resp)
	}
}

// TestAssistantChatFailureReturnsDefault verifies a failed run still hands
// the client a renderable default payload, with a 500 status.
func TestAssistantChatFailureReturnsDefault(t *testing.T) {
	fx := defaultFixture()
	fx.provider.runStatus = assistant.StatusFailed

	rec := doJSON(t, newTestServer(fx), http.MethodPost, "/api/assistant/chat", chatRequest())
	if rec.Code != 500 {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	env := decodeBody[chatEnvelope](t, rec)
	if env.ThreadID != nil {
		t.Errorf("threadId = %v, want null", env.ThreadID)
	}

	var resp assistant.AIResponse
	if err := json.Unmarshal([]byte(env.Message), &resp); err != nil {
		t.Fatalf("message is not JSON: %v", err)
	}
	want := assistant.DefaultResponse()
	if resp.Question != want.Question || len(resp.Options) != len(want.Options) {
		t.Errorf("response = %+v, want default %+v", resp, want)
	}
}

func TestAssistantChatValidation(t *testing.T) {
	s := newTestServer(defaultFixture())

	rec := doJSON(t, s, http.MethodPost, "/api/assistant/chat", map[string]any{
		"taskContext": map[string]any{},
	})
	if rec.Code != 400 {
		t.Errorf("missing description: status = %d, want 400", rec.Code)
	}
}

func TestAssistantInitialize(t *testing.T) {
	rec := doJSON(t, newTestServer(defaultFixture()), http.MethodPost, "/api/assistant/initialize", nil)
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["assistantId"] != "asst_test" {
		t.Errorf("assistantId = %q", body["assistantId"])
	}
}

func TestGenerateSubtasksEndpoint(t *testing.T) {
	fx := defaultFixture()
	fx.provider.completion = "1. Buy wood\n2. Cut boards\n3. Assemble"

	rec := doJSON(t, newTestServer(fx), http.MethodPost, "/api/generate-subtasks", map[string]string{
		"taskDescription": "Build a bookshelf",
	})
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	body := decodeBody[map[string][]string](t, rec)
	if got := body["subtasks"]; len(got) != 3 || got[0] != "Buy wood" {
		t.Errorf("subtasks = %v", got)
	}
}

func TestGenerateSubtasksProviderError(t *testing.T) {
	fx := defaultFixture()
	fx.provider.completeErr = errors.New("rate limited")

	rec := doJSON(t, newTestServer(fx), http.MethodPost, "/api/generate-subtasks", map[string]string{
		"taskDescription": "Build a bookshelf",
	})
	if rec.Code != 500 {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

// TestGenerateTaskDetails verifies the full pipeline: generation, one
// transactional persist, and the combined response body.
func TestGenerateTaskDetails(t *testing.T) {
	fx := defaultFixture()
	fx.provider.completion = "Category: Work\n1. Buy wood\n2. Cut boards\n3. Assemble"
	fx.provider.speech = "bW9jayBhdWRpbw=="
	fx.provider.imageURL = "https://img.example/cartoon.png"

	var persisted task.GeneratedDetails
	fx.tasks.setGenerated = func(_ context.Context, id string, d task.GeneratedDetails) (*task.Task, error) {
		persisted = d
		out := sampleTask()
		out.Category = d.Category
		for _, desc := range d.Subtasks {
			out.SubTasks = append(out.SubTasks, task.Subtask{TaskID: id, Description: desc})
		}
		return out, nil
	}
	sub := fx.hub.Subscribe()
	defer fx.hub.Unsubscribe(sub)

	rec := doJSON(t, newTestServer(fx), http.MethodPost, "/api/generate-task-details", map[string]string{
		"taskDescription": "Build a bookshelf",
		"taskId":          "task-1",
		"teamId":          "team-1",
	})
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	if persisted.Category != "Work" || len(persisted.Subtasks) != 3 {
		t.Errorf("persisted = %+v", persisted)
	}
	if persisted.AudioSummary == "" || persisted.CartoonSlides == "" {
		t.Error("media missing from persisted details")
	}

	body := decodeBody[map[string]any](t, rec)
	if body["success"] != true || body["category"] != "Work" {
		t.Errorf("body = %v", body)
	}
	waitEvent(t, sub, "task.generated")
}

func TestGenerateTaskDetailsPersistFailure(t *testing.T) {
	fx := defaultFixture()
	fx.provider.completion = "Category: Work\n1. a"
	fx.tasks.setGenerated = func(context.Context, string, task.GeneratedDetails) (*task.Task, error) {
		return nil, errors.New("tx aborted")
	}
	rec := doJSON(t, newTestServer(fx), http.MethodPost, "/api/generate-task-details", map[string]string{
		"taskDescription": "x",
		"taskId":          "task-1",
	})
	if rec.Code != 500 {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestGenerateTaskDetailsValidation(t *testing.T) {
	s := newTestServer(defaultFixture())
	rec := doJSON(t, s, http.MethodPost, "/api/generate-task-details", map[string]string{
		"taskDescription": "x",
	})
	if rec.Code != 400 {
		t.Errorf("missing taskId: status = %d, want 400", rec.Code)
	}
}
