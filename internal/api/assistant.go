package api

import (
	"encoding/json"
	"net/http"

	"github.com/kevbot021/smart-tasks/pkg/assistant"
	"github.com/kevbot021/smart-tasks/pkg/task"
)

// chatEnvelope is the wire shape of a chat turn. Message is a JSON-encoded
// AIResponse so the client renders it without knowing whether it came from
// the provider or the fallback.
type chatEnvelope struct {
	ThreadID *string `json:"threadId"`
	Message  string  `json:"message"`
}

func defaultEnvelope() chatEnvelope {
	msg, _ := json.Marshal(assistant.DefaultResponse())
	return chatEnvelope{ThreadID: nil, Message: string(msg)}
}

func (s *Server) handleAssistantChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ThreadID    string                `json:"threadId"`
		TaskContext assistant.TaskContext `json:"taskContext"`
		Message     string                `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.TaskContext.Description == "" {
		writeError(w, 400, "taskContext.description is required")
		return
	}

	result, err := s.ai.Chat(r.Context(), req.ThreadID, req.TaskContext, req.Message)
	if err != nil {
		// The UI must always receive a renderable payload; provider,
		// terminal and timeout failures answer 500 with the default.
		s.log.Error("assistant chat failed", "error", err)
		writeJSON(w, 500, defaultEnvelope())
		return
	}

	msg, err := json.Marshal(result.Response)
	if err != nil {
		s.log.Error("encode chat response", "error", err)
		writeJSON(w, 500, defaultEnvelope())
		return
	}
	writeJSON(w, 200, chatEnvelope{ThreadID: &result.ThreadID, Message: string(msg)})
}

func (s *Server) handleAssistantInitialize(w http.ResponseWriter, r *http.Request) {
	id, err := s.ai.InitializeAssistant(r.Context())
	if err != nil {
		s.log.Error("initialize assistant", "error", err)
		writeError(w, 500, "failed to initialize assistant")
		return
	}
	writeJSON(w, 200, map[string]string{"assistantId": id})
}

func (s *Server) handleGenerateSubtasks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskDescription string `json:"taskDescription"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.TaskDescription == "" {
		writeError(w, 400, "taskDescription is required")
		return
	}

	subtasks, err := s.ai.GenerateSubtasks(r.Context(), req.TaskDescription)
	if err != nil {
		s.log.Error("generate subtasks", "error", err)
		writeError(w, 500, "failed to generate subtasks")
		return
	}
	writeJSON(w, 200, map[string]any{"subtasks": subtasks})
}

// handleGenerateTaskDetails generates category, subtasks and media for an
// existing task and persists the whole result atomically.
func (s *Server) handleGenerateTaskDetails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskDescription string `json:"taskDescription"`
		TaskID          string `json:"taskId"`
		TeamID          string `json:"teamId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.TaskDescription == "" || req.TaskID == "" {
		writeError(w, 400, "taskDescription and taskId are required")
		return
	}

	details, err := s.ai.GenerateDetails(r.Context(), req.TaskDescription)
	if err != nil {
		s.log.Error("generate task details", "error", err, "task_id", req.TaskID)
		writeError(w, 500, "failed to generate task details")
		return
	}

	t, err := s.tasks.SetGeneratedDetails(r.Context(), req.TaskID, task.GeneratedDetails{
		Category:      details.Category,
		Subtasks:      details.Subtasks,
		AudioSummary:  details.AudioSummary,
		CartoonSlides: details.CartoonSlides,
	})
	if err != nil {
		s.log.Error("persist task details", "error", err, "task_id", req.TaskID)
		writeError(w, 500, "failed to save task details")
		return
	}

	s.hub.Publish("task.generated", t.ID, t.TeamID, map[string]any{
		"category": t.Category,
		"subtasks": len(t.SubTasks),
	})
	writeJSON(w, 200, map[string]any{
		"success":        true,
		"category":       details.Category,
		"subtasks":       details.Subtasks,
		"audio_summary":  details.AudioSummary,
		"cartoon_slides": details.CartoonSlides,
	})
}
