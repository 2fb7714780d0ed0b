package api

import (
	"encoding/json"
	"net/http"

	"github.com/kevbot021/smart-tasks/pkg/task"
)

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	teamID := r.URL.Query().Get("team_id")
	if teamID == "" {
		writeError(w, 400, "team_id is required")
		return
	}
	assignedTo := r.URL.Query().Get("assigned_to")

	tasks, err := s.tasks.ListByTeam(r.Context(), teamID, assignedTo)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, tasks)
}

func (s *Server) handleTaskGet(w http.ResponseWriter, r *http.Request) {
	t, err := s.tasks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, 404, err.Error())
		return
	}
	writeJSON(w, 200, t)
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var t task.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if t.Description == "" {
		writeError(w, 400, "description is required")
		return
	}
	if t.TeamID == "" {
		writeError(w, 400, "team_id is required")
		return
	}

	result, err := s.tasks.Create(r.Context(), &t)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	s.hub.Publish("task.created", result.ID, result.TeamID, map[string]any{"description": result.Description})
	writeJSON(w, 201, result)
}

func (s *Server) handleTaskUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.Description == "" {
		writeError(w, 400, "description is required")
		return
	}

	t, err := s.tasks.UpdateDescription(r.Context(), id, req.Description)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	s.hub.Publish("task.updated", t.ID, t.TeamID, map[string]any{"description": t.Description})
	writeJSON(w, 200, t)
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.tasks.Delete(r.Context(), id); err != nil {
		writeError(w, 404, err.Error())
		return
	}
	s.hub.Publish("task.deleted", id, "", nil)
	writeJSON(w, 200, map[string]bool{"success": true})
}

func (s *Server) handleTaskComplete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		IsComplete bool `json:"is_complete"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}

	t, err := s.tasks.SetComplete(r.Context(), id, req.IsComplete)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	s.hub.Publish("task.completed", t.ID, t.TeamID, map[string]any{"is_complete": t.IsComplete})
	writeJSON(w, 200, t)
}

func (s *Server) handleTaskAssign(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		AssignedUserID *string `json:"assigned_user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}

	t, err := s.tasks.Assign(r.Context(), id, req.AssignedUserID)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	s.hub.Publish("task.assigned", t.ID, t.TeamID, map[string]any{"assigned_user_id": t.AssignedUserID})
	writeJSON(w, 200, t)
}

// handleTaskRegenerate is the description-edit flow: update the description,
// regenerate subtasks from it, and replace the old ones.
func (s *Server) handleTaskRegenerate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.Description == "" {
		writeError(w, 400, "description is required")
		return
	}

	t, err := s.tasks.UpdateDescription(r.Context(), id, req.Description)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}

	subtasks, err := s.ai.GenerateSubtasks(r.Context(), req.Description)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}

	subs, err := s.tasks.ReplaceSubtasks(r.Context(), id, subtasks)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	t.SubTasks = subs

	s.hub.Publish("task.regenerated", t.ID, t.TeamID, map[string]any{"subtasks": len(subs)})
	writeJSON(w, 200, t)
}

func (s *Server) handleSubtaskComplete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		IsComplete bool `json:"is_complete"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}

	st, err := s.tasks.SetSubtaskComplete(r.Context(), id, req.IsComplete)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	s.hub.Publish("subtask.completed", st.TaskID, "", map[string]any{"subtask_id": st.ID, "is_complete": st.IsComplete})
	writeJSON(w, 200, st)
}
