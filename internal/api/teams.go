package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kevbot021/smart-tasks/internal/email"
	"github.com/kevbot021/smart-tasks/pkg/team"
)

func (s *Server) handleTeamCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, 400, "name is required")
		return
	}

	t, err := s.teams.CreateTeam(r.Context(), req.Name)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 201, t)
}

func (s *Server) handleTeamGet(w http.ResponseWriter, r *http.Request) {
	t, err := s.teams.GetTeam(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, 404, err.Error())
		return
	}
	writeJSON(w, 200, t)
}

func (s *Server) handleTeamMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.teams.Members(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, members)
}

// handleInvitationCreate records the invitation and emails the invitee. When
// the email can't be sent the invitation is cancelled so it can be retried.
func (s *Server) handleInvitationCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email  string `json:"email"`
		TeamID string `json:"teamId"`
		Name   string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.Email == "" || req.TeamID == "" {
		writeError(w, 400, "email and teamId are required")
		return
	}

	t, err := s.teams.GetTeam(r.Context(), req.TeamID)
	if err != nil {
		writeError(w, 404, "team not found")
		return
	}

	inv, err := s.teams.CreateInvitation(r.Context(), req.TeamID, req.Email, req.Name)
	if err != nil {
		if errors.Is(err, team.ErrDuplicateInvitation) {
			writeError(w, 409, "an invitation for this email already exists")
			return
		}
		writeError(w, 500, err.Error())
		return
	}

	invitationURL := fmt.Sprintf("%s/invite/accept?token=%s", s.baseURL, inv.Token)
	if err := s.mail.Send(r.Context(), email.InvitationMessage(req.Email, t.Name, invitationURL)); err != nil {
		s.log.Error("send invitation email", "error", err, "invitation_id", inv.ID)
		if cerr := s.teams.CancelInvitation(r.Context(), inv.ID); cerr != nil {
			s.log.Error("cancel invitation after email failure", "error", cerr, "invitation_id", inv.ID)
		}
		writeError(w, 500, "failed to send invitation email")
		return
	}

	writeJSON(w, 201, inv)
}

func (s *Server) handleInvitationGet(w http.ResponseWriter, r *http.Request) {
	inv, err := s.teams.InvitationByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		if errors.Is(err, team.ErrInvitationExpired) {
			writeError(w, 410, "invitation expired")
			return
		}
		writeError(w, 404, "invitation not found")
		return
	}
	writeJSON(w, 200, inv)
}

func (s *Server) handleInvitationAccept(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.Token == "" {
		writeError(w, 400, "token is required")
		return
	}

	u, err := s.teams.AcceptInvitation(r.Context(), req.Token, req.Name)
	if err != nil {
		if errors.Is(err, team.ErrInvitationExpired) {
			writeError(w, 410, "invitation expired")
			return
		}
		writeError(w, 404, "invitation not found")
		return
	}
	writeJSON(w, 201, u)
}

// handleTaskNotification emails the assignee about a task assignment.
func (s *Server) handleTaskNotification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskID     string `json:"taskId"`
		AssigneeID string `json:"assigneeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.TaskID == "" || req.AssigneeID == "" {
		writeError(w, 400, "taskId and assigneeId are required")
		return
	}

	ctx := r.Context()
	t, err := s.tasks.Get(ctx, req.TaskID)
	if err != nil {
		writeError(w, 404, "task not found")
		return
	}
	assignee, err := s.teams.GetUser(ctx, req.AssigneeID)
	if err != nil {
		writeError(w, 404, "assignee not found")
		return
	}
	assigner, err := s.teams.GetUser(ctx, t.CreatedByUserID)
	if err != nil {
		writeError(w, 404, "assigner not found")
		return
	}
	tm, err := s.teams.GetTeam(ctx, t.TeamID)
	if err != nil {
		writeError(w, 404, "team not found")
		return
	}

	taskURL := fmt.Sprintf("%s/tasks/%s", s.baseURL, t.ID)
	msg := email.TaskNotificationMessage(assignee.Email, t.Description, assigner.Name, tm.Name, taskURL)
	if err := s.mail.Send(ctx, msg); err != nil {
		s.log.Error("send task notification", "error", err, "task_id", t.ID)
		writeError(w, 500, "failed to send notification")
		return
	}
	writeJSON(w, 200, map[string]bool{"success": true})
}
