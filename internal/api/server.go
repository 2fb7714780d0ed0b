package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kevbot021/smart-tasks/internal/email"
	"github.com/kevbot021/smart-tasks/pkg/assistant"
	"github.com/kevbot021/smart-tasks/pkg/events"
	"github.com/kevbot021/smart-tasks/pkg/task"
	"github.com/kevbot021/smart-tasks/pkg/team"
)

// Server is the HTTP API server.
type Server struct {
	tasks   task.Store
	teams   team.Store
	ai      *assistant.Service
	mail    email.Sender
	hub     *events.Hub
	baseURL string
	log     *slog.Logger
	mux     *http.ServeMux
}

// New creates a new Server.
func New(tasks task.Store, teams team.Store, ai *assistant.Service, mail email.Sender, hub *events.Hub, baseURL string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		tasks:   tasks,
		teams:   teams,
		ai:      ai,
		mail:    mail,
		hub:     hub,
		baseURL: baseURL,
		log:     log,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	// Tasks
	s.mux.HandleFunc("GET /api/tasks", s.handleTaskList)
	s.mux.HandleFunc("POST /api/tasks", s.handleTaskCreate)
	s.mux.HandleFunc("GET /api/tasks/stream", s.handleTaskStream)
	s.mux.HandleFunc("GET /api/tasks/{id}", s.handleTaskGet)
	s.mux.HandleFunc("PATCH /api/tasks/{id}", s.handleTaskUpdate)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.handleTaskDelete)
	s.mux.HandleFunc("POST /api/tasks/{id}/complete", s.handleTaskComplete)
	s.mux.HandleFunc("POST /api/tasks/{id}/assign", s.handleTaskAssign)
	s.mux.HandleFunc("POST /api/tasks/{id}/regenerate", s.handleTaskRegenerate)
	s.mux.HandleFunc("POST /api/subtasks/{id}/complete", s.handleSubtaskComplete)

	// AI
	s.mux.HandleFunc("POST /api/assistant/chat", s.handleAssistantChat)
	s.mux.HandleFunc("POST /api/assistant/initialize", s.handleAssistantInitialize)
	s.mux.HandleFunc("POST /api/generate-subtasks", s.handleGenerateSubtasks)
	s.mux.HandleFunc("POST /api/generate-task-details", s.handleGenerateTaskDetails)

	// Teams and invitations
	s.mux.HandleFunc("POST /api/teams", s.handleTeamCreate)
	s.mux.HandleFunc("GET /api/teams/{id}", s.handleTeamGet)
	s.mux.HandleFunc("GET /api/teams/{id}/members", s.handleTeamMembers)
	s.mux.HandleFunc("POST /api/invitations", s.handleInvitationCreate)
	s.mux.HandleFunc("GET /api/invitations/{token}", s.handleInvitationGet)
	s.mux.HandleFunc("POST /api/invitations/accept", s.handleInvitationAccept)
	s.mux.HandleFunc("POST /api/task-notifications", s.handleTaskNotification)

	// System
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.tasks.Count(r.Context())
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{"tasks": count})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
