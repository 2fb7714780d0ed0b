package task

import (
	"context"
	"time"
)

// Task is a unit of work owned by a team.
type Task struct {
	ID              string    `json:"id"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	IsComplete      bool      `json:"is_complete"`
	AssignedUserID  *string   `json:"assigned_user_id"`
	CreatedByUserID string    `json:"created_by_user_id"`
	TeamID          string    `json:"team_id"`
	AudioSummary    string    `json:"audio_summary,omitempty"`  // base64 mp3
	CartoonSlides   string    `json:"cartoon_slides,omitempty"` // external URL
	CreatedAt       time.Time `json:"created_at"`
	SubTasks        []Subtask `json:"sub_tasks,omitempty"`
}

// Subtask belongs to exactly one Task and is deleted with it.
type Subtask struct {
	ID          string `json:"id"`
	TaskID      string `json:"task_id"`
	Description string `json:"description"`
	IsComplete  bool   `json:"is_complete"`
}

// GeneratedDetails is the AI-produced payload persisted onto a task: the
// category and media on the task row, the subtasks as fresh rows.
type GeneratedDetails struct {
	Category      string
	Subtasks      []string
	AudioSummary  string
	CartoonSlides string
}

// Store is the contract for task persistence.
type Store interface {
	Create(ctx context.Context, t *Task) (*Task, error)
	Get(ctx context.Context, id string) (*Task, error)
	ListByTeam(ctx context.Context, teamID, assignedUserID string) ([]Task, error)
	UpdateDescription(ctx context.Context, id, description string) (*Task, error)
	SetComplete(ctx context.Context, id string, complete bool) (*Task, error)
	Assign(ctx context.Context, id string, userID *string) (*Task, error)
	Delete(ctx context.Context, id string) error

	SetSubtaskComplete(ctx context.Context, subtaskID string, complete bool) (*Subtask, error)

	// SetGeneratedDetails writes the task-row updates and the subtask
	// replacement in a single transaction.
	SetGeneratedDetails(ctx context.Context, id string, d GeneratedDetails) (*Task, error)
	// ReplaceSubtasks transactionally deletes a task's subtasks and
	// bulk-inserts the given descriptions with is_complete=false.
	ReplaceSubtasks(ctx context.Context, taskID string, descriptions []string) ([]Subtask, error)

	Count(ctx context.Context) (int, error)
	EnsureTable(ctx context.Context) error
}
