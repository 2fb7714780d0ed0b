package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = "id, description, category, is_complete, assigned_user_id, created_by_user_id, team_id, audio_summary, cartoon_slides, created_at"

// PgStore is a PostgreSQL-backed task store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTable creates the tasks and sub_tasks tables if they don't exist.
func (s *PgStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id                 TEXT PRIMARY KEY,
			description        TEXT NOT NULL,
			category           TEXT NOT NULL DEFAULT 'Uncategorized',
			is_complete        BOOLEAN NOT NULL DEFAULT FALSE,
			assigned_user_id   TEXT,
			created_by_user_id TEXT NOT NULL,
			team_id            TEXT NOT NULL,
			audio_summary      TEXT NOT NULL DEFAULT '',
			cartoon_slides     TEXT NOT NULL DEFAULT '',
			created_at         TIMESTAMPTZ DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_team ON tasks(team_id, created_at)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assigned_user_id) WHERE assigned_user_id IS NOT NULL`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sub_tasks (
			id          TEXT PRIMARY KEY,
			task_id     TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			description TEXT NOT NULL,
			is_complete BOOLEAN NOT NULL DEFAULT FALSE
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_sub_tasks_task ON sub_tasks(task_id)`)
	return err
}

// Create inserts a new task.
func (s *PgStore) Create(ctx context.Context, t *Task) (*Task, error) {
	t.ID = uuid.Must(uuid.NewV7()).String()
	t.CreatedAt = time.Now().Truncate(time.Microsecond)
	if t.Category == "" {
		t.Category = "Uncategorized"
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (id, description, category, is_complete, assigned_user_id, created_by_user_id, team_id, audio_summary, cartoon_slides, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Description, t.Category, t.IsComplete, t.AssignedUserID, t.CreatedByUserID, t.TeamID, t.AudioSummary, t.CartoonSlides, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// Get retrieves a single task by ID, subtasks included.
func (s *PgStore) Get(ctx context.Context, id string) (*Task, error) {
	var t Task
	err := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id).
		Scan(&t.ID, &t.Description, &t.Category, &t.IsComplete, &t.AssignedUserID, &t.CreatedByUserID, &t.TeamID, &t.AudioSummary, &t.CartoonSlides, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}

	subs, err := s.subtasksFor(ctx, id)
	if err != nil {
		return nil, err
	}
	t.SubTasks = subs
	return &t, nil
}

// ListByTeam returns a team's tasks newest first, with subtasks. A non-empty
// assignedUserID narrows the list to that member's tasks (the non-admin view).
func (s *PgStore) ListByTeam(ctx context.Context, teamID, assignedUserID string) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE team_id = $1 ORDER BY created_at DESC`
	args := []any{teamID}
	if assignedUserID != "" {
		query = `SELECT ` + taskColumns + ` FROM tasks WHERE team_id = $1 AND assigned_user_id = $2 ORDER BY created_at DESC`
		args = append(args, assignedUserID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks, err := scanTaskRows(rows)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		subs, err := s.subtasksFor(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].SubTasks = subs
	}
	return tasks, nil
}

// UpdateDescription changes a task's description.
func (s *PgStore) UpdateDescription(ctx context.Context, id, description string) (*Task, error) {
	return s.updateReturning(ctx, `UPDATE tasks SET description = $1 WHERE id = $2 RETURNING `+taskColumns, description, id)
}

// SetComplete toggles a task's completion flag.
func (s *PgStore) SetComplete(ctx context.Context, id string, complete bool) (*Task, error) {
	return s.updateReturning(ctx, `UPDATE tasks SET is_complete = $1 WHERE id = $2 RETURNING `+taskColumns, complete, id)
}

// Assign sets or clears a task's assignee. A nil userID unassigns.
func (s *PgStore) Assign(ctx context.Context, id string, userID *string) (*Task, error) {
	return s.updateReturning(ctx, `UPDATE tasks SET assigned_user_id = $1 WHERE id = $2 RETURNING `+taskColumns, userID, id)
}

// Delete removes a task; sub_tasks cascade.
func (s *PgStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetSubtaskComplete toggles one subtask's completion flag.
func (s *PgStore) SetSubtaskComplete(ctx context.Context, subtaskID string, complete bool) (*Subtask, error) {
	var st Subtask
	err := s.pool.QueryRow(ctx, `
		UPDATE sub_tasks SET is_complete = $1 WHERE id = $2
		RETURNING id, task_id, description, is_complete`,
		complete, subtaskID).
		Scan(&st.ID, &st.TaskID, &st.Description, &st.IsComplete)
	if err != nil {
		return nil, fmt.Errorf("set subtask %s complete: %w", subtaskID, err)
	}
	return &st, nil
}

// SetGeneratedDetails persists an AI generation result atomically: the task
// row (category, audio, cartoon) and the replacement subtasks commit or roll
// back together, so a failure partway never leaves the task half-updated.
func (s *PgStore) SetGeneratedDetails(ctx context.Context, id string, d GeneratedDetails) (*Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var t Task
	err = tx.QueryRow(ctx, `
		UPDATE tasks SET category = $1, audio_summary = $2, cartoon_slides = $3
		WHERE id = $4 RETURNING `+taskColumns,
		d.Category, d.AudioSummary, d.CartoonSlides, id).
		Scan(&t.ID, &t.Description, &t.Category, &t.IsComplete, &t.AssignedUserID, &t.CreatedByUserID, &t.TeamID, &t.AudioSummary, &t.CartoonSlides, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update task %s details: %w", id, err)
	}

	subs, err := replaceSubtasksTx(ctx, tx, id, d.Subtasks)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	t.SubTasks = subs
	return &t, nil
}

// ReplaceSubtasks swaps a task's subtasks for the given descriptions in one
// transaction.
func (s *PgStore) ReplaceSubtasks(ctx context.Context, taskID string, descriptions []string) ([]Subtask, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	subs, err := replaceSubtasksTx(ctx, tx, taskID, descriptions)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return subs, nil
}

// Count returns the total task count.
func (s *PgStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n)
	return n, err
}

func (s *PgStore) updateReturning(ctx context.Context, query string, args ...any) (*Task, error) {
	var t Task
	err := s.pool.QueryRow(ctx, query, args...).
		Scan(&t.ID, &t.Description, &t.Category, &t.IsComplete, &t.AssignedUserID, &t.CreatedByUserID, &t.TeamID, &t.AudioSummary, &t.CartoonSlides, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &t, nil
}

func (s *PgStore) subtasksFor(ctx context.Context, taskID string) ([]Subtask, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, task_id, description, is_complete
		FROM sub_tasks WHERE task_id = $1 ORDER BY id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("subtasks for %s: %w", taskID, err)
	}
	defer rows.Close()

	var subs []Subtask
	for rows.Next() {
		var st Subtask
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Description, &st.IsComplete); err != nil {
			return nil, err
		}
		subs = append(subs, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return subs, nil
}

func replaceSubtasksTx(ctx context.Context, tx pgx.Tx, taskID string, descriptions []string) ([]Subtask, error) {
	if _, err := tx.Exec(ctx, `DELETE FROM sub_tasks WHERE task_id = $1`, taskID); err != nil {
		return nil, fmt.Errorf("delete subtasks for %s: %w", taskID, err)
	}

	subs := make([]Subtask, 0, len(descriptions))
	for _, desc := range descriptions {
		st := Subtask{
			ID:          uuid.Must(uuid.NewV7()).String(),
			TaskID:      taskID,
			Description: desc,
			IsComplete:  false,
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO sub_tasks (id, task_id, description, is_complete)
			VALUES ($1, $2, $3, $4)`,
			st.ID, st.TaskID, st.Description, st.IsComplete); err != nil {
			return nil, fmt.Errorf("insert subtask for %s: %w", taskID, err)
		}
		subs = append(subs, st)
	}
	return subs, nil
}

func scanTaskRows(rows pgx.Rows) ([]Task, error) {
	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Description, &t.Category, &t.IsComplete, &t.AssignedUserID, &t.CreatedByUserID, &t.TeamID, &t.AudioSummary, &t.CartoonSlides, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return tasks, nil
}
