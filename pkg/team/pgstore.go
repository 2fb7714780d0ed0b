package team

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is a PostgreSQL-backed team store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTable creates the teams, users and invitations tables if they don't
// exist.
func (s *PgStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS teams (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			role       TEXT NOT NULL DEFAULT 'member',
			team_id    TEXT NOT NULL REFERENCES teams(id),
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_users_team ON users(team_id)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS invitations (
			id         TEXT PRIMARY KEY,
			team_id    TEXT NOT NULL REFERENCES teams(id),
			email      TEXT NOT NULL,
			name       TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT 'pending',
			token      TEXT NOT NULL UNIQUE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_invitations_pending
		ON invitations(team_id, email) WHERE status = 'pending'`)
	return err
}

// CreateTeam inserts a new team.
func (s *PgStore) CreateTeam(ctx context.Context, name string) (*Team, error) {
	t := &Team{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		CreatedAt: time.Now().Truncate(time.Microsecond),
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO teams (id, name, created_at) VALUES ($1, $2, $3)`,
		t.ID, t.Name, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}
	return t, nil
}

// GetTeam retrieves a team by ID.
func (s *PgStore) GetTeam(ctx context.Context, id string) (*Team, error) {
	var t Team
	err := s.pool.QueryRow(ctx, `SELECT id, name, created_at FROM teams WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get team %s: %w", id, err)
	}
	return &t, nil
}

// CreateUser inserts a new user. An empty role defaults to member.
func (s *PgStore) CreateUser(ctx context.Context, u *User) (*User, error) {
	if u.ID == "" {
		u.ID = uuid.Must(uuid.NewV7()).String()
	}
	if u.Role == "" {
		u.Role = "member"
	}
	u.CreatedAt = time.Now().Truncate(time.Microsecond)

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, role, team_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Name, u.Email, u.Role, u.TeamID, u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetUser retrieves a user by ID.
func (s *PgStore) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, role, team_id, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.TeamID, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

// Members lists a team's users.
func (s *PgStore) Members(ctx context.Context, teamID string) ([]User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, role, team_id, created_at
		FROM users WHERE team_id = $1 ORDER BY created_at`, teamID)
	if err != nil {
		return nil, fmt.Errorf("team members: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.TeamID, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return users, nil
}

// CreateInvitation inserts a pending invitation with a fresh token and a
// 7-day expiry. A pending invitation already covering the team+email pair
// yields ErrDuplicateInvitation.
func (s *PgStore) CreateInvitation(ctx context.Context, teamID, email, name string) (*Invitation, error) {
	now := time.Now().Truncate(time.Microsecond)
	inv := &Invitation{
		ID:        uuid.Must(uuid.NewV7()).String(),
		TeamID:    teamID,
		Email:     email,
		Name:      name,
		Status:    "pending",
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(InvitationTTL),
		CreatedAt: now,
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO invitations (id, team_id, email, name, status, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		inv.ID, inv.TeamID, inv.Email, inv.Name, inv.Status, inv.Token, inv.ExpiresAt, inv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateInvitation
		}
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	return inv, nil
}

// InvitationByToken retrieves a pending invitation, rejecting expired ones.
func (s *PgStore) InvitationByToken(ctx context.Context, token string) (*Invitation, error) {
	var inv Invitation
	err := s.pool.QueryRow(ctx, `
		SELECT id, team_id, email, name, status, token, expires_at, created_at
		FROM invitations WHERE token = $1 AND status = 'pending'`, token).
		Scan(&inv.ID, &inv.TeamID, &inv.Email, &inv.Name, &inv.Status, &inv.Token, &inv.ExpiresAt, &inv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invitation by token: %w", err)
	}
	if time.Now().After(inv.ExpiresAt) {
		return nil, ErrInvitationExpired
	}
	return &inv, nil
}

// AcceptInvitation redeems a token: marks the invitation accepted and creates
// the member user, atomically.
func (s *PgStore) AcceptInvitation(ctx context.Context, token, userName string) (*User, error) {
	inv, err := s.InvitationByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if userName == "" {
		userName = inv.Name
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE invitations SET status = 'accepted' WHERE id = $1`, inv.ID); err != nil {
		return nil, fmt.Errorf("accept invitation %s: %w", inv.ID, err)
	}

	u := &User{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      userName,
		Email:     inv.Email,
		Role:      "member",
		TeamID:    inv.TeamID,
		CreatedAt: time.Now().Truncate(time.Microsecond),
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO users (id, name, email, role, team_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Name, u.Email, u.Role, u.TeamID, u.CreatedAt); err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return u, nil
}

// CancelInvitation marks an invitation cancelled, e.g. when its email fails
// to send.
func (s *PgStore) CancelInvitation(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `UPDATE invitations SET status = 'cancelled' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cancel invitation %s: %w", id, err)
	}
	return nil
}
