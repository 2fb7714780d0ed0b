package team

import (
	"context"
	"errors"
	"time"
)

// InvitationTTL is how long an invitation stays redeemable.
const InvitationTTL = 7 * 24 * time.Hour

// ErrDuplicateInvitation is returned when a pending invitation already exists
// for the same team and email.
var ErrDuplicateInvitation = errors.New("team: invitation for this email already exists")

// ErrInvitationExpired is returned when a token is redeemed past its expiry.
var ErrInvitationExpired = errors.New("team: invitation expired")

// Team groups users and owns their tasks.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// User is a team member. Role is "admin" or "member"; admins see and assign
// every team task.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TeamID    string    `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Invitation is a pending offer to join a team, redeemed by token.
// Lifecycle: pending -> accepted | cancelled | expired.
type Invitation struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the contract for team persistence.
type Store interface {
	CreateTeam(ctx context.Context, name string) (*Team, error)
	GetTeam(ctx context.Context, id string) (*Team, error)

	CreateUser(ctx context.Context, u *User) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	Members(ctx context.Context, teamID string) ([]User, error)

	CreateInvitation(ctx context.Context, teamID, email, name string) (*Invitation, error)
	InvitationByToken(ctx context.Context, token string) (*Invitation, error)
	// AcceptInvitation marks the invitation accepted and creates the member
	// user in one transaction.
	AcceptInvitation(ctx context.Context, token, userName string) (*User, error)
	CancelInvitation(ctx context.Context, id string) error

	EnsureTable(ctx context.Context) error
}
