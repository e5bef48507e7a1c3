package primary

import (
	"context"
	"time"

	"github.com/example/stockroom/internal/core/form"
)

// AuthService defines the primary port for accounts and sessions.
type AuthService interface {
	// Register validates the registration form, creates the account and
	// starts a session for it. No account is created when validation fails.
	Register(ctx context.Context, data form.Data) (*LoginResult, error)

	// Login verifies credentials and starts a session.
	// Every failure is reported as ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// Authenticate resolves a session token to its user.
	// Returns ErrUnauthenticated for bad signatures and missing or expired sessions.
	Authenticate(ctx context.Context, token string) (*User, error)

	// Logout ends the session behind token. Unknown tokens are ignored.
	Logout(ctx context.Context, token string) error

	// CreateUser creates an account directly, bypassing the registration form.
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)

	// ChangePassword sets a new password and ends the user's sessions.
	ChangePassword(ctx context.Context, username, password string) error

	// ListUsers returns every account ordered by username.
	ListUsers(ctx context.Context) ([]*User, error)

	// PurgeExpiredSessions deletes expired sessions and reports how many.
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// CreateUserRequest contains parameters for creating an account.
type CreateUserRequest struct {
	Username    string
	Email       string
	Password    string
	IsStaff     bool
	IsSuperuser bool
}

// LoginResult is a started session.
type LoginResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

// User represents an account at the port boundary. The password hash never leaves the service.
type User struct {
	ID          int64
	Username    string
	Email       string
	IsStaff     bool
	IsSuperuser bool
	IsActive    bool
	DateJoined  time.Time
	LastLogin   *time.Time
}
