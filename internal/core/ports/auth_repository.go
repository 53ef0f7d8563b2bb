package ports

import (
	"context"
	"time"

	"github.com/jandrly/kancl/internal/core/domain"
)

// UserRepository defines persistence operations for users.
// Lookups return domain.ErrUserNotFound when nothing matches.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update replaces every mutable field of an existing user.
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// SessionRepository defines persistence operations for sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	// FindByID returns domain.ErrSessionNotFound when the id is unknown.
	// Expiry is not checked here.
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	// Delete removes the session if it exists. A missing id is not an error.
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes every session with expiresAt <= now and reports
	// how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
