package ports

import (
	"context"

	"github.com/jandrly/kancl/internal/core/domain"
)

// AuthService authenticates users and resolves session handles.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	// GetSession returns nil, nil for any session that does not resolve to an
	// active user.
	GetSession(ctx context.Context, sessionID string) (*domain.UserView, error)
	CurrentUser(ctx context.Context, sessionID string) (*domain.UserView, error)
}
