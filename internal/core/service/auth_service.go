package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jandrly/kancl/internal/core/domain"
	"github.com/jandrly/kancl/internal/core/ports"
)

// AuthService implements login, logout and session resolution.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	log      zerolog.Logger
	now      func() time.Time
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionRepository, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:    users,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming burns one bcrypt comparison so an unknown email costs the
// same as a wrong password.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("kancl-timing-equalizer"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Login verifies credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			equalizeTiming(password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: find user: %w", err)
	}

	if user.Deactivated() {
		equalizeTiming(password)
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.timestamp()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("login: update last login: %w", err)
	}
	user.LastLoginAt = &now

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("login: create session: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &domain.LoginResult{SessionID: session.ID, User: user.View()}, nil
}

// Logout deletes the session. Unknown ids are ignored.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// GetSession resolves a session id to the sanitized user. It never writes.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domain.UserView, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !session.ValidAt(s.now()) {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: find user: %w", err)
	}
	if user.Deactivated() {
		return nil, nil
	}
	return user.View(), nil
}

// CurrentUser is the user-facing name for GetSession.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*domain.UserView, error) {
	return s.GetSession(ctx, sessionID)
}

// SweepExpired deletes sessions that expired at or before the current time.
func (s *AuthService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	return n, nil
}

// timestamp is now truncated to what the document store keeps.
func (s *AuthService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}
