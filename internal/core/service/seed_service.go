package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jandrly/kancl/internal/core/domain"
	"github.com/jandrly/kancl/internal/core/ports"
)

const (
	DefaultTestEmail    = "jd@jandrly.cz"
	DefaultTestPassword = "admin"
)

// SeedService provisions a fresh deployment.
type SeedService struct {
	users        ports.UserRepository
	translations ports.TranslationRepository
	cache        ports.TranslationCache
	indexes      ports.IndexManager
	log          zerolog.Logger
	now          func() time.Time
}

type SeedOption func(*SeedService)

func WithSeedClock(now func() time.Time) SeedOption {
	return func(s *SeedService) { s.now = now }
}

// NewSeedService accepts nil for the dependencies a caller does not need.
func NewSeedService(
	users ports.UserRepository,
	translations ports.TranslationRepository,
	cache ports.TranslationCache,
	indexes ports.IndexManager,
	log zerolog.Logger,
	opts ...SeedOption,
) *SeedService {
	s := &SeedService{
		users:        users,
		translations: translations,
		cache:        cache,
		indexes:      indexes,
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SeedService) EnsureIndexes(ctx context.Context) error {
	if s.indexes == nil {
		return nil
	}
	if err := s.indexes.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}

// SeedTestUser creates the test account or resets it to a known state.
// createdAt of an existing account is kept.
func (s *SeedService) SeedTestUser(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("seed user: hash password: %w", err)
	}
	now := s.now().UTC().Truncate(time.Millisecond)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("seed user: %w", err)
	}

	if existing != nil {
		applyTestProfile(existing, string(hash))
		if existing.CreatedAt == nil {
			existing.CreatedAt = &now
		}
		if err := s.users.Update(ctx, existing); err != nil {
			return "", fmt.Errorf("seed user: update: %w", err)
		}
		s.log.Info().Str("email", email).Msg("test user updated")
		return fmt.Sprintf("Test user updated: %s / %s", email, password), nil
	}

	user := &domain.User{Email: email, CreatedAt: &now}
	applyTestProfile(user, string(hash))
	if _, err := s.users.Create(ctx, user); err != nil {
		return "", fmt.Errorf("seed user: create: %w", err)
	}
	s.log.Info().Str("email", email).Msg("test user created")
	return fmt.Sprintf("Test user created: %s / %s", email, password), nil
}

func applyTestProfile(u *domain.User, hash string) {
	verified, active := true, true
	first, last := "Jan", "Drndly"
	role := domain.RolePersonal

	u.PasswordHash = hash
	u.EmailVerified = &verified
	u.FirstName = &first
	u.LastName = &last
	u.Role = &role
	u.IsActive = &active
}

// SeedTranslations replaces the en and cs catalogs with the built-in ones.
func (s *SeedService) SeedTranslations(ctx context.Context) (string, error) {
	for _, locale := range []string{"en", "cs"} {
		if err := s.translations.Replace(ctx, locale, DefaultCatalog(locale)); err != nil {
			return "", fmt.Errorf("seed translations %s: %w", locale, err)
		}
		if s.cache != nil {
			if err := s.cache.Invalidate(ctx, locale); err != nil {
				s.log.Warn().Err(err).Str("locale", locale).Msg("translation cache invalidation failed")
			}
		}
	}
	return "Seeded English and Czech translations", nil
}
