package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jandrly/kancl/internal/core/domain"
	"github.com/jandrly/kancl/internal/core/ports"
)

// TranslationService serves locale maps, reading through an optional cache.
type TranslationService struct {
	repo  ports.TranslationRepository
	cache ports.TranslationCache
	log   zerolog.Logger
}

// NewTranslationService accepts a nil cache.
func NewTranslationService(repo ports.TranslationRepository, cache ports.TranslationCache, log zerolog.Logger) *TranslationService {
	return &TranslationService{repo: repo, cache: cache, log: log}
}

func (s *TranslationService) GetByLocale(ctx context.Context, locale string) (*domain.Translation, error) {
	if s.cache != nil {
		t, ok, err := s.cache.Get(ctx, locale)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("locale", locale).Msg("translation cache read failed")
		case ok:
			return t, nil
		}
	}

	t, err := s.repo.FindByLocale(ctx, locale)
	if err != nil {
		if errors.Is(err, domain.ErrTranslationNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get translations: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, t); err != nil {
			s.log.Warn().Err(err).Str("locale", locale).Msg("translation cache write failed")
		}
	}
	return t, nil
}

func (s *TranslationService) AvailableLocales(ctx context.Context) ([]string, error) {
	locales, err := s.repo.Locales(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}
	if locales == nil {
		locales = []string{}
	}
	return locales, nil
}

// Upsert sets a single key, leaving the rest of the locale untouched.
func (s *TranslationService) Upsert(ctx context.Context, locale, key, value string) error {
	if err := domain.ValidateTranslationKey(locale, key); err != nil {
		return err
	}
	if err := s.repo.UpsertKey(ctx, locale, key, value); err != nil {
		return fmt.Errorf("upsert translation: %w", err)
	}
	s.invalidate(ctx, locale)
	return nil
}

func (s *TranslationService) invalidate(ctx context.Context, locale string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, locale); err != nil {
		s.log.Warn().Err(err).Str("locale", locale).Msg("translation cache invalidation failed")
	}
}
