package ports

import (
	"context"

	"github.com/jandrly/kancl/internal/core/domain"
)

// TranslationRepository defines persistence operations for locale maps.
type TranslationRepository interface {
	// FindByLocale returns domain.ErrTranslationNotFound for an unknown locale.
	FindByLocale(ctx context.Context, locale string) (*domain.Translation, error)
	Locales(ctx context.Context) ([]string, error)
	// UpsertKey merges a single key into the locale, creating it if needed.
	UpsertKey(ctx context.Context, locale, key, value string) error
	// Replace overwrites the whole map of a locale.
	Replace(ctx context.Context, locale string, entries map[string]string) error
}

// TranslationCache is a best-effort read-through cache in front of the
// repository. A miss is reported as ok == false with a nil error.
type TranslationCache interface {
	Get(ctx context.Context, locale string) (t *domain.Translation, ok bool, err error)
	Set(ctx context.Context, t *domain.Translation) error
	Invalidate(ctx context.Context, locale string) error
}

// TranslationService exposes the translation catalog.
type TranslationService interface {
	// GetByLocale returns nil, nil when the locale has no document.
	GetByLocale(ctx context.Context, locale string) (*domain.Translation, error)
	AvailableLocales(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, locale, key, value string) error
}
