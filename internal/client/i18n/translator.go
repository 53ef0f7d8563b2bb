// Package i18n resolves UI strings for the selected locale.
package i18n

import (
	"context"
	"fmt"
	"sync"

	"github.com/jandrly/kancl/internal/core/domain"
)

type Source interface {
	GetTranslations(ctx context.Context, locale string) (*domain.Translation, error)
}

type Translator struct {
	src Source

	mu      sync.RWMutex
	locale  string
	entries map[string]string
}

func NewTranslator(src Source) *Translator {
	return &Translator{src: src, entries: map[string]string{}}
}

// Load replaces the loaded strings with those of locale. A locale the server
// does not know loads as empty.
func (t *Translator) Load(ctx context.Context, locale string) error {
	tr, err := t.src.GetTranslations(ctx, locale)
	if err != nil {
		return fmt.Errorf("load translations %q: %w", locale, err)
	}

	entries := map[string]string{}
	if tr != nil {
		for k, v := range tr.Translations {
			entries[k] = v
		}
	}

	t.mu.Lock()
	t.locale = locale
	t.entries = entries
	t.mu.Unlock()
	return nil
}

func (t *Translator) Locale() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.locale
}

// T returns the translation of key, then fallback, then key itself.
func (t *Translator) T(key, fallback string) string {
	t.mu.RLock()
	v, ok := t.entries[key]
	t.mu.RUnlock()

	switch {
	case ok && v != "":
		return v
	case fallback != "":
		return fallback
	default:
		return key
	}
}
