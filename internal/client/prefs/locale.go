// Package prefs holds the persisted display preferences of the client.
package prefs

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/jandrly/kancl/internal/client/storage"
)

const (
	LocaleKey     = "kancl_locale"
	DefaultLocale = "en"
)

// SupportedLocales lists the locales the client can display.
var SupportedLocales = []string{"en", "cs"}

// IsSupportedLocale reports whether l is in SupportedLocales.
func IsSupportedLocale(l string) bool {
	for _, s := range SupportedLocales {
		if s == l {
			return true
		}
	}
	return false
}

// SystemLanguage derives a language code from LC_ALL, LC_MESSAGES or LANG,
// e.g. "cs_CZ.UTF-8" becomes "cs".
func SystemLanguage() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" && v != "C" && v != "POSIX" {
			return languagePrefix(v)
		}
	}
	return ""
}

func languagePrefix(tag string) string {
	tag = strings.ToLower(tag)
	if i := strings.IndexAny(tag, "_-.@"); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

// Locale is the selected display language.
type Locale struct {
	mu     sync.RWMutex
	store  storage.Store
	locale string
}

// NewLocale picks the stored locale when it is supported, then the system
// language, then DefaultLocale. system may be nil.
func NewLocale(store storage.Store, system func() string) (*Locale, error) {
	stored, ok, err := store.Get(LocaleKey)
	if err != nil {
		return nil, fmt.Errorf("load locale: %w", err)
	}

	l := &Locale{store: store, locale: DefaultLocale}
	switch {
	case ok && IsSupportedLocale(stored):
		l.locale = stored
	case system != nil && IsSupportedLocale(languagePrefix(system())):
		l.locale = languagePrefix(system())
	}
	return l, nil
}

func (l *Locale) Get() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.locale
}

// Set persists a supported locale.
func (l *Locale) Set(locale string) error {
	if !IsSupportedLocale(locale) {
		return fmt.Errorf("unsupported locale %q (supported: %s)", locale, strings.Join(SupportedLocales, ", "))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Set(LocaleKey, locale); err != nil {
		return fmt.Errorf("persist locale: %w", err)
	}
	l.locale = locale
	return nil
}
