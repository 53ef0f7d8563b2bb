package prefs

import (
	"fmt"
	"sync"

	"github.com/jandrly/kancl/internal/client/storage"
)

const ThemeKey = "kancl_theme"

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

// ThemePref is the chosen colour scheme. ThemeSystem follows whatever the
// injected system function reports.
type ThemePref struct {
	mu     sync.RWMutex
	store  storage.Store
	theme  Theme
	system func() Theme
}

// NewThemePref falls back to ThemeSystem for a missing or unknown stored
// value. A nil system function is treated as always light.
func NewThemePref(store storage.Store, system func() Theme) (*ThemePref, error) {
	stored, ok, err := store.Get(ThemeKey)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	if system == nil {
		system = func() Theme { return ThemeLight }
	}

	t := &ThemePref{store: store, theme: ThemeSystem, system: system}
	if ok && Theme(stored).Valid() {
		t.theme = Theme(stored)
	}
	return t, nil
}

func (t *ThemePref) Get() Theme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.theme
}

// Effective resolves ThemeSystem to light or dark.
func (t *ThemePref) Effective() Theme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.effective()
}

func (t *ThemePref) effective() Theme {
	if t.theme != ThemeSystem {
		return t.theme
	}
	if t.system() == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (t *ThemePref) IsDark() bool {
	return t.Effective() == ThemeDark
}

func (t *ThemePref) Set(theme Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q", theme)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set(theme)
}

// Toggle switches to the opposite of the effective theme, leaving "system"
// behind.
func (t *ThemePref) Toggle() (Theme, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := ThemeDark
	if t.effective() == ThemeDark {
		next = ThemeLight
	}
	if err := t.set(next); err != nil {
		return t.theme, err
	}
	return next, nil
}

func (t *ThemePref) set(theme Theme) error {
	if err := t.store.Set(ThemeKey, string(theme)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	t.theme = theme
	return nil
}
