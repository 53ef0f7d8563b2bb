package domain

import (
	"errors"
	"strings"
)

var (
	ErrTranslationNotFound = errors.New("translations not found")
	ErrInvalidTranslation  = errors.New("invalid translation")
)

// Translation holds every key of one locale.
type Translation struct {
	Locale       string            `json:"locale"`
	Translations map[string]string `json:"translations"`
}

// ValidateTranslationKey checks the arguments of a single-key upsert.
func ValidateTranslationKey(locale, key string) error {
	if strings.TrimSpace(locale) == "" {
		return errors.Join(ErrInvalidTranslation, errors.New("locale is required"))
	}
	if strings.TrimSpace(key) == "" {
		return errors.Join(ErrInvalidTranslation, errors.New("key is required"))
	}
	return nil
}
