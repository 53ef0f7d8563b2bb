package handler

import "github.com/jandrly/kancl/internal/core/domain"

// errorResponse is the standard error envelope returned on 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success   bool             `json:"success"`
	SessionID string           `json:"sessionId,omitempty"`
	User      *domain.UserView `json:"user,omitempty"`
	Error     string           `json:"error,omitempty"`
}

type logoutRequest struct {
	SessionID string `json:"sessionId"`
}

// sessionResponse always carries the user key; null means no valid session.
type sessionResponse struct {
	User *domain.UserView `json:"user"`
}

// --- Translations ---

type upsertTranslationRequest struct {
	Key   string `json:"key"   validate:"required,max=200"`
	Value string `json:"value"`
}
