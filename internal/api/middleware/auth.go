package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jandrly/kancl/internal/api/metrics"
	"github.com/jandrly/kancl/internal/core/domain"
)

const (
	ctxSessionID = "session_id"
	ctxUser      = "user"
)

// SessionResolver turns a session id into the user it belongs to.
type SessionResolver interface {
	GetSession(ctx context.Context, sessionID string) (*domain.UserView, error)
}

// BearerToken extracts the session id from "Authorization: Bearer <id>".
// ok is false when the header is present but not a bearer credential.
func BearerToken(c echo.Context) (sessionID string, ok bool) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", true
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Session reads an optional "Authorization: Bearer <sessionId>" header and
// stores the session id and resolved user in the context. Requests without
// the header continue anonymously; a malformed header is rejected.
func Session(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID, ok := BearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}
			if sessionID == "" {
				return next(c)
			}

			user, err := resolver.GetSession(c.Request().Context(), sessionID)
			if err != nil {
				metrics.SessionLookupsTotal.WithLabelValues("error").Inc()
				return err
			}
			if user == nil {
				metrics.SessionLookupsTotal.WithLabelValues("absent").Inc()
			} else {
				metrics.SessionLookupsTotal.WithLabelValues("resolved").Inc()
			}

			SetUser(c, sessionID, user)
			return next(c)
		}
	}
}

// UserFrom returns the user resolved by Session, or nil.
func UserFrom(c echo.Context) *domain.UserView {
	u, _ := c.Get(ctxUser).(*domain.UserView)
	return u
}

// SessionIDFrom returns the bearer session id, or "".
func SessionIDFrom(c echo.Context) string {
	id, _ := c.Get(ctxSessionID).(string)
	return id
}

// SetUser stores a resolved user on the context.
func SetUser(c echo.Context, sessionID string, u *domain.UserView) {
	c.Set(ctxSessionID, sessionID)
	c.Set(ctxUser, u)
}
