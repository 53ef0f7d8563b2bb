package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jandrly/kancl/internal/api/metrics"
	"github.com/jandrly/kancl/internal/api/middleware"
	"github.com/jandrly/kancl/internal/core/domain"
	"github.com/jandrly/kancl/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  loginResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return c.JSON(http.StatusUnauthorized, loginResponse{Success: false, Error: err.Error()})
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Success: true, SessionID: res.SessionID, User: res.User})
}

// Logout deletes a session. Unknown or missing session ids are accepted. The
// id comes from the body, else from a bearer header; any other Authorization
// header is ignored.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Param        body  body  logoutRequest  false  "Session to close; defaults to the bearer session"
// @Success      204
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID, _ = middleware.BearerToken(c)
	}

	metrics.LogoutsTotal.Inc()
	if err := h.authService.Logout(c.Request().Context(), sessionID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Session returns the user behind the bearer session, or null.
//
// @Summary      Resolve session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/session [get]
// @Security     BearerAuth
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionResponse{User: middleware.UserFrom(c)})
}

// Me returns the current user, or null when not signed in.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/users/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c echo.Context) error {
	return h.Session(c)
}
