package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/jandrly/kancl/internal/api/middleware"
	"github.com/jandrly/kancl/internal/core/domain"
)

type stubAuthService struct {
	loginFn      func(ctx context.Context, email, password string) (*domain.LoginResult, error)
	logoutFn     func(ctx context.Context, sessionID string) error
	getSessionFn func(ctx context.Context, sessionID string) (*domain.UserView, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string) error {
	return s.logoutFn(ctx, sessionID)
}

func (s *stubAuthService) GetSession(ctx context.Context, sessionID string) (*domain.UserView, error) {
	return s.getSessionFn(ctx, sessionID)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, sessionID string) (*domain.UserView, error) {
	return s.getSessionFn(ctx, sessionID)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.LoginResult, error) {
			if email != "jd@jandrly.cz" || password != "admin" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.LoginResult{SessionID: "s1", User: &domain.UserView{ID: "u1", Email: email}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := strings.NewReader(`{"email":"jd@jandrly.cz","password":"admin"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true || resp["sessionId"] != "s1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "jd@jandrly.cz" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatalf("password hash leaked")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.c","password":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Success || resp.Error != "Invalid email or password" || resp.SessionID != "" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Login_MalformedBody(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	for _, body := range []string{`{"email":`, `{"email":"a@b.c"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Login(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400 HTTPError, got %v", body, err)
		}
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	var got []string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			got = append(got, sessionID)
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(`{"sessionId":"s1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := handler.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer s2")
	rec = httptest.NewRecorder()
	if err := handler.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(`{"sessionId":"s3"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Basic abc")
	rec = httptest.NewRecorder()
	if err := handler.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	if len(got) != 3 || got[0] != "s1" || got[1] != "s2" || got[2] != "s3" {
		t.Fatalf("unexpected logout calls %v", got)
	}
}

func TestAuthHandler_Session(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), rec)
	if err := handler.Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"user":null}` {
		t.Fatalf("unexpected anonymous body %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), rec)
	middleware.SetUser(c, "s1", &domain.UserView{ID: "u1", Email: "jd@jandrly.cz"})
	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		User *domain.UserView `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.User == nil || resp.User.ID != "u1" {
		t.Fatalf("unexpected user %+v", resp.User)
	}
}
