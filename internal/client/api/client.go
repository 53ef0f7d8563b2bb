// Package api is the HTTP client for the kancl server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jandrly/kancl/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Error is a non-2xx answer from the server.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *Error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// LoginResult mirrors the login endpoint. Rejected credentials are a result,
// not an error.
type LoginResult struct {
	Success   bool             `json:"success"`
	SessionID string           `json:"sessionId,omitempty"`
	User      *domain.UserView `json:"user,omitempty"`
	Error     string           `json:"error,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res LoginResult
	status, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &res, http.StatusOK, http.StatusUnauthorized)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		res.Success = false
	}
	return &res, nil
}

func (c *Client) Logout(ctx context.Context, sessionID string) error {
	body := map[string]string{"sessionId": sessionID}
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", "", body, nil, http.StatusNoContent)
	return err
}

// GetSession returns nil without error when the session does not resolve.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*domain.UserView, error) {
	var res struct {
		User *domain.UserView `json:"user"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/auth/session", sessionID, nil, &res, http.StatusOK); err != nil {
		return nil, err
	}
	return res.User, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	if _, err := c.do(ctx, http.MethodGet, "/api/tasks", "", nil, &tasks, http.StatusOK); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) Locales(ctx context.Context) ([]string, error) {
	var locales []string
	if _, err := c.do(ctx, http.MethodGet, "/api/translations/locales", "", nil, &locales, http.StatusOK); err != nil {
		return nil, err
	}
	return locales, nil
}

// GetTranslations returns nil without error for an unknown locale.
func (c *Client) GetTranslations(ctx context.Context, locale string) (*domain.Translation, error) {
	var t domain.Translation
	status, err := c.do(ctx, http.MethodGet, "/api/translations/"+url.PathEscape(locale), "", nil, &t, http.StatusOK, http.StatusNotFound)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	return &t, nil
}

func (c *Client) UpsertTranslation(ctx context.Context, locale, key, value string) error {
	body := map[string]string{"key": key, "value": value}
	_, err := c.do(ctx, http.MethodPut, "/api/translations/"+url.PathEscape(locale), "", body, nil, http.StatusNoContent)
	return err
}

// do sends a request and decodes the body into out for any of the accepted
// statuses. Other statuses become *Error.
func (c *Client) do(ctx context.Context, method, path, sessionID string, in, out any, accept ...int) (int, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("Authorization", "Bearer "+sessionID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	for _, status := range accept {
		if resp.StatusCode != status {
			continue
		}
		if out != nil && len(raw) > 0 && status != http.StatusNotFound {
			if err := json.Unmarshal(raw, out); err != nil {
				return status, fmt.Errorf("decode response: %w", err)
			}
		}
		return status, nil
	}

	var envelope struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(raw, &envelope)
	return resp.StatusCode, &Error{Status: resp.StatusCode, Message: envelope.Error}
}
