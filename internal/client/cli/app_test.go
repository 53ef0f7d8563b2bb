package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jandrly/kancl/internal/client/api"
	"github.com/jandrly/kancl/internal/client/prefs"
	"github.com/jandrly/kancl/internal/client/session"
	"github.com/jandrly/kancl/internal/client/storage"
)

// fakeServer speaks just enough of the kancl API for the CLI.
type fakeServer struct {
	mu       sync.Mutex
	sessions map[string]bool
	upserts  []string
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "jd@jandrly.cz" || req.Password != "admin" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"error":"Invalid email or password"}`))
			return
		}
		f.mu.Lock()
		f.sessions["s1"] = true
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"success":true,"sessionId":"s1","user":{"id":"u1","email":"jd@jandrly.cz","firstName":"Jan"}}`))
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ SessionID string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		delete(f.sessions, req.SessionID)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/auth/session", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		ok := f.sessions[id]
		f.mu.Unlock()
		if !ok {
			_, _ = w.Write([]byte(`{"user":null}`))
			return
		}
		_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"jd@jandrly.cz","firstName":"Jan","role":"admin"}}`))
	})
	mux.HandleFunc("/api/tasks", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"t1","text":"Write docs","isCompleted":false},{"id":"t2","text":"Ship","isCompleted":true}]`))
	})
	mux.HandleFunc("/api/translations/", func(w http.ResponseWriter, r *http.Request) {
		locale := strings.TrimPrefix(r.URL.Path, "/api/translations/")
		if r.Method == http.MethodPut {
			f.mu.Lock()
			f.upserts = append(f.upserts, locale)
			f.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
			return
		}
		switch locale {
		case "cs":
			_, _ = w.Write([]byte(`{"locale":"cs","translations":{"nav.home":"Domů","auth.welcomeBack":"Vítejte zpět"}}`))
		case "en":
			_, _ = w.Write([]byte(`{"locale":"en","translations":{"nav.home":"Home"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"translations not found"}`))
		}
	})
	return mux
}

type harness struct {
	app    *App
	store  *storage.MemoryStore
	out    *bytes.Buffer
	server *fakeServer
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	fs := &fakeServer{sessions: map[string]bool{}}
	srv := httptest.NewServer(fs.handler())
	t.Cleanup(srv.Close)

	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(prefs.LocaleKey, "en"))
	out := &bytes.Buffer{}

	app, err := NewApp(api.New(srv.URL), store, strings.NewReader(input), out, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(app.Close)

	return &harness{app: app, store: store, out: out, server: fs}
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

func TestRun_LoginPromptsForEmail(t *testing.T) {
	stubPassword(t, "admin")
	h := newHarness(t, "jd@jandrly.cz\n")

	require.NoError(t, h.app.Run(context.Background(), []string{"login"}))

	assert.Contains(t, h.out.String(), "Welcome back, Jan")
	id, ok, _ := h.store.Get(session.StorageKey)
	assert.True(t, ok)
	assert.Equal(t, "s1", id)
}

func TestRun_LoginRejected(t *testing.T) {
	stubPassword(t, "wrong")
	h := newHarness(t, "")

	err := h.app.Run(context.Background(), []string{"login", "-email", "jd@jandrly.cz"})
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
	_, ok, _ := h.store.Get(session.StorageKey)
	assert.False(t, ok)
}

func TestRun_LoginWhenAlreadySignedIn(t *testing.T) {
	stubPassword(t, "admin")
	h := newHarness(t, "")
	require.NoError(t, h.app.Run(context.Background(), []string{"login", "-email", "jd@jandrly.cz"}))
	h.out.Reset()

	require.NoError(t, h.app.Run(context.Background(), []string{"login"}))
	assert.Contains(t, h.out.String(), "Already signed in as jd@jandrly.cz")
}

func TestRun_TasksRequireSession(t *testing.T) {
	h := newHarness(t, "")

	err := h.app.Run(context.Background(), []string{"tasks"})
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestRun_TasksAndWhoami(t *testing.T) {
	stubPassword(t, "admin")
	h := newHarness(t, "")
	require.NoError(t, h.app.Run(context.Background(), []string{"login", "-email", "jd@jandrly.cz"}))
	h.out.Reset()

	require.NoError(t, h.app.Run(context.Background(), []string{"tasks"}))
	assert.Equal(t, "[ ] Write docs\n[x] Ship\n", h.out.String())

	h.out.Reset()
	require.NoError(t, h.app.Run(context.Background(), []string{"whoami"}))
	assert.Contains(t, h.out.String(), "Jan <jd@jandrly.cz>")
	assert.Contains(t, h.out.String(), "role: admin")
}

func TestRun_LogoutClearsSession(t *testing.T) {
	stubPassword(t, "admin")
	h := newHarness(t, "")
	require.NoError(t, h.app.Run(context.Background(), []string{"login", "-email", "jd@jandrly.cz"}))

	require.NoError(t, h.app.Run(context.Background(), []string{"logout"}))

	_, ok, _ := h.store.Get(session.StorageKey)
	assert.False(t, ok)
	h.server.mu.Lock()
	assert.Empty(t, h.server.sessions)
	h.server.mu.Unlock()

	h.out.Reset()
	require.NoError(t, h.app.Run(context.Background(), []string{"whoami"}))
	assert.Equal(t, "Not signed in\n", h.out.String())
}

func TestRun_LocaleAndLookup(t *testing.T) {
	h := newHarness(t, "")

	require.NoError(t, h.app.Run(context.Background(), []string{"t", "nav.home"}))
	assert.Equal(t, "Home\n", h.out.String())

	require.NoError(t, h.app.Run(context.Background(), []string{"locale", "cs"}))
	h.out.Reset()
	require.NoError(t, h.app.Run(context.Background(), []string{"t", "nav.home"}))
	assert.Equal(t, "Domů\n", h.out.String())

	stored, _, _ := h.store.Get(prefs.LocaleKey)
	assert.Equal(t, "cs", stored)

	require.Error(t, h.app.Run(context.Background(), []string{"locale", "de"}))
}

func TestRun_Theme(t *testing.T) {
	h := newHarness(t, "")

	require.NoError(t, h.app.Run(context.Background(), []string{"theme"}))
	assert.Equal(t, "system (light)\n", h.out.String())

	h.out.Reset()
	require.NoError(t, h.app.Run(context.Background(), []string{"theme", "toggle"}))
	assert.Equal(t, "dark\n", h.out.String())

	require.Error(t, h.app.Run(context.Background(), []string{"theme", "sepia"}))
}

func TestRun_TranslateSetWithoutSession(t *testing.T) {
	h := newHarness(t, "")

	require.NoError(t, h.app.Run(context.Background(), []string{"translate", "set", "en", "nav.home", "Start"}))
	assert.Contains(t, h.out.String(), "Success")
	h.server.mu.Lock()
	assert.Equal(t, []string{"en"}, h.server.upserts)
	h.server.mu.Unlock()
}

func TestRun_UnknownCommand(t *testing.T) {
	h := newHarness(t, "")

	err := h.app.Run(context.Background(), []string{"frobnicate"})
	assert.ErrorIs(t, err, ErrUnknownUsage)
	assert.Contains(t, h.out.String(), "Usage: kancl")
}

func TestRun_WatchReportsSignOut(t *testing.T) {
	stubPassword(t, "admin")
	h := newHarness(t, "")
	require.NoError(t, h.app.Run(context.Background(), []string{"login", "-email", "jd@jandrly.cz"}))
	h.app.pollInterval = 10 * time.Millisecond

	out := &syncBuffer{}
	h.app.out = out

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.app.Run(ctx, []string{"watch"}) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Signed in as jd@jandrly.cz")
	}, time.Second, 5*time.Millisecond)

	// the server forgets the session, the next poll notices
	h.server.mu.Lock()
	delete(h.server.sessions, "s1")
	h.server.mu.Unlock()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Not signed in")
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	_, ok, _ := h.store.Get(session.StorageKey)
	assert.False(t, ok)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
