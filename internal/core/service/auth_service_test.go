package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jandrly/kancl/internal/core/domain"
)

type stubUserRepo struct {
	users        map[string]*domain.User
	calls        int
	lastLoginSet int
	findErr      error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.calls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.calls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.calls++
	c := cloneUser(user)
	if c.ID == "" {
		c.ID = "user_" + c.Email
	}
	r.users[c.ID] = cloneUser(c)
	return c, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.calls++
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.calls++
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLoginAt = &at
	r.lastLoginSet++
	return nil
}

type stubSessionRepo struct {
	sessions map[string]*domain.Session
	calls    int
	created  int
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *stubSessionRepo) Create(_ context.Context, s *domain.Session) error {
	r.calls++
	r.created++
	c := *s
	r.sessions[s.ID] = &c
	return nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id string) (*domain.Session, error) {
	r.calls++
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	c := *s
	return &c, nil
}

func (r *stubSessionRepo) Delete(_ context.Context, id string) error {
	r.calls++
	delete(r.sessions, id)
	return nil
}

func (r *stubSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.calls++
	var n int64
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 589_793_238, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func boolPtr(b bool) *bool { return &b }

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(h)
}

func seedUser(t *testing.T, repo *stubUserRepo, id, email, password string, active *bool) {
	t.Helper()
	role := domain.RolePersonal
	repo.users[id] = &domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: mustHash(t, password),
		Role:         &role,
		IsActive:     active,
	}
}

func newTestAuthService(users *stubUserRepo, sessions *stubSessionRepo, now time.Time) *AuthService {
	return NewAuthService(users, sessions, zerolog.Nop(), WithClock(fixedClock(now)))
}

func TestAuthService_Login_Success(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	seedUser(t, users, "u1", "alice@example.com", "secret", nil)
	svc := newTestAuthService(users, sessions, testNow)

	res, err := svc.Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.SessionID == "" {
		t.Fatalf("expected session id")
	}
	if res.User == nil || res.User.ID != "u1" {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	want := testNow.Truncate(time.Millisecond)
	if res.User.LastLoginAt == nil || !res.User.LastLoginAt.Equal(want) {
		t.Fatalf("lastLoginAt = %v, want %v", res.User.LastLoginAt, want)
	}
	if users.lastLoginSet != 1 {
		t.Fatalf("expected exactly one last-login update, got %d", users.lastLoginSet)
	}
	if sessions.created != 1 {
		t.Fatalf("expected exactly one session, got %d", sessions.created)
	}

	stored := sessions.sessions[res.SessionID]
	if stored == nil {
		t.Fatalf("session %q was not stored", res.SessionID)
	}
	if stored.UserID != "u1" {
		t.Fatalf("session user = %q", stored.UserID)
	}
	if got := stored.ExpiresAt.Sub(stored.CreatedAt); got != 604_800_000*time.Millisecond {
		t.Fatalf("session lifetime = %v, want 7 days", got)
	}
	if !stored.CreatedAt.Equal(want) {
		t.Fatalf("createdAt = %v, want %v", stored.CreatedAt, want)
	}
}

func TestAuthService_Login_SessionIDsAreUnique(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	seedUser(t, users, "u1", "alice@example.com", "secret", nil)
	svc := newTestAuthService(users, sessions, testNow)

	first, err := svc.Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if first.SessionID == second.SessionID {
		t.Fatalf("expected distinct session ids")
	}
	if len(sessions.sessions) != 2 {
		t.Fatalf("expected both sessions to coexist, got %d", len(sessions.sessions))
	}
}

func TestAuthService_Login_InvalidCredentialsShareMessage(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	seedUser(t, users, "u1", "alice@example.com", "secret", nil)
	seedUser(t, users, "u2", "bob@example.com", "secret", boolPtr(false))
	svc := newTestAuthService(users, sessions, testNow)

	cases := []struct {
		name, email, password string
	}{
		{"unknown email", "nobody@example.com", "secret"},
		{"wrong password", "alice@example.com", "wrong"},
		{"deactivated", "bob@example.com", "secret"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.Login(context.Background(), tc.email, tc.password)
			if res != nil {
				t.Fatalf("expected no result, got %+v", res)
			}
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			if err.Error() != "Invalid email or password" {
				t.Fatalf("unexpected message %q", err.Error())
			}
		})
	}

	if sessions.created != 0 {
		t.Fatalf("failed logins must not create sessions, got %d", sessions.created)
	}
	if users.lastLoginSet != 0 {
		t.Fatalf("failed logins must not touch lastLoginAt")
	}
}

func TestAuthService_Login_ActiveFlagTrue(t *testing.T) {
	users := newStubUserRepo()
	seedUser(t, users, "u1", "alice@example.com", "secret", boolPtr(true))
	svc := newTestAuthService(users, newStubSessionRepo(), testNow)

	if _, err := svc.Login(context.Background(), "alice@example.com", "secret"); err != nil {
		t.Fatalf("expected success for explicitly active user, got %v", err)
	}
}

func TestAuthService_Login_StorageError(t *testing.T) {
	users := newStubUserRepo()
	users.findErr = errors.New("connection reset")
	svc := newTestAuthService(users, newStubSessionRepo(), testNow)

	_, err := svc.Login(context.Background(), "alice@example.com", "secret")
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("storage failure must not look like bad credentials")
	}
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	seedUser(t, users, "u1", "alice@example.com", "secret", nil)
	svc := newTestAuthService(users, sessions, testNow)
	ctx := context.Background()

	res, err := svc.Login(ctx, "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.Logout(ctx, res.SessionID); err != nil {
			t.Fatalf("Logout #%d: %v", i+1, err)
		}
	}
	if err := svc.Logout(ctx, "never-existed"); err != nil {
		t.Fatalf("Logout of unknown id: %v", err)
	}

	user, err := svc.GetSession(ctx, res.SessionID)
	if err != nil || user != nil {
		t.Fatalf("expected absent session after logout, got %+v, %v", user, err)
	}
}

func TestAuthService_Logout_OnlyRemovesOneSession(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	seedUser(t, users, "u1", "alice@example.com", "secret", nil)
	svc := newTestAuthService(users, sessions, testNow)
	ctx := context.Background()

	a, _ := svc.Login(ctx, "alice@example.com", "secret")
	b, _ := svc.Login(ctx, "alice@example.com", "secret")

	if err := svc.Logout(ctx, a.SessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	user, err := svc.GetSession(ctx, b.SessionID)
	if err != nil || user == nil {
		t.Fatalf("other session should survive, got %+v, %v", user, err)
	}
}

func TestAuthService_GetSession_EmptyIDSkipsStorage(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	svc := newTestAuthService(users, sessions, testNow)

	user, err := svc.GetSession(context.Background(), "")
	if err != nil || user != nil {
		t.Fatalf("expected nil, nil; got %+v, %v", user, err)
	}
	if users.calls != 0 || sessions.calls != 0 {
		t.Fatalf("expected no storage access, got users=%d sessions=%d", users.calls, sessions.calls)
	}
}

func TestAuthService_GetSession_Expiry(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	seedUser(t, users, "u1", "alice@example.com", "secret", nil)
	sessions.sessions["s1"] = &domain.Session{
		ID:        "s1",
		UserID:    "u1",
		CreatedAt: testNow.Add(-domain.SessionTTL),
		ExpiresAt: testNow,
	}

	cases := []struct {
		name    string
		now     time.Time
		wantNil bool
	}{
		{"one millisecond before expiry", testNow.Add(-time.Millisecond), false},
		{"exactly at expiry", testNow, true},
		{"after expiry", testNow.Add(time.Hour), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestAuthService(users, sessions, tc.now)
			user, err := svc.GetSession(context.Background(), "s1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (user == nil) != tc.wantNil {
				t.Fatalf("user = %+v, wantNil = %v", user, tc.wantNil)
			}
		})
	}

	if _, ok := sessions.sessions["s1"]; !ok {
		t.Fatalf("expired session must not be deleted by a read")
	}
}

func TestAuthService_GetSession_AbsentCases(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	seedUser(t, users, "u2", "bob@example.com", "secret", boolPtr(false))
	expires := testNow.Add(time.Hour)
	sessions.sessions["orphan"] = &domain.Session{ID: "orphan", UserID: "ghost", ExpiresAt: expires}
	sessions.sessions["inactive"] = &domain.Session{ID: "inactive", UserID: "u2", ExpiresAt: expires}
	svc := newTestAuthService(users, sessions, testNow)

	for _, id := range []string{"unknown", "orphan", "inactive"} {
		user, err := svc.GetSession(context.Background(), id)
		if err != nil || user != nil {
			t.Fatalf("%s: expected nil, nil; got %+v, %v", id, user, err)
		}
	}
}

func TestAuthService_GetSession_RepeatableAndReadOnly(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	seedUser(t, users, "u1", "alice@example.com", "secret", nil)
	svc := newTestAuthService(users, sessions, testNow)
	ctx := context.Background()

	res, err := svc.Login(ctx, "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	lastLogins := users.lastLoginSet

	first, err := svc.GetSession(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	second, err := svc.CurrentUser(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if first.ID != second.ID || first.Email != second.Email || !first.LastLoginAt.Equal(*second.LastLoginAt) {
		t.Fatalf("repeated reads differ: %+v vs %+v", first, second)
	}
	if users.lastLoginSet != lastLogins {
		t.Fatalf("reads must not write")
	}
}

func TestAuthService_SeededUserScenario(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	seeder := NewSeedService(users, nil, nil, nil, zerolog.Nop(), WithSeedClock(fixedClock(testNow)))
	if _, err := seeder.SeedTestUser(context.Background(), DefaultTestEmail, DefaultTestPassword); err != nil {
		t.Fatalf("SeedTestUser: %v", err)
	}

	svc := newTestAuthService(users, sessions, testNow)
	ctx := context.Background()

	res, err := svc.Login(ctx, "jd@jandrly.cz", "admin")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.Email != "jd@jandrly.cz" {
		t.Fatalf("unexpected email %q", res.User.Email)
	}
	if res.User.Role == nil || *res.User.Role != domain.RolePersonal {
		t.Fatalf("unexpected role %v", res.User.Role)
	}

	later := newTestAuthService(users, sessions, testNow.Add(domain.SessionTTL-time.Second))
	user, err := later.GetSession(ctx, res.SessionID)
	if err != nil || user == nil || user.Email != "jd@jandrly.cz" {
		t.Fatalf("expected session to resolve, got %+v, %v", user, err)
	}

	if err := svc.Logout(ctx, res.SessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	user, err = svc.GetSession(ctx, res.SessionID)
	if err != nil || user != nil {
		t.Fatalf("expected absent after logout, got %+v, %v", user, err)
	}
}

func TestAuthService_SweepExpired(t *testing.T) {
	sessions := newStubSessionRepo()
	sessions.sessions["old"] = &domain.Session{ID: "old", ExpiresAt: testNow}
	sessions.sessions["fresh"] = &domain.Session{ID: "fresh", ExpiresAt: testNow.Add(time.Minute)}
	svc := newTestAuthService(newStubUserRepo(), sessions, testNow)

	n, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if _, ok := sessions.sessions["fresh"]; !ok {
		t.Fatalf("fresh session removed")
	}
}
