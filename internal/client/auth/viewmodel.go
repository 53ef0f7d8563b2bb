// Package auth keeps the client's view of who is signed in and reconciles the
// locally cached session id with what the server confirms.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jandrly/kancl/internal/client/api"
	"github.com/jandrly/kancl/internal/client/session"
	"github.com/jandrly/kancl/internal/core/domain"
)

// LoginWaitTimeout bounds how long Login waits for the new session to be
// confirmed by the identity query.
const LoginWaitTimeout = 5 * time.Second

// SessionAPI is the part of the server API the view-model talks to.
type SessionAPI interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetSession(ctx context.Context, sessionID string) (*domain.UserView, error)
}

type Phase int

const (
	Idle Phase = iota
	LoggingIn
)

func (p Phase) String() string {
	if p == LoggingIn {
		return "logging_in"
	}
	return "idle"
}

// Identity is one published answer of the identity query. User is nil when
// SessionID does not resolve. Resolved is false until the first answer.
type Identity struct {
	SessionID string
	User      *domain.UserView
	Resolved  bool
}

type ViewModel struct {
	api         SessionAPI
	cache       *session.Cache
	log         zerolog.Logger
	waitTimeout time.Duration

	mu       sync.Mutex
	inFlight int
	identity Identity
	changed  chan struct{}
	subs     map[chan Identity]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	bgMu   sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

type Option func(*ViewModel)

// WithLoginWaitTimeout overrides LoginWaitTimeout.
func WithLoginWaitTimeout(d time.Duration) Option {
	return func(vm *ViewModel) { vm.waitTimeout = d }
}

// NewViewModel wires the view-model to the cache. Every change of the cached
// id re-runs the identity query in the background. Call Close when done.
func NewViewModel(client SessionAPI, cache *session.Cache, log zerolog.Logger, opts ...Option) *ViewModel {
	ctx, cancel := context.WithCancel(context.Background())
	vm := &ViewModel{
		api:         client,
		cache:       cache,
		log:         log,
		waitTimeout: LoginWaitTimeout,
		changed:     make(chan struct{}),
		subs:        make(map[chan Identity]struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(vm)
	}

	cache.OnChange(func(string) {
		vm.bgMu.Lock()
		defer vm.bgMu.Unlock()
		if vm.closed {
			return
		}
		vm.wg.Add(1)
		go func() {
			defer vm.wg.Done()
			if err := vm.Refresh(vm.ctx); err != nil {
				vm.log.Debug().Err(err).Msg("identity refresh after session change")
			}
		}()
	})
	return vm
}

// Close stops background refreshes and waits for them to return. Cache
// changes after Close no longer trigger a refresh.
func (vm *ViewModel) Close() {
	vm.bgMu.Lock()
	vm.closed = true
	vm.bgMu.Unlock()

	vm.cancel()
	vm.wg.Wait()
}

func (vm *ViewModel) Phase() Phase {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.inFlight > 0 {
		return LoggingIn
	}
	return Idle
}

func (vm *ViewModel) Identity() Identity {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.identity
}

func (vm *ViewModel) IsAuthenticated() bool {
	return vm.Identity().User != nil
}

// IsLoading is true until the identity query has answered once.
func (vm *ViewModel) IsLoading() bool {
	return !vm.Identity().Resolved
}

// Refresh runs the identity query for the currently cached id. A failed fetch
// keeps the previous identity and returns the error.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	id := vm.cache.Get()
	if id == "" {
		vm.publish(Identity{Resolved: true})
		return nil
	}

	user, err := vm.api.GetSession(ctx, id)
	if err != nil {
		return fmt.Errorf("refresh identity: %w", err)
	}
	vm.publish(Identity{SessionID: id, User: user, Resolved: true})
	return nil
}

// Poll refreshes the identity every interval until ctx is done.
func (vm *ViewModel) Poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := vm.Refresh(ctx); err != nil {
				vm.log.Warn().Err(err).Msg("identity poll failed")
			}
		case <-ctx.Done():
			return
		}
	}
}

// Login signs in and caches the new session id. A rejected login is returned
// as a result with Success false and leaves the cache untouched. On success
// Login waits up to the login wait timeout for the identity query to confirm
// the new session.
func (vm *ViewModel) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	vm.enter()
	defer vm.leave()

	res, err := vm.api.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !res.Success {
		return res, nil
	}

	if err := vm.cache.Set(res.SessionID); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !vm.waitFor(ctx, res.SessionID) {
		vm.log.Warn().Dur("timeout", vm.waitTimeout).Msg("session not confirmed before login wait ended")
	}
	return res, nil
}

// Logout ends the cached session on the server and always clears the cache.
// A failed server call is logged, not returned.
func (vm *ViewModel) Logout(ctx context.Context) error {
	if id := vm.cache.Get(); id != "" {
		if err := vm.api.Logout(ctx, id); err != nil {
			vm.log.Warn().Err(err).Msg("server logout failed")
		}
	}
	if err := vm.cache.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	vm.publish(Identity{Resolved: true})
	return nil
}

// Subscribe returns a channel that receives the latest identity after every
// publication, starting with the current one. Slow readers only see the most
// recent snapshot. The returned func unsubscribes and closes the channel.
func (vm *ViewModel) Subscribe() (<-chan Identity, func()) {
	ch := make(chan Identity, 1)

	vm.mu.Lock()
	vm.subs[ch] = struct{}{}
	ch <- vm.identity
	vm.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			vm.mu.Lock()
			delete(vm.subs, ch)
			vm.mu.Unlock()
			close(ch)
		})
	}
}

func (vm *ViewModel) enter() {
	vm.mu.Lock()
	vm.inFlight++
	vm.mu.Unlock()
}

func (vm *ViewModel) leave() {
	vm.mu.Lock()
	vm.inFlight--
	vm.mu.Unlock()
}

// publish drops id when the cache no longer holds id.SessionID, so an answer
// for a replaced session can never overwrite the current one.
func (vm *ViewModel) publish(id Identity) {
	vm.mu.Lock()
	if vm.cache.Get() != id.SessionID {
		vm.mu.Unlock()
		return
	}
	vm.identity = id
	close(vm.changed)
	vm.changed = make(chan struct{})
	for ch := range vm.subs {
		select {
		case <-ch:
		default:
		}
		ch <- id
	}
	idle := vm.inFlight == 0
	vm.mu.Unlock()

	vm.reconcile(id, idle)
}

// reconcile drops a cached id the server no longer recognises. It stays out
// of the way while a login is running, since the query may not have caught up
// with the id login just wrote.
func (vm *ViewModel) reconcile(id Identity, idle bool) {
	if !idle || id.User != nil || id.SessionID == "" {
		return
	}
	if vm.cache.Get() != id.SessionID {
		return
	}
	vm.log.Info().Msg("cached session no longer valid, clearing")
	if err := vm.cache.Clear(); err != nil {
		vm.log.Error().Err(err).Msg("clear stale session")
	}
}

// waitFor blocks until an identity with a user is published for sessionID,
// the wait timeout passes or ctx ends.
func (vm *ViewModel) waitFor(ctx context.Context, sessionID string) bool {
	timer := time.NewTimer(vm.waitTimeout)
	defer timer.Stop()

	for {
		vm.mu.Lock()
		cur, changed := vm.identity, vm.changed
		vm.mu.Unlock()

		if cur.SessionID == sessionID && cur.User != nil {
			return true
		}
		select {
		case <-changed:
		case <-timer.C:
			return false
		case <-ctx.Done():
			return false
		}
	}
}
