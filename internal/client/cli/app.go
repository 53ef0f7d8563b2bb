// Package cli implements the kancl command-line client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/jandrly/kancl/internal/client/api"
	"github.com/jandrly/kancl/internal/client/auth"
	"github.com/jandrly/kancl/internal/client/i18n"
	"github.com/jandrly/kancl/internal/client/prefs"
	"github.com/jandrly/kancl/internal/client/session"
	"github.com/jandrly/kancl/internal/client/storage"
)

var (
	ErrNotSignedIn  = errors.New("not signed in, run 'kancl login' first")
	ErrUnknownUsage = errors.New("unknown command")
)

type App struct {
	client *api.Client
	vm     *auth.ViewModel
	cache  *session.Cache
	locale *prefs.Locale
	theme  *prefs.ThemePref
	tr     *i18n.Translator

	pollInterval time.Duration

	in  *bufio.Reader
	out io.Writer
	log zerolog.Logger
}

type Option func(*App)

// WithPollInterval sets how often watch re-checks the session.
func WithPollInterval(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.pollInterval = d
		}
	}
}

// NewApp builds the client state on top of store. Call Close when done.
func NewApp(client *api.Client, store storage.Store, in io.Reader, out io.Writer, log zerolog.Logger, opts ...Option) (*App, error) {
	cache, err := session.NewCache(store)
	if err != nil {
		return nil, err
	}
	locale, err := prefs.NewLocale(store, prefs.SystemLanguage)
	if err != nil {
		return nil, err
	}
	theme, err := prefs.NewThemePref(store, nil)
	if err != nil {
		return nil, err
	}

	a := &App{
		client:       client,
		vm:           auth.NewViewModel(client, cache, log),
		cache:        cache,
		locale:       locale,
		theme:        theme,
		tr:           i18n.NewTranslator(client),
		pollInterval: 30 * time.Second,
		in:           bufio.NewReader(in),
		out:          out,
		log:          log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *App) Close() {
	a.vm.Close()
}

// Run executes one command line.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}

	// UI strings are best effort; a missing server only costs translations
	if err := a.tr.Load(ctx, a.locale.Get()); err != nil {
		a.log.Debug().Err(err).Msg("translations unavailable")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "tasks":
		return a.tasks(ctx)
	case "watch":
		return a.watch(ctx)
	case "t":
		return a.translate(rest)
	case "locale":
		return a.setLocale(ctx, rest)
	case "theme":
		return a.setTheme(rest)
	case "translate":
		return a.upsertTranslation(ctx, rest)
	case "help", "-h", "--help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("%w %q", ErrUnknownUsage, cmd)
	}
}

func (a *App) usage() {
	fmt.Fprint(a.out, `Usage: kancl <command> [args]

Commands:
  login [-email address]                 sign in
  logout                                 sign out
  whoami                                 show the signed-in user
  tasks                                  list tasks
  watch                                  follow the session until interrupted
  t <key>                                print a UI string
  locale [en|cs]                         show or set the UI language
  theme [light|dark|system|toggle]       show or set the colour scheme
  translate set <locale> <key> <value>   change a translation
`)
}

// requireSession resolves the cached session against the server.
func (a *App) requireSession(ctx context.Context) error {
	if err := a.vm.Refresh(ctx); err != nil {
		return err
	}
	if !a.vm.IsAuthenticated() {
		return ErrNotSignedIn
	}
	return nil
}
