package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/jandrly/kancl/internal/client/prefs"
	"github.com/jandrly/kancl/internal/core/domain"
)

func (a *App) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if a.cache.Get() != "" {
		if err := a.vm.Refresh(ctx); err == nil && a.vm.IsAuthenticated() {
			fmt.Fprintf(a.out, "Already signed in as %s\n", a.vm.Identity().User.Email)
			return nil
		}
	}

	var err error
	if *email == "" {
		if *email, err = readLine(a.in, a.out, a.tr.T("auth.email", "Email")); err != nil {
			return err
		}
	}
	password, err := readSecret(a.out, a.tr.T("auth.password", "Password"))
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, a.tr.T("auth.loggingIn", "Logging in..."))
	res, err := a.vm.Login(ctx, *email, password)
	if err != nil {
		return err
	}
	if !res.Success {
		return errors.New(a.tr.T("auth.invalidCredentials", res.Error))
	}

	fmt.Fprintf(a.out, "%s, %s\n", a.tr.T("auth.welcomeBack", "Welcome back"), displayName(res.User))
	return nil
}

func (a *App) logout(ctx context.Context) error {
	if err := a.vm.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	if err := a.vm.Refresh(ctx); err != nil {
		return err
	}
	u := a.vm.Identity().User
	if u == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}

	fmt.Fprintf(a.out, "%s <%s>\n", displayName(u), u.Email)
	if u.Role != nil {
		fmt.Fprintf(a.out, "role: %s\n", *u.Role)
	}
	if u.OrganizationID != nil {
		fmt.Fprintf(a.out, "organization: %s\n", *u.OrganizationID)
	}
	return nil
}

// watch prints every change of the signed-in identity until ctx ends.
func (a *App) watch(ctx context.Context) error {
	updates, unsubscribe := a.vm.Subscribe()
	defer unsubscribe()

	go a.vm.Poll(ctx, a.pollInterval)
	if err := a.vm.Refresh(ctx); err != nil {
		a.log.Warn().Err(err).Msg("initial session check failed")
	}

	var last string
	for {
		select {
		case id := <-updates:
			if !id.Resolved {
				continue
			}
			line := "Not signed in"
			if id.User != nil {
				line = "Signed in as " + id.User.Email
			}
			if line != last {
				fmt.Fprintln(a.out, line)
				last = line
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) tasks(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}
	tasks, err := a.client.ListTasks(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, a.tr.T("common.noResults", "No results found"))
		return nil
	}
	for _, t := range tasks {
		mark := " "
		if t.IsCompleted {
			mark = "x"
		}
		fmt.Fprintf(a.out, "[%s] %s\n", mark, t.Text)
	}
	return nil
}

func (a *App) translate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: kancl t <key>")
	}
	fmt.Fprintln(a.out, a.tr.T(args[0], ""))
	return nil
}

func (a *App) setLocale(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, a.locale.Get())
		return nil
	}
	if err := a.locale.Set(args[0]); err != nil {
		return fmt.Errorf("%w (supported: %s)", err, strings.Join(prefs.SupportedLocales, ", "))
	}
	if err := a.tr.Load(ctx, args[0]); err != nil {
		a.log.Debug().Err(err).Msg("translations unavailable")
	}
	fmt.Fprintln(a.out, args[0])
	return nil
}

func (a *App) setTheme(args []string) error {
	switch {
	case len(args) == 0:
		fmt.Fprintf(a.out, "%s (%s)\n", a.theme.Get(), a.theme.Effective())
		return nil
	case args[0] == "toggle":
		next, err := a.theme.Toggle()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, next)
		return nil
	default:
		if err := a.theme.Set(prefs.Theme(args[0])); err != nil {
			return err
		}
		fmt.Fprintln(a.out, args[0])
		return nil
	}
}

func (a *App) upsertTranslation(ctx context.Context, args []string) error {
	if len(args) != 4 || args[0] != "set" {
		return fmt.Errorf("usage: kancl translate set <locale> <key> <value>")
	}
	locale, key, value := args[1], args[2], args[3]
	if err := a.client.UpsertTranslation(ctx, locale, key, value); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.tr.T("common.success", "Success"))
	return nil
}

func displayName(u *domain.UserView) string {
	if u == nil {
		return ""
	}
	var parts []string
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	if len(parts) == 0 {
		return u.Email
	}
	return strings.Join(parts, " ")
}
