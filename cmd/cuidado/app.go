package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/guard"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/logger"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/session"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/client"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const defaultBaseURL = "http://localhost:8080"

// Screen routes of the signed-in area.
const (
	routeProfessionals = guard.LandingRoute
	routeBlogs         = "/(tabs)/blogs"
	routeCommunities   = "/(tabs)/communities"
	routeProfile       = "/(tabs)/profile"
)

var (
	errLoginRequired = errors.New("faça login para continuar")
	errAdminOnly     = errors.New("apenas administradores podem fazer isso")
)

type rootOptions struct {
	configPath string
	baseURL    string
	logLevel   string
}

// app is the per-process state shared by every command: one client, one
// session store subscribed to it and one guard following the store.
type app struct {
	opts rootOptions

	out        io.Writer
	in         *bufio.Reader
	logger     zerolog.Logger
	configPath string

	// tty is the input's file descriptor when it is a terminal, otherwise -1.
	tty        int
	readSecret func(fd int) ([]byte, error)

	client  *client.Client
	store   *session.Store
	nav     *guard.StackNavigator
	guard   *guard.Guard
	release func()
}

func (a *app) open(ctx context.Context, out io.Writer, in io.Reader) error {
	a.out = out
	a.in = bufio.NewReader(in)
	a.tty = -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.tty = int(f.Fd())
	}
	a.readSecret = term.ReadPassword
	a.logger = logger.Setup(a.opts.logLevel, false)

	path := a.opts.configPath
	if path == "" {
		var err error
		if path, err = client.DefaultConfigPath(); err != nil {
			return err
		}
	}
	a.configPath = path

	cfg, err := client.LoadConfig(path)
	if err != nil {
		return err
	}
	baseURL := firstNonEmpty(a.opts.baseURL, os.Getenv("CUIDADO_API_URL"), cfg.BaseURL, defaultBaseURL)

	a.client = client.New(baseURL, client.NewFileTokenStore(path), client.WithLogger(a.logger))
	a.store = session.NewStore(a.client, a.client, a.logger)
	if a.release, err = a.store.Subscribe(ctx); err != nil {
		return err
	}
	a.store.Initialize(ctx)

	a.nav = guard.NewStackNavigator(guard.LoginRoute)
	a.guard = guard.New(a.store, a.nav, a.logger)
	a.guard.Start()
	return nil
}

func (a *app) close() {
	if a.guard != nil {
		a.guard.Stop()
	}
	if a.release != nil {
		a.release()
	}
}

// enter navigates to a signed-in screen.
func (a *app) enter(route string) error {
	d := a.guard.Navigate(route)
	if d.Redirect == guard.LoginRoute {
		return errLoginRequired
	}
	return nil
}

// enterPublic navigates to a public screen. It reports false when the guard
// sent a signed-in user to the landing screen instead.
func (a *app) enterPublic(route string) bool {
	return a.guard.Navigate(route).Redirect == ""
}

// requireAdmin resolves the role of the signed-in user if still unknown.
func (a *app) requireAdmin(ctx context.Context) error {
	role, ok := a.store.CheckUserRole(ctx)
	if !ok {
		return errLoginRequired
	}
	if !identity.Classify(role).IsAdmin {
		return errAdminOnly
	}
	return nil
}

func (a *app) isAdmin(ctx context.Context) bool {
	role, ok := a.store.CheckUserRole(ctx)
	return ok && identity.Classify(role).IsAdmin
}

// prompt returns value when set, otherwise reads one line from the input.
func (a *app) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// secret is prompt for passwords: on a terminal the typed text is not echoed.
func (a *app) secret(label, value string) (string, error) {
	if value != "" || a.tty < 0 {
		return a.prompt(label, value)
	}
	fmt.Fprintf(a.out, "%s: ", label)
	b, err := a.readSecret(a.tty)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
