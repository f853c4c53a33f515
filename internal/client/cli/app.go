// Package cli implements the interactive messenger client: a small REPL on
// top of the session manager and the conversation model.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pr-poehali-dev/onlimess/internal/client/api"
	"github.com/pr-poehali-dev/onlimess/internal/client/config"
	"github.com/pr-poehali-dev/onlimess/internal/client/session"
	"github.com/pr-poehali-dev/onlimess/internal/client/sessionstore"
	"github.com/pr-poehali-dev/onlimess/internal/common"
	"github.com/pr-poehali-dev/onlimess/internal/filex"
	"github.com/pr-poehali-dev/onlimess/internal/logging"
)

type App struct {
	config  *config.Config
	client  api.Client
	store   *sessionstore.Store
	manager *session.Manager
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	dbPath, err := filex.EnsureParentDir(c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("prepare local database path: %w", err)
	}

	store, err := sessionstore.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}

	client := api.NewHTTPClient(c.ServerURL)

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	app := &App{
		config: c,
		client: client,
		store:  store,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	app.manager = session.NewManager(client, store, session.Config{
		PollInterval: c.PollInterval,
		TypingReset:  c.TypingResetDelay,
	}, app.notice, logger)

	return app, nil
}

// notice prints a transient, non-blocking notification line.
func (a *App) notice(text string) {
	fmt.Fprintf(a.out, "\n[!] %s\n", text)
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		a.manager.Close()
		_ = a.client.Close()
		_ = a.store.Close()
	}()

	// A stored snapshot resumes the previous session without re-login.
	if err := a.manager.Resume(ctx); err == nil {
		s := a.manager.Session()
		fmt.Fprintf(a.out, "Welcome back, %s!\n", s.DisplayName)
	} else if !errors.Is(err, common.ErrNotFound) {
		fmt.Fprintf(a.out, "Could not resume session: %v\n", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

// status renders the prompt segment describing the current session.
func (a *App) status() string {
	switch a.manager.State() {
	case session.FirstLoginSetup:
		return "setup required"
	case session.Active:
		s := a.manager.Session()
		if chat := a.manager.Model().ActiveChat(); chat != "" {
			return fmt.Sprintf("%s -> %s", s.Email, chat)
		}
		return s.Email
	case session.Frozen:
		return "FROZEN"
	default:
		return "not logged in"
	}
}
