// Package server initializes and runs the store server: it connects the
// storage backend, applies schema migrations, seeds the bootstrap admin,
// and serves the HTTP API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pr-poehali-dev/onlimess/internal/dbx"
	"github.com/pr-poehali-dev/onlimess/internal/logging"
	"github.com/pr-poehali-dev/onlimess/internal/server/auth"
	"github.com/pr-poehali-dev/onlimess/internal/server/config"
	"github.com/pr-poehali-dev/onlimess/internal/server/contacts"
	"github.com/pr-poehali-dev/onlimess/internal/server/httpapi"
	"github.com/pr-poehali-dev/onlimess/internal/server/messages"
	"github.com/pr-poehali-dev/onlimess/internal/server/migrations"
	"github.com/pr-poehali-dev/onlimess/internal/server/users"
)

type App struct {
	config *config.Config
	logger *logging.ZapLogger
	db     *sql.DB
	users  *users.Service
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger, err := logging.NewZapLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: cfg, logger: logger}

	hasher := auth.NewHasher(cfg.BcryptCost)
	secret := []byte(cfg.SecretKey)

	var userService *users.Service
	var contactService *contacts.Service
	var messageService *messages.Service

	if cfg.UseInMemory {
		userService = users.NewService(users.NewInMemoryRepository(), hasher, secret, cfg.AccessTokenTTL)
		contactService = contacts.NewService(contacts.NewInMemoryRepository(), userService)
		messageService = messages.NewService(messages.NewInMemoryRepository())
	} else {
		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db

		userService = users.NewService(users.NewPostgresRepository(db), hasher, secret, cfg.AccessTokenTTL)
		contactService = contacts.NewService(contacts.NewPostgresRepository(db), userService)
		messageService = messages.NewService(messages.NewPostgresRepository(db))
	}

	app.users = userService
	app.server = httpapi.NewServer(logger.Zap(), secret, userService, contactService, messageService)

	return app, nil
}

func (app *App) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, app.db, ".")
}

// seedAdmin creates the bootstrap administrator when the store is empty.
// On PostgreSQL the check and the insert run in one transaction so two
// concurrently starting instances cannot both seed.
func (app *App) seedAdmin(ctx context.Context, hasher *auth.Hasher, secret []byte) error {
	admin := app.config.BootstrapAdmin

	if app.db == nil {
		return app.users.EnsureAdmin(ctx, admin.Username, admin.Password, admin.Email, admin.Name)
	}

	return dbx.WithTx(ctx, app.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		svc := users.NewService(users.NewPostgresRepository(tx), hasher, secret, app.config.AccessTokenTTL)
		return svc.EnsureAdmin(ctx, admin.Username, admin.Password, admin.Email, admin.Name)
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer func() { _ = app.logger.Sync() }()

	app.logger.Info(ctx, "starting store server", "addr", app.config.Addr)

	app.initSignalHandler(cancelFunc)

	if app.db != nil {
		if err := app.runMigrations(ctx); err != nil {
			return fmt.Errorf("migrations error: %w", err)
		}
		defer func() { _ = app.db.Close() }()
	}

	hasher := auth.NewHasher(app.config.BcryptCost)
	if err := app.seedAdmin(ctx, hasher, []byte(app.config.SecretKey)); err != nil {
		return fmt.Errorf("admin bootstrap error: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Listen(app.config.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	return app.server.Shutdown(shutdownCtx)
}
