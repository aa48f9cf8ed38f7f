// Package server wires the account service together: database pool,
// migrations, services and the HTTP server, plus signal handling.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/dbx"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/logging"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/auth"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/config"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/httpserver"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/repositories/repomanager"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/services"
)

// seams for tests
var (
	openDB         = sql.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpserver.Server
}

// NewApp opens the connection pool, applies migrations and builds the
// services. The pool is closed again if any step fails.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)

	app, err := newApp(ctx, cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger, db *sql.DB) (*App, error) {
	pingCtx, cancel := dbx.WithTimeout(ctx, cfg.DBTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migrations: %w", err)
	}

	hasher := auth.NewHasher(auth.DefaultCost)
	codec := auth.NewCodec([]byte(cfg.SecretKey))

	srv := httpserver.New(cfg, httpserver.Deps{
		Auth:       services.NewAuthService(db, rm, hasher, codec, cfg),
		Users:      services.NewUserService(db, rm, hasher, cfg),
		Attributes: services.NewAttributeService(db, rm, cfg),
		Logger:     logger.With("module", "http"),
	})

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// the HTTP server down and closes the pool.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "Starting app...",
		"addr", app.config.EndpointAddrHTTP,
		"db_max_open_conns", app.config.DBMaxOpenConns,
	)

	runErr := app.server.Run(ctx)

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "app stopped")

	return runErr
}
