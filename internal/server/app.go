// Package server initializes and runs the account API server.
// It opens the PostgreSQL backend, repairs the role invariant at startup,
// handles graceful shutdown, and serves the HTTP session API.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avoronin/accountkeeper/internal/accounts"
	"github.com/avoronin/accountkeeper/internal/logging"
	"github.com/avoronin/accountkeeper/internal/server/config"
	"github.com/avoronin/accountkeeper/internal/server/database"
	"github.com/avoronin/accountkeeper/internal/server/httpapi"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	accounts *accounts.Service
	db       *sql.DB
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	repos, err := database.Init(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	svc := accounts.NewService(repos.Accounts, logger)

	// Role repair runs before the server accepts requests, so no client
	// ever observes an admin account.
	if _, err := svc.DemoteAdmins(ctx); err != nil {
		_ = repos.DB.Close()
		return nil, fmt.Errorf("role repair error: %w", err)
	}

	return &App{config: c, logger: logger, accounts: svc, db: repos.DB}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger, app.accounts,
		app.config.SecretKey, app.config.AccessTokenValidityDuration)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
