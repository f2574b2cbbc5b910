// Package cli implements the interactive AccountKeeper client: a small REPL
// over the local session store.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/avoronin/accountkeeper/internal/accounts"
	"github.com/avoronin/accountkeeper/internal/client/config"
	"github.com/avoronin/accountkeeper/internal/client/database"
	"github.com/avoronin/accountkeeper/internal/logging"
	"github.com/avoronin/accountkeeper/internal/store"
)

// sessionStore is the store surface the CLI needs. The real *store.Store
// satisfies it; tests can provide a lightweight stub.
type sessionStore interface {
	SignInOrRegister(ctx context.Context, username, password, avatarRef string) (*accounts.Account, error)
	SignOut(ctx context.Context) error
	CurrentAccount() *accounts.Account
}

type App struct {
	config *config.Config
	store  sessionStore
	logger logging.Logger
	reader *bufio.Reader
	db     *sql.DB
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	repos, err := database.Init(ctx, c.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err.Error())
		return nil, err
	}

	svc := accounts.NewService(repos.Accounts, logger)
	st := store.New(svc, repos.State, logger)

	if err := st.Initialize(ctx); err != nil {
		_ = repos.DB.Close()
		return nil, err
	}

	return &App{
		config: c,
		store:  st,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		db:     repos.DB,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.db.Close() }()
	a.Root(ctx)
}

func (a *App) isSignedIn() bool {
	return a.store.CurrentAccount() != nil
}
