// Package database opens the local SQLite database, applies embedded
// migrations, and wires up the client-side repositories.
package database

import (
	"context"
	"database/sql"

	"github.com/avoronin/accountkeeper/internal/accounts"
	"github.com/avoronin/accountkeeper/internal/client/migrations"
	"github.com/avoronin/accountkeeper/internal/client/state"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Accounts accounts.Repository
	State    state.Repository
	DB       *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

func Init(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Accounts: accounts.NewSQLiteRepository(db),
		State:    state.NewSQLiteRepository(db),
		DB:       db,
	}, nil
}
