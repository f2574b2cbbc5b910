// Package database opens the PostgreSQL database, applies embedded
// migrations, and wires up the server-side account repository.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avoronin/accountkeeper/internal/accounts"
	"github.com/avoronin/accountkeeper/internal/server/migrations"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Repositories struct {
	Accounts accounts.Repository
	DB       *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

func Init(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Repositories{
		Accounts: accounts.NewPostgresRepository(db),
		DB:       db,
	}, nil
}
