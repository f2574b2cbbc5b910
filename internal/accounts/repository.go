package accounts

import (
	"context"
)

// Repository describes storage operations for account records.
// Implementations are backed by SQLite (CLI) or PostgreSQL (server).
type Repository interface {
	// Create inserts a new account. The lower-cased username key must be
	// unique; implementations surface a wrapped error on conflict.
	Create(ctx context.Context, account *Account) error

	// GetByKey returns the account stored under the given lookup key
	// (lower-cased username), or common.ErrorNotFound.
	GetByKey(ctx context.Context, key string) (*Account, error)

	// GetByID returns the account with the given identifier,
	// or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*Account, error)

	// GetAll lists every account in the table.
	GetAll(ctx context.Context) ([]Account, error)

	// DemoteAdmins rewrites every RoleAdmin record to RoleUser and reports
	// how many rows changed.
	DemoteAdmins(ctx context.Context) (int64, error)
}
