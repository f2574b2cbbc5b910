package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avoronin/accountkeeper/internal/common"
	"github.com/avoronin/accountkeeper/internal/dbx"
)

// PostgresRepository implements Repository on PostgreSQL for the server.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *Account) error {
	followers, err := encodeIDSet(account.Followers)
	if err != nil {
		return err
	}
	following, err := encodeIDSet(account.Following)
	if err != nil {
		return err
	}

	query := `INSERT INTO accounts
		(id, username_key, display_name, secret, avatar_ref, role, followers, following, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		account.ID, account.Key(), account.DisplayName, account.Secret,
		account.AvatarRef, string(account.Role), followers, following,
		account.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByKey(ctx context.Context, key string) (*Account, error) {
	query := `SELECT id, display_name, secret, avatar_ref, role, followers, following, created_at
		FROM accounts WHERE username_key = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, key))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	query := `SELECT id, display_name, secret, avatar_ref, role, followers, following, created_at
		FROM accounts WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]Account, error) {
	query := `SELECT id, display_name, secret, avatar_ref, role, followers, following, created_at
		FROM accounts ORDER BY username_key`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select accounts: %w", err)
	}
	defer rows.Close()

	var result []Account
	for rows.Next() {
		item, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account rows: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) DemoteAdmins(ctx context.Context) (int64, error) {
	query := `UPDATE accounts SET role = $1 WHERE role = $2`

	res, err := r.db.ExecContext(ctx, query, string(RoleUser), string(RoleAdmin))
	if err != nil {
		return 0, fmt.Errorf("failed to demote admin accounts: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*Account, error) {
	account, err := scanAccount(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}
