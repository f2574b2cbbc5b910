package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avoronin/accountkeeper/internal/common"
	"github.com/avoronin/accountkeeper/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, account *Account) error {
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		account.ID, account.Key(), account.DisplayName, account.Secret,
		account.AvatarRef, string(account.Role), followers, following,
		account.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByKey(ctx context.Context, key string) (*Account, error) {
	query := `SELECT id, display_name, secret, avatar_ref, role, followers, following, created_at
		FROM accounts WHERE username_key = ?`

	return r.scanOne(r.db.QueryRowContext(ctx, query, key))
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	query := `SELECT id, display_name, secret, avatar_ref, role, followers, following, created_at
		FROM accounts WHERE id = ?`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]Account, error) {
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

func (r *SQLiteRepository) DemoteAdmins(ctx context.Context) (int64, error) {
	query := `UPDATE accounts SET role = ? WHERE role = ?`

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

func (r *SQLiteRepository) scanOne(row *sql.Row) (*Account, error) {
	account, err := scanAccount(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

// scanAccount reads one account row in the shared column order.
func scanAccount(scan func(dest ...any) error) (*Account, error) {
	var (
		account    Account
		role       string
		followers  string
		following  string
		createdSec int64
	)
	err := scan(&account.ID, &account.DisplayName, &account.Secret,
		&account.AvatarRef, &role, &followers, &following, &createdSec)
	if err != nil {
		return nil, err
	}

	account.Role = Role(role)
	account.CreatedAt = time.Unix(createdSec, 0).UTC()

	if account.Followers, err = decodeIDSet(followers); err != nil {
		return nil, err
	}
	if account.Following, err = decodeIDSet(following); err != nil {
		return nil, err
	}
	return &account, nil
}
