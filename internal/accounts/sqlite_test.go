package accounts

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/avoronin/accountkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE accounts (
  username_key TEXT PRIMARY KEY,
  id TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL,
  secret TEXT NOT NULL,
  avatar_ref TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'user',
  followers TEXT NOT NULL DEFAULT '[]',
  following TEXT NOT NULL DEFAULT '[]',
  created_at INTEGER NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func testAccount(id, displayName string, role Role) *Account {
	return &Account{
		ID:          id,
		DisplayName: displayName,
		Secret:      "password1",
		Role:        role,
		Followers:   []string{},
		Following:   []string{},
		CreatedAt:   time.Unix(1700000000, 0).UTC(),
	}
}

func TestCreateAndGetByKey_RoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	a := testAccount("id-1", "Gamer1", RoleUser)
	a.AvatarRef = "data:image/png;base64,AAAA"
	require.NoError(t, r.Create(ctx, a))

	got, err := r.GetByKey(ctx, "gamer1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "Gamer1", got.DisplayName, "display name keeps original casing")
	assert.Equal(t, "password1", got.Secret)
	assert.Equal(t, "data:image/png;base64,AAAA", got.AvatarRef)
	assert.Equal(t, RoleUser, got.Role)
	assert.Equal(t, []string{}, got.Followers)
	assert.Equal(t, []string{}, got.Following)
	assert.Equal(t, a.CreatedAt, got.CreatedAt)
}

func TestCreate_DuplicateKeyFails(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, testAccount("id-1", "alice", RoleUser)))

	// same key, different casing
	err := r.Create(ctx, testAccount("id-2", "Alice", RoleUser))
	require.Error(t, err)
}

func TestGetByKey_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByKey(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, testAccount("id-7", "bob", RoleModerator)))

	got, err := r.GetByID(ctx, "id-7")
	require.NoError(t, err)
	assert.Equal(t, "bob", got.DisplayName)
	assert.Equal(t, RoleModerator, got.Role)

	_, err = r.GetByID(ctx, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetAll_OrderedByKey(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, testAccount("id-2", "Zoe", RoleUser)))
	require.NoError(t, r.Create(ctx, testAccount("id-1", "alice", RoleUser)))

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].DisplayName)
	assert.Equal(t, "Zoe", got[1].DisplayName)
}

func TestDemoteAdmins_RewritesOnlyAdmins(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, testAccount("id-1", "root", RoleAdmin)))
	require.NoError(t, r.Create(ctx, testAccount("id-2", "mod", RoleModerator)))
	require.NoError(t, r.Create(ctx, testAccount("id-3", "joe", RoleUser)))

	n, err := r.DemoteAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := r.GetByKey(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, got.Role)

	got, err = r.GetByKey(ctx, "mod")
	require.NoError(t, err)
	assert.Equal(t, RoleModerator, got.Role, "moderator must not be touched")

	// second pass finds nothing to rewrite
	n, err = r.DemoteAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
