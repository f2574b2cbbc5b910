package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInit_CreatesSchemaAndRepositories(t *testing.T) {
	repos, err := Init(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	require.NotNil(t, repos.Accounts)
	require.NotNil(t, repos.State)

	// both tables must exist after migrations
	for _, table := range []string{"accounts", "state"} {
		var name string
		err := repos.DB.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	repos, err := Init(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	require.NoError(t, RunMigrations(context.Background(), repos.DB))
}
