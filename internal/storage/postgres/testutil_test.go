package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage/migrations"
)

// setupTestDB starts a throwaway PostgreSQL, applies the embedded schema and
// registers teardown with t.Cleanup. Skipped with -short.
func setupTestDB(t *testing.T) *Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("launchpad"),
		postgres.WithUsername("launchpad"),
		postgres.WithPassword("launchpad"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err, "connect")
	t.Cleanup(pool.Close)

	_, err = migrations.RunPostgresMigrations(ctx, pool.Pool)
	require.NoError(t, err, "apply migrations")
	return pool
}

// ptr is a helper to create pointers to values.
func ptr[T any](v T) *T {
	return &v
}

// insertTestWallet stores a wallet that tokens and activities can reference.
func insertTestWallet(t *testing.T, pool *Pool, publicKey string) *domain.SecureWallet {
	t.Helper()

	w := &domain.SecureWallet{
		PublicKey:  publicKey,
		PrivateKey: "secret-" + publicKey,
		APIKey:     "api-" + publicKey,
		CreatorIP:  "10.0.0.1",
		IsActive:   true,
		Notes:      "test wallet",
	}
	require.NoError(t, NewWalletStore(pool).Insert(context.Background(), w))
	return w
}
