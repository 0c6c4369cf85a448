package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*Repository, string) {
	path := filepath.Join(t.TempDir(), "storefront.db")

	repo, err := NewRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations())

	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func items() []domain.CartItem {
	return []domain.CartItem{
		{Product: domain.Product{ID: 1, Name: "Blue Mug", Price: decimal.RequireFromString("12.50"), CategoryID: 1}, Quantity: 2},
		{Product: domain.Product{ID: 2, Name: "Red Kettle", Price: decimal.RequireFromString("45"), CategoryID: 2}, Quantity: 1},
	}
}

func TestLoad_NotFound(t *testing.T) {
	repo, _ := setupTestDB(t)

	got, err := repo.Load(context.Background())

	assert.ErrorIs(t, err, cart.ErrSnapshotNotFound)
	assert.Nil(t, got)
}

func TestSaveAndLoad(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, items()))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Product.ID)
	assert.Equal(t, 2, got[0].Quantity)
	assert.True(t, got[1].Product.Price.Equal(decimal.NewFromInt(45)))
}

func TestSave_Overwrites(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, items()))
	require.NoError(t, repo.Save(ctx, items()[:1]))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestClear(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, items()))

	require.NoError(t, repo.Clear(ctx))

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, cart.ErrSnapshotNotFound)
	assert.NoError(t, repo.Clear(ctx), "clearing twice is fine")
}

func TestLoad_CorruptPayload(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO cart_snapshots (snapshot_key, payload) VALUES (?, ?)`,
		cart.SnapshotKey, `[{"product":{"id":`)
	require.NoError(t, err)

	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrCorruptSnapshot)
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	repo, path := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, items()))
	require.NoError(t, repo.Close())

	reopened, err := NewRepository(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.RunMigrations(), "migrations are idempotent")

	ledger := cart.NewLedger(reopened, logger.Discard())
	require.NoError(t, ledger.Restore(ctx))
	assert.Equal(t, 2, ledger.Quantity(1))
	assert.Equal(t, 1, ledger.Quantity(2))
}

func TestContextCancellation(t *testing.T) {
	repo, _ := setupTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
	defer cancel()

	time.Sleep(10 * time.Millisecond) // Ensure context is cancelled

	_, err := repo.Load(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "context")
}
