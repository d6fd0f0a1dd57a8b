package share

import (
	"context"
	"testing"

	"tandem/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *db.DB {
	t.Helper()
	database := db.MustOpen(db.Config{Dialect: "sqlite3", Host: ":memory:"})
	require.NoError(t, db.Migrate(database))
	return database
}

func TestShareSaveOptimisticLock(t *testing.T) {
	ctx := context.Background()
	database := testDB(t)
	defer database.Close()

	store := New(database)
	account, err := store.Find(ctx, "alice")
	require.NoError(t, err)

	account.Shares = decimal.NewFromInt(10)
	require.NoError(t, store.Save(ctx, database, account))
	require.NotZero(t, account.ID)

	account.Shares = decimal.NewFromInt(20)
	require.NoError(t, store.Save(ctx, database, account))

	account.Version = 0
	account.Shares = decimal.NewFromInt(30)
	assert.Equal(t, db.ErrOptimisticLock, store.Save(ctx, database, account))
}

func TestShareAllowance(t *testing.T) {
	ctx := context.Background()
	database := testDB(t)
	defer database.Close()

	store := New(database)

	allowance, err := store.Allowance(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, allowance.IsZero())

	require.NoError(t, store.Approve(ctx, "alice", "bob", decimal.NewFromInt(5)))

	err = database.Tx(func(tx *db.DB) error {
		return store.SpendAllowance(ctx, tx, "alice", "bob", decimal.NewFromInt(3))
	})
	require.NoError(t, err)

	allowance, err = store.Allowance(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "2", allowance.String())

	err = database.Tx(func(tx *db.DB) error {
		return store.SpendAllowance(ctx, tx, "alice", "bob", decimal.NewFromInt(3))
	})
	assert.Equal(t, core.ErrInsufficientAllowance, err)

	// an approval can be tightened later
	require.NoError(t, store.Approve(ctx, "alice", "bob", decimal.Zero))
	err = database.Tx(func(tx *db.DB) error {
		return store.SpendAllowance(ctx, tx, "alice", "bob", decimal.NewFromInt(1))
	})
	assert.Equal(t, core.ErrInsufficientAllowance, err)
}
