package ledger

import (
	"context"
	"testing"

	"tandem/core"
	"tandem/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLiquidityBootstrap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	shares := f.deposit(t, "alice", decimal.NewFromInt(1000))
	assert.Equal(t, "1000", shares.String())

	pool, _ := f.pool.Load(ctx)
	assert.Equal(t, "1000", pool.UnderlyingBalance.String())
	assert.Equal(t, "1000", pool.TotalShares.String())
	assert.Equal(t, "1", pool.ExchangeRate().String())

	till, _ := f.tokens.BalanceOf(ctx, "pool", "usd")
	assert.Equal(t, "1000", till.String())
	assert.Equal(t, []string{core.EventLiquidityAdded}, f.events.types())
}

func TestAddLiquidityProportional(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.deposit(t, "alice", decimal.NewFromInt(1000))

	// drift the exchange rate to 1.1 before the second deposit
	pool, _ := f.pool.Load(ctx)
	pool.UnderlyingBalance = decimal.NewFromInt(1100)

	shares := f.deposit(t, "bob", decimal.NewFromInt(220))
	assert.Equal(t, "200", shares.String())
}

func TestAddLiquidityRejectsBadAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddLiquidity(ctx, "alice", decimal.Zero)
	assert.Equal(t, core.ErrInvalidAmount, err)

	_, err = f.svc.AddLiquidity(ctx, "alice", decimal.NewFromInt(-5))
	assert.Equal(t, core.ErrInvalidAmount, err)
}

func TestRemoveLiquidity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.deposit(t, "alice", decimal.NewFromInt(1000))

	underlying, err := f.svc.RemoveLiquidity(ctx, "alice", decimal.NewFromInt(400))
	require.NoError(t, err)
	assert.Equal(t, "400", underlying.String())

	pool, _ := f.pool.Load(ctx)
	assert.Equal(t, "600", pool.TotalShares.String())
	assert.Equal(t, "600", pool.UnderlyingBalance.String())

	balance, _ := f.tokens.BalanceOf(ctx, "alice", "usd")
	assert.Equal(t, "400", balance.String())
}

func TestRemoveLiquidityInsufficientShares(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.deposit(t, "alice", decimal.NewFromInt(100))

	_, err := f.svc.RemoveLiquidity(ctx, "alice", decimal.NewFromInt(101))
	assert.Equal(t, core.ErrInsufficientShares, err)
}

func TestRemoveLiquidityBlockedByOutstandingLoans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.deposit(t, "alice", decimal.NewFromInt(1000))

	// the borrower cashes the borrowed shares out, draining the till
	borrowActiveLoan(t, f, "bob", decimal.NewFromInt(1000))
	_, err := f.svc.RemoveLiquidity(ctx, "bob", decimal.NewFromInt(1000))
	require.NoError(t, err)

	_, err = f.svc.RemoveLiquidity(ctx, "alice", decimal.NewFromInt(500))
	assert.Equal(t, core.ErrInsufficientLiquidity, err)
}

func TestTransferSharesMovesValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.deposit(t, "alice", decimal.NewFromInt(1000))

	// exchange rate 1.1: 110 of value costs 100 shares
	pool, _ := f.pool.Load(ctx)
	pool.UnderlyingBalance = decimal.NewFromInt(1100)

	err := f.svc.TransferShares(ctx, "alice", "bob", decimal.NewFromInt(110))
	require.NoError(t, err)

	alice, _ := f.shares.Find(ctx, "alice")
	bob, _ := f.shares.Find(ctx, "bob")
	assert.Equal(t, "900", alice.Shares.String())
	assert.Equal(t, "100", bob.Shares.String())

	value, err := f.svc.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "110", value.String())
}

func TestTransferSharesInsufficient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.deposit(t, "alice", decimal.NewFromInt(100))

	err := f.svc.TransferShares(ctx, "alice", "bob", decimal.NewFromInt(101))
	assert.Equal(t, core.ErrInsufficientShares, err)

	err = f.svc.TransferShares(ctx, "alice", "alice", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrInvalidAmount, err)
}

func TestApproveAndTransferSharesFrom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.deposit(t, "alice", decimal.NewFromInt(1000))

	// exchange rate 1.1: the 110 face-value allowance is 100 shares
	pool, _ := f.pool.Load(ctx)
	pool.UnderlyingBalance = decimal.NewFromInt(1100)

	require.NoError(t, f.svc.ApproveShares(ctx, "alice", "bob", decimal.NewFromInt(110)))
	allowance, _ := f.shares.Allowance(ctx, "alice", "bob")
	assert.Equal(t, "100", allowance.String())

	require.NoError(t, f.svc.TransferSharesFrom(ctx, "bob", "alice", "carol", decimal.NewFromInt(55)))

	alice, _ := f.shares.Find(ctx, "alice")
	carol, _ := f.shares.Find(ctx, "carol")
	assert.Equal(t, "950", alice.Shares.String())
	assert.Equal(t, "50", carol.Shares.String())

	value, err := f.svc.BalanceOf(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, "55", value.String())

	// the spent allowance is gone, the remainder caps the next move
	allowance, _ = f.shares.Allowance(ctx, "alice", "bob")
	assert.Equal(t, "50", allowance.String())
	err = f.svc.TransferSharesFrom(ctx, "bob", "alice", "carol", decimal.NewFromInt(110))
	assert.Equal(t, core.ErrInsufficientAllowance, err)

	// no allowance at all
	err = f.svc.TransferSharesFrom(ctx, "dave", "alice", "carol", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrInsufficientAllowance, err)
}

func TestTransferSharesFromValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.deposit(t, "alice", decimal.NewFromInt(100))

	err := f.svc.ApproveShares(ctx, "alice", "alice", decimal.NewFromInt(10))
	assert.Equal(t, core.ErrInvalidParams, err)

	err = f.svc.ApproveShares(ctx, "alice", "bob", decimal.NewFromInt(-1))
	assert.Equal(t, core.ErrInvalidAmount, err)

	err = f.svc.TransferSharesFrom(ctx, "bob", "alice", "alice", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrInvalidParams, err)

	// an approved spender still cannot exceed the owner's balance
	require.NoError(t, f.svc.ApproveShares(ctx, "alice", "bob", decimal.NewFromInt(200)))
	err = f.svc.TransferSharesFrom(ctx, "bob", "alice", "carol", decimal.NewFromInt(101))
	assert.Equal(t, core.ErrInsufficientShares, err)
}

func TestPausedBlocksMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pool, _ := f.pool.Load(ctx)
	pool.Paused = true

	_, err := f.svc.AddLiquidity(ctx, "alice", decimal.NewFromInt(100))
	assert.Equal(t, core.ErrPaused, err)

	_, err = f.svc.Repay(ctx, 1)
	assert.Equal(t, core.ErrPaused, err)
}

func TestShareConservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.deposit(t, "alice", number.Decimal("123.45678901"))
	f.deposit(t, "bob", number.Decimal("77.7"))

	pool, _ := f.pool.Load(ctx)
	total := decimal.Zero
	accounts, _ := f.shares.All(ctx)
	for _, account := range accounts {
		total = total.Add(account.Shares)
	}
	assert.True(t, total.Equal(pool.TotalShares), "share supply must equal the sum of accounts")
}
