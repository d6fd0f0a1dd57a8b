package ledger

import (
	"context"

	"tandem/core"
	"tandem/pkg/lending"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// AddLiquidity debits amount underlying from lender into the pool and mints
// shares, 1:1 at bootstrap, proportional afterwards
func (s *Service) AddLiquidity(ctx context.Context, lender string, amount decimal.Decimal) (decimal.Decimal, error) {
	log := logger.FromContext(ctx).WithField("op", "add_liquidity")

	amount = amount.Truncate(lending.AmountPrecision)
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, core.ErrInvalidAmount
	}

	pool, exit, err := s.enter(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer exit()

	shares := lending.SharesForDeposit(amount, pool.TotalShares, pool.UnderlyingBalance)
	if shares.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, core.ErrInvalidAmount
	}

	account, err := s.shareStore.Find(ctx, lender)
	if err != nil {
		return decimal.Zero, err
	}

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.tokens.TransferFrom(ctx, tx, s.system.PoolAccountID, lender, s.system.PoolAccountID, s.system.BorrowAssetID, amount); err != nil {
			return err
		}

		pool.UnderlyingBalance = pool.UnderlyingBalance.Add(amount)
		pool.TotalShares = pool.TotalShares.Add(shares)
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}

		account.Shares = account.Shares.Add(shares)
		if err := s.shareStore.Save(ctx, tx, account); err != nil {
			return err
		}

		event := core.NewEvent(core.EventLiquidityAdded, 0, map[string]interface{}{
			"lender": lender,
			"amount": amount,
			"shares": shares,
		})
		return s.eventStore.Create(ctx, tx, event)
	})
	if err != nil {
		log.WithError(err).Errorln("add liquidity failed")
		return decimal.Zero, err
	}

	return shares, nil
}

// RemoveLiquidity burns shareAmount of lender's shares and credits the
// proportional underlying back; shares burn first
func (s *Service) RemoveLiquidity(ctx context.Context, lender string, shareAmount decimal.Decimal) (decimal.Decimal, error) {
	log := logger.FromContext(ctx).WithField("op", "remove_liquidity")

	shareAmount = shareAmount.Truncate(lending.AmountPrecision)
	if shareAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, core.ErrInvalidAmount
	}

	pool, exit, err := s.enter(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer exit()

	account, err := s.shareStore.Find(ctx, lender)
	if err != nil {
		return decimal.Zero, err
	}
	if account.Shares.LessThan(shareAmount) {
		return decimal.Zero, core.ErrInsufficientShares
	}

	underlying := lending.UnderlyingForShares(shareAmount, pool.UnderlyingBalance, pool.TotalShares)
	if underlying.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, core.ErrInvalidAmount
	}

	// the till may hold less than the accounting balance while loans are out
	till, err := s.tokens.BalanceOf(ctx, s.system.PoolAccountID, s.system.BorrowAssetID)
	if err != nil {
		return decimal.Zero, err
	}
	if till.LessThan(underlying) {
		return decimal.Zero, core.ErrInsufficientLiquidity
	}

	err = s.db.Tx(func(tx *db.DB) error {
		account.Shares = account.Shares.Sub(shareAmount)
		if err := s.shareStore.Save(ctx, tx, account); err != nil {
			return err
		}

		pool.TotalShares = pool.TotalShares.Sub(shareAmount)
		pool.UnderlyingBalance = pool.UnderlyingBalance.Sub(underlying)
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}

		if err := s.tokens.Transfer(ctx, tx, s.system.PoolAccountID, lender, s.system.BorrowAssetID, underlying); err != nil {
			return err
		}

		event := core.NewEvent(core.EventLiquidityRemoved, 0, map[string]interface{}{
			"lender":     lender,
			"shares":     shareAmount,
			"underlying": underlying,
		})
		return s.eventStore.Create(ctx, tx, event)
	})
	if err != nil {
		log.WithError(err).Errorln("remove liquidity failed")
		return decimal.Zero, err
	}

	return underlying, nil
}

// TransferShares moves amount of present-day underlying value between share
// holders; the face value is converted to share units at the live exchange
// rate, so value moved is independent of rate drift
func (s *Service) TransferShares(ctx context.Context, from, to string, amount decimal.Decimal) error {
	amount = amount.Truncate(lending.AmountPrecision)
	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrInvalidAmount
	}
	if from == to {
		return core.ErrInvalidAmount
	}

	pool, exit, err := s.enter(ctx)
	if err != nil {
		return err
	}
	defer exit()

	shareAmount := lending.SharesForValue(amount, pool.ExchangeRate())
	if shareAmount.LessThanOrEqual(decimal.Zero) {
		return core.ErrInvalidAmount
	}

	fromAccount, err := s.shareStore.Find(ctx, from)
	if err != nil {
		return err
	}
	if fromAccount.Shares.LessThan(shareAmount) {
		return core.ErrInsufficientShares
	}

	toAccount, err := s.shareStore.Find(ctx, to)
	if err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		fromAccount.Shares = fromAccount.Shares.Sub(shareAmount)
		if err := s.shareStore.Save(ctx, tx, fromAccount); err != nil {
			return err
		}

		toAccount.Shares = toAccount.Shares.Add(shareAmount)
		if err := s.shareStore.Save(ctx, tx, toAccount); err != nil {
			return err
		}

		event := core.NewEvent(core.EventSharesTransferred, 0, map[string]interface{}{
			"from":   from,
			"to":     to,
			"amount": amount,
			"shares": shareAmount,
		})
		return s.eventStore.Create(ctx, tx, event)
	})
}

// ApproveShares grants spender an allowance over owner's shares. The face
// value is converted to share units at the live exchange rate; the allowance
// itself is held in share units so later rate drift cannot inflate it
func (s *Service) ApproveShares(ctx context.Context, owner, spender string, amount decimal.Decimal) error {
	amount = amount.Truncate(lending.AmountPrecision)
	if amount.IsNegative() {
		return core.ErrInvalidAmount
	}
	if spender == "" || spender == owner {
		return core.ErrInvalidParams
	}

	pool, exit, err := s.enter(ctx)
	if err != nil {
		return err
	}
	defer exit()

	shareAmount := decimal.Zero
	if amount.IsPositive() {
		shareAmount = lending.SharesForValue(amount, pool.ExchangeRate())
	}

	if err := s.shareStore.Approve(ctx, owner, spender, shareAmount); err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		event := core.NewEvent(core.EventSharesApproved, 0, map[string]interface{}{
			"owner":   owner,
			"spender": spender,
			"amount":  amount,
			"shares":  shareAmount,
		})
		return s.eventStore.Create(ctx, tx, event)
	})
}

// TransferSharesFrom moves amount of face-value underlying out of from's
// shares on spender's allowance; the spent allowance is consumed in the same
// transaction as the balance moves
func (s *Service) TransferSharesFrom(ctx context.Context, spender, from, to string, amount decimal.Decimal) error {
	amount = amount.Truncate(lending.AmountPrecision)
	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrInvalidAmount
	}
	if from == to || spender == "" {
		return core.ErrInvalidParams
	}

	pool, exit, err := s.enter(ctx)
	if err != nil {
		return err
	}
	defer exit()

	shareAmount := lending.SharesForValue(amount, pool.ExchangeRate())
	if shareAmount.LessThanOrEqual(decimal.Zero) {
		return core.ErrInvalidAmount
	}

	allowance, err := s.shareStore.Allowance(ctx, from, spender)
	if err != nil {
		return err
	}
	if allowance.LessThan(shareAmount) {
		return core.ErrInsufficientAllowance
	}

	fromAccount, err := s.shareStore.Find(ctx, from)
	if err != nil {
		return err
	}
	if fromAccount.Shares.LessThan(shareAmount) {
		return core.ErrInsufficientShares
	}

	toAccount, err := s.shareStore.Find(ctx, to)
	if err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.shareStore.SpendAllowance(ctx, tx, from, spender, shareAmount); err != nil {
			return err
		}

		fromAccount.Shares = fromAccount.Shares.Sub(shareAmount)
		if err := s.shareStore.Save(ctx, tx, fromAccount); err != nil {
			return err
		}

		toAccount.Shares = toAccount.Shares.Add(shareAmount)
		if err := s.shareStore.Save(ctx, tx, toAccount); err != nil {
			return err
		}

		event := core.NewEvent(core.EventSharesTransferred, 0, map[string]interface{}{
			"spender": spender,
			"from":    from,
			"to":      to,
			"amount":  amount,
			"shares":  shareAmount,
		})
		return s.eventStore.Create(ctx, tx, event)
	})
}

// BalanceOf redeemable underlying value of the holder's shares
func (s *Service) BalanceOf(ctx context.Context, holder string) (decimal.Decimal, error) {
	pool, err := s.poolStore.Load(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	account, err := s.shareStore.Find(ctx, holder)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.RedeemableValue(account.Shares, pool.UnderlyingBalance, pool.TotalShares), nil
}
