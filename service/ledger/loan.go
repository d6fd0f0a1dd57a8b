package ledger

import (
	"context"
	"time"

	"tandem/core"
	"tandem/pkg/lending"
	"tandem/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Borrow opens a pool loan. Collateral is locked, the rate is resolved at the
// post-borrow utilization and fixed for the life of the loan, and the
// principal is funded as freshly minted shares in the borrower's account.
func (s *Service) Borrow(ctx context.Context, borrower string, amount decimal.Decimal, duration time.Duration) (*core.Loan, error) {
	log := logger.FromContext(ctx).WithField("op", "borrow")

	amount = amount.Truncate(lending.AmountPrecision)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, core.ErrInvalidAmount
	}
	if duration <= 0 || duration > core.MaxLoanDuration {
		return nil, core.ErrInvalidDuration
	}

	pool, exit, err := s.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer exit()
	if pool.AvailableLiquidity().LessThan(amount) {
		return nil, core.ErrInsufficientLiquidity
	}

	riskParams, err := s.paramStore.CurrentRiskParams(ctx)
	if err != nil {
		return nil, err
	}
	rateParams, err := s.paramStore.CurrentRateParams(ctx)
	if err != nil {
		return nil, err
	}

	quote, err := s.quotes.GetQuote(ctx)
	if err != nil {
		return nil, err
	}

	collateral := lending.RequiredCollateral(amount, riskParams.LtvBps, quote)
	if collateral.LessThanOrEqual(decimal.Zero) {
		return nil, core.ErrInvalidAmount
	}

	balance, err := s.tokens.BalanceOf(ctx, borrower, s.system.CollateralAssetID)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(collateral) {
		return nil, core.ErrInsufficientCollateral
	}

	// rate at the utilization the pool will have once this loan is out
	utilization := lending.UtilizationRate(pool.CurrentTotalDebt, amount, pool.TotalShares)
	rate := s.resolveRate(utilization, rateParams)

	account, err := s.shareStore.Find(ctx, borrower)
	if err != nil {
		return nil, err
	}

	// the principal is funded in share claims, not cash; the accounting
	// balance grows with the minted claim so the exchange rate holds
	shares := lending.SharesForDeposit(amount, pool.TotalShares, pool.UnderlyingBalance)

	loan := &core.Loan{
		Borrower:         borrower,
		Principal:        amount,
		CollateralAmount: collateral,
		Duration:         int64(duration / time.Second),
		StartTime:        s.now().Unix(),
		InterestRateBps:  rate.IntPart(),
		ClaimShares:      shares,
		Status:           core.LoanStatusActive,
	}

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.tokens.TransferFrom(ctx, tx, s.system.PoolAccountID, borrower, s.system.PoolAccountID, s.system.CollateralAssetID, collateral); err != nil {
			return err
		}

		if err := s.loanStore.Create(ctx, tx, loan); err != nil {
			return err
		}

		pool.UnderlyingBalance = pool.UnderlyingBalance.Add(amount)
		pool.TotalShares = pool.TotalShares.Add(shares)
		pool.CurrentTotalDebt = pool.CurrentTotalDebt.Add(amount)
		pool.TotalLoanOriginated = pool.TotalLoanOriginated.Add(amount)
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}

		account.Shares = account.Shares.Add(shares)
		if err := s.shareStore.Save(ctx, tx, account); err != nil {
			return err
		}

		event := core.NewEvent(core.EventLoanCreated, loan.ID, map[string]interface{}{
			"borrower":   borrower,
			"principal":  amount,
			"collateral": collateral,
			"rate_bps":   loan.InterestRateBps,
			"duration":   loan.Duration,
			"p2p":        false,
		})
		return s.eventStore.Create(ctx, tx, event)
	})
	if err != nil {
		log.WithError(err).Errorln("borrow failed")
		return nil, err
	}

	return loan, nil
}

// RequestP2PLoan opens a pending loan collateralized up front but unfunded
// until the designated lender matches it. The rate is locked now.
func (s *Service) RequestP2PLoan(ctx context.Context, borrower string, amount decimal.Decimal, duration time.Duration, lender string) (*core.Loan, error) {
	log := logger.FromContext(ctx).WithField("op", "request_p2p_loan")

	amount = amount.Truncate(lending.AmountPrecision)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, core.ErrInvalidAmount
	}
	if duration <= 0 || duration > core.MaxLoanDuration {
		return nil, core.ErrInvalidDuration
	}
	if lender == "" || lender == borrower {
		return nil, core.ErrInvalidParams
	}

	pool, exit, err := s.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer exit()

	riskParams, err := s.paramStore.CurrentRiskParams(ctx)
	if err != nil {
		return nil, err
	}
	rateParams, err := s.paramStore.CurrentRateParams(ctx)
	if err != nil {
		return nil, err
	}

	quote, err := s.quotes.GetQuote(ctx)
	if err != nil {
		return nil, err
	}

	collateral := lending.RequiredCollateral(amount, riskParams.LtvBps, quote)
	if collateral.LessThanOrEqual(decimal.Zero) {
		return nil, core.ErrInvalidAmount
	}

	balance, err := s.tokens.BalanceOf(ctx, borrower, s.system.CollateralAssetID)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(collateral) {
		return nil, core.ErrInsufficientCollateral
	}

	utilization := lending.UtilizationRate(pool.CurrentTotalDebt, amount, pool.TotalShares)
	rate := s.resolveRate(utilization, rateParams)

	loan := &core.Loan{
		Borrower:         borrower,
		Principal:        amount,
		CollateralAmount: collateral,
		Duration:         int64(duration / time.Second),
		InterestRateBps:  rate.IntPart(),
		IsP2P:            true,
		Counterparty:     lender,
		Status:           core.LoanStatusPending,
	}

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.tokens.TransferFrom(ctx, tx, s.system.PoolAccountID, borrower, s.system.PoolAccountID, s.system.CollateralAssetID, collateral); err != nil {
			return err
		}

		if err := s.loanStore.Create(ctx, tx, loan); err != nil {
			return err
		}

		event := core.NewEvent(core.EventLoanCreated, loan.ID, map[string]interface{}{
			"borrower":   borrower,
			"lender":     lender,
			"principal":  amount,
			"collateral": collateral,
			"rate_bps":   loan.InterestRateBps,
			"duration":   loan.Duration,
			"p2p":        true,
		})
		return s.eventStore.Create(ctx, tx, event)
	})
	if err != nil {
		log.WithError(err).Errorln("request p2p loan failed")
		return nil, err
	}

	return loan, nil
}

// MatchP2PLoanRequest funds a pending loan with the lender's own underlying.
// The principal enters the pool as cash and is immediately claimed by freshly
// minted borrower shares, so depositors are unaffected.
func (s *Service) MatchP2PLoanRequest(ctx context.Context, lender string, loanID uint64) (*core.Loan, error) {
	log := logger.FromContext(ctx).WithField("op", "match_p2p_loan")

	pool, exit, err := s.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer exit()

	loan, err := s.loanStore.Find(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != core.LoanStatusPending {
		return nil, core.ErrInvalidLoanStatus
	}
	if !loan.IsP2P || loan.Counterparty != lender {
		return nil, core.ErrOperationForbidden
	}

	account, err := s.shareStore.Find(ctx, loan.Borrower)
	if err != nil {
		return nil, err
	}

	shares := lending.SharesForDeposit(loan.Principal, pool.TotalShares, pool.UnderlyingBalance)

	loan.Status = core.LoanStatusActive
	loan.StartTime = s.now().Unix()
	loan.ClaimShares = shares

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.tokens.TransferFrom(ctx, tx, s.system.PoolAccountID, lender, s.system.PoolAccountID, s.system.BorrowAssetID, loan.Principal); err != nil {
			return err
		}

		pool.UnderlyingBalance = pool.UnderlyingBalance.Add(loan.Principal)
		pool.TotalShares = pool.TotalShares.Add(shares)
		pool.CurrentTotalDebt = pool.CurrentTotalDebt.Add(loan.Principal)
		pool.TotalLoanOriginated = pool.TotalLoanOriginated.Add(loan.Principal)
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}

		account.Shares = account.Shares.Add(shares)
		if err := s.shareStore.Save(ctx, tx, account); err != nil {
			return err
		}

		if err := s.loanStore.Update(ctx, tx, loan); err != nil {
			return err
		}

		event := core.NewEvent(core.EventLoanMatched, loan.ID, map[string]interface{}{
			"lender":    lender,
			"borrower":  loan.Borrower,
			"principal": loan.Principal,
		})
		return s.eventStore.Create(ctx, tx, event)
	})
	if err != nil {
		log.WithError(err).Errorln("match p2p loan failed")
		return nil, err
	}

	return loan, nil
}

// Repay settles an active loan in full. P2P interest goes straight to the
// counterparty; pool interest is added to the accounting balance without
// minting shares, so every depositor's redeemable value rises. The claim
// shares minted at funding settle at their origination value: whatever part
// the borrower still holds is burned and refunded in cash, so the borrower's
// own claim never captures interest meant for depositors.
func (s *Service) Repay(ctx context.Context, loanID uint64) (decimal.Decimal, error) {
	log := logger.FromContext(ctx).WithField("op", "repay")

	pool, exit, err := s.enter(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer exit()

	loan, err := s.loanStore.Find(ctx, loanID)
	if err != nil {
		return decimal.Zero, err
	}
	if loan.Status != core.LoanStatusActive {
		return decimal.Zero, core.ErrInvalidLoanStatus
	}

	totalDue := lending.TotalDue(loan.Principal, loan.InterestRateBps, loan.Elapsed(s.now()))
	interest := totalDue.Sub(loan.Principal)

	account, err := s.shareStore.Find(ctx, loan.Borrower)
	if err != nil {
		return decimal.Zero, err
	}
	burned, refund := lending.ClaimSettlement(account.Shares, loan.ClaimShares, loan.Principal)

	loan.Status = core.LoanStatusRepaid

	err = s.db.Tx(func(tx *db.DB) error {
		if loan.IsP2P {
			if err := s.tokens.TransferFrom(ctx, tx, s.system.PoolAccountID, loan.Borrower, loan.Counterparty, s.system.BorrowAssetID, totalDue); err != nil {
				return err
			}
		} else {
			if err := s.tokens.TransferFrom(ctx, tx, s.system.PoolAccountID, loan.Borrower, s.system.PoolAccountID, s.system.BorrowAssetID, totalDue); err != nil {
				return err
			}
			// interest accrues to depositors; no shares minted against it
			pool.UnderlyingBalance = pool.UnderlyingBalance.Add(interest)
		}

		if burned.IsPositive() {
			account.Shares = account.Shares.Sub(burned)
			if err := s.shareStore.Save(ctx, tx, account); err != nil {
				return err
			}
			pool.TotalShares = pool.TotalShares.Sub(burned)
			pool.UnderlyingBalance = number.NonNegative(pool.UnderlyingBalance.Sub(refund))
			if refund.IsPositive() {
				if err := s.tokens.Transfer(ctx, tx, s.system.PoolAccountID, loan.Borrower, s.system.BorrowAssetID, refund); err != nil {
					return err
				}
			}
		}

		if err := s.tokens.Transfer(ctx, tx, s.system.PoolAccountID, loan.Borrower, s.system.CollateralAssetID, loan.CollateralAmount); err != nil {
			return err
		}

		pool.CurrentTotalDebt = number.NonNegative(pool.CurrentTotalDebt.Sub(totalDue))
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}

		if err := s.loanStore.Update(ctx, tx, loan); err != nil {
			return err
		}

		event := core.NewEvent(core.EventLoanRepaid, loan.ID, map[string]interface{}{
			"borrower":     loan.Borrower,
			"total_due":    totalDue,
			"interest":     interest,
			"claim_refund": refund,
		})
		return s.eventStore.Create(ctx, tx, event)
	})
	if err != nil {
		log.WithError(err).Errorln("repay failed")
		return decimal.Zero, err
	}

	return totalDue, nil
}

// CancelPendingLoan returns the collateral of an unmatched loan to its
// borrower; only the borrower may cancel
func (s *Service) CancelPendingLoan(ctx context.Context, borrower string, loanID uint64) error {
	_, exit, err := s.enter(ctx)
	if err != nil {
		return err
	}
	defer exit()

	loan, err := s.loanStore.Find(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.Status != core.LoanStatusPending {
		return core.ErrInvalidLoanStatus
	}
	if loan.Borrower != borrower {
		return core.ErrOperationForbidden
	}

	loan.Status = core.LoanStatusRepaid

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.tokens.Transfer(ctx, tx, s.system.PoolAccountID, borrower, s.system.CollateralAssetID, loan.CollateralAmount); err != nil {
			return err
		}

		if err := s.loanStore.Update(ctx, tx, loan); err != nil {
			return err
		}

		event := core.NewEvent(core.EventLoanCanceled, loan.ID, map[string]interface{}{
			"borrower": borrower,
		})
		return s.eventStore.Create(ctx, tx, event)
	})
}
