package ledger

import (
	"context"

	"tandem/core"
	"tandem/pkg/lending"
	"tandem/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Liquidate forcibly closes an eligible loan, either past its term or with
// collateral value below the liquidation threshold.
//
// Recovery runs in two phases. The first phase only hands the seized
// collateral to the liquidator and invokes the callback; everything the
// callback claims to have done is ignored in favor of the pool's measured
// borrow-token balance delta. If the delta misses the slippage floor the
// seizure and the measured repayment are compensated back and the loan is
// untouched. Only after the floor is met does the commit transaction pull the
// borrower's reachable funds, settle the funding claim, pay the lender and
// then the liquidator reward out of what remains, return unseized collateral,
// and close the loan, all atomically. A commit failure runs the same
// compensation as a rejected callback.
func (s *Service) Liquidate(ctx context.Context, liquidator string, loanID uint64, callback core.Liquidator) (*core.LiquidationOutcome, error) {
	log := logger.FromContext(ctx).WithField("op", "liquidate").WithField("loan", loanID)

	pool, exit, err := s.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer exit()

	loan, err := s.loanStore.Find(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != core.LoanStatusActive {
		return nil, core.ErrInvalidLoanStatus
	}

	riskParams, err := s.paramStore.CurrentRiskParams(ctx)
	if err != nil {
		return nil, err
	}

	quote, err := s.quotes.GetQuote(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	totalDue := lending.TotalDue(loan.Principal, loan.InterestRateBps, loan.Elapsed(now))
	collateralValue := lending.CollateralValue(loan.CollateralAmount, quote)

	if !loan.TermViolated(now) &&
		!lending.ThresholdBreached(collateralValue, totalDue, riskParams.LiquidationThresholdMarkupBps) {
		return nil, core.ErrNoLiquidationCriteria
	}

	rewardNominal := lending.LiquidatorReward(totalDue, riskParams.LiquidationFeeBps)
	lenderDue := totalDue.Sub(rewardNominal)

	// funds the borrower already exposes cover the due first: approved cash
	// plus the funding claim they still hold, settled at origination value.
	// Only the remainder is recovered by selling collateral.
	balance, err := s.tokens.BalanceOf(ctx, loan.Borrower, s.system.BorrowAssetID)
	if err != nil {
		return nil, err
	}
	allowance, err := s.tokens.Allowance(ctx, loan.Borrower, s.system.PoolAccountID, s.system.BorrowAssetID)
	if err != nil {
		return nil, err
	}
	cashAvailable := number.Min(number.Min(balance, allowance), totalDue)

	account, err := s.shareStore.Find(ctx, loan.Borrower)
	if err != nil {
		return nil, err
	}
	burned, claimValue := lending.ClaimSettlement(account.Shares, loan.ClaimShares, loan.Principal)

	availableFromBorrower := number.Min(cashAvailable.Add(claimValue), totalDue)
	remainingDue := totalDue.Sub(availableFromBorrower)

	seized := decimal.Zero
	recovered := decimal.Zero
	badDebt := decimal.Zero
	if remainingDue.IsPositive() {
		seized = number.Min(loan.CollateralAmount, lending.CollateralForValue(remainingDue, quote))
		seizedValue := lending.CollateralValue(seized, quote)
		// bad debt is the gap at seizure time, before tolerated slippage
		badDebt = number.NonNegative(remainingDue.Sub(seizedValue))
		floor := lending.SlippageFloor(number.Min(remainingDue, seizedValue), riskParams.LiquidationMaxSlippageBps)

		tillBefore, err := s.tokens.BalanceOf(ctx, s.system.PoolAccountID, s.system.BorrowAssetID)
		if err != nil {
			return nil, err
		}

		if err := s.db.Tx(func(tx *db.DB) error {
			return s.tokens.Transfer(ctx, tx, s.system.PoolAccountID, liquidator, s.system.CollateralAssetID, seized)
		}); err != nil {
			return nil, err
		}

		notice := &core.SeizureNotice{
			LoanID:            loan.ID,
			CollateralAssetID: s.system.CollateralAssetID,
			CollateralAmount:  seized,
			BorrowAssetID:     s.system.BorrowAssetID,
			AmountOwed:        remainingDue,
			MinimumRepay:      floor,
			PoolAccountID:     s.system.PoolAccountID,
		}

		callbackErr := callback.LiquidateCollateral(ctx, notice)

		tillAfter, err := s.tokens.BalanceOf(ctx, s.system.PoolAccountID, s.system.BorrowAssetID)
		if err != nil {
			return nil, err
		}
		recovered = tillAfter.Sub(tillBefore)

		if callbackErr != nil || recovered.LessThan(floor) {
			if err := s.compensate(ctx, liquidator, seized, recovered); err != nil {
				log.WithError(err).Errorln("seizure compensation failed")
				return nil, err
			}
			if callbackErr != nil {
				return nil, callbackErr
			}
			return nil, core.ErrLiquidationSlippage
		}
	}

	outcome := &core.LiquidationOutcome{
		LoanID:                loan.ID,
		TotalDue:              totalDue,
		SeizedCollateral:      seized,
		RecoveredFromCallback: recovered,
		BadDebt:               badDebt,
	}

	err = s.db.Tx(func(tx *db.DB) error {
		// the promise measured before the callback is a cap, not a debt; the
		// borrower may have spent funds since, pull whatever still stands
		pull := number.NonNegative(availableFromBorrower.Sub(claimValue))
		if pull.IsPositive() {
			balance, err := s.tokens.BalanceOf(ctx, loan.Borrower, s.system.BorrowAssetID)
			if err != nil {
				return err
			}
			allowance, err := s.tokens.Allowance(ctx, loan.Borrower, s.system.PoolAccountID, s.system.BorrowAssetID)
			if err != nil {
				return err
			}
			pull = number.Min(pull, number.Min(balance, allowance))
		}
		if pull.IsPositive() {
			if err := s.tokens.TransferFrom(ctx, tx, s.system.PoolAccountID, loan.Borrower, s.system.PoolAccountID, s.system.BorrowAssetID, pull); err != nil {
				return err
			}
		}
		outcome.RecoveredFromBorrower = pull.Add(claimValue)

		// the claim the borrower still holds settles against the debt, no
		// cash refund; the burn is pure recovery for the pot
		if burned.IsPositive() {
			account.Shares = account.Shares.Sub(burned)
			if err := s.shareStore.Save(ctx, tx, account); err != nil {
				return err
			}
			pool.TotalShares = pool.TotalShares.Sub(burned)
		}

		pot := pull.Add(claimValue).Add(recovered)

		// the lender is made whole first; the reward only comes out of what
		// remains after that
		lenderPaid := number.Min(lenderDue, pot)
		if loan.IsP2P && lenderPaid.IsPositive() {
			if err := s.tokens.Transfer(ctx, tx, s.system.PoolAccountID, loan.Counterparty, s.system.BorrowAssetID, lenderPaid); err != nil {
				return err
			}
		}
		outcome.LenderPaid = lenderPaid

		reward := number.Min(rewardNominal, pot.Sub(lenderPaid))
		if reward.IsPositive() {
			if err := s.tokens.Transfer(ctx, tx, s.system.PoolAccountID, liquidator, s.system.BorrowAssetID, reward); err != nil {
				return err
			}
		}
		outcome.LiquidatorReward = reward

		surplus := pot.Sub(lenderPaid).Sub(reward)
		if surplus.IsPositive() {
			if err := s.tokens.Transfer(ctx, tx, s.system.PoolAccountID, loan.Borrower, s.system.BorrowAssetID, surplus); err != nil {
				return err
			}
		}

		if returned := loan.CollateralAmount.Sub(seized); returned.IsPositive() {
			if err := s.tokens.Transfer(ctx, tx, s.system.PoolAccountID, loan.Borrower, s.system.CollateralAssetID, returned); err != nil {
				return err
			}
			outcome.CollateralReturned = returned
		}

		if loan.IsP2P {
			// the matched principal held as till cash leaves with the payouts
			pool.UnderlyingBalance = number.NonNegative(pool.UnderlyingBalance.Sub(claimValue))
		} else {
			// write the origination claim off against the cash the pool kept
			pool.UnderlyingBalance = number.NonNegative(pool.UnderlyingBalance.
				Sub(loan.Principal).
				Add(pull).Add(recovered).
				Sub(reward).Sub(surplus))
		}

		pool.CurrentTotalDebt = number.NonNegative(pool.CurrentTotalDebt.Sub(totalDue))
		pool.TotalBadDebt = pool.TotalBadDebt.Add(badDebt)
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}

		loan.Status = core.LoanStatusLiquidated
		if err := s.loanStore.Update(ctx, tx, loan); err != nil {
			return err
		}

		event := core.NewEvent(core.EventLoanLiquidated, loan.ID, outcome)
		return s.eventStore.Create(ctx, tx, event)
	})
	if err != nil {
		log.WithError(err).Errorln("liquidation commit failed")
		if seized.IsPositive() || recovered.IsPositive() {
			if cerr := s.compensate(ctx, liquidator, seized, recovered); cerr != nil {
				log.WithError(cerr).Errorln("commit compensation failed")
			}
		}
		return nil, err
	}

	return outcome, nil
}

// compensate unwinds the first phase after a rejected callback or a failed
// commit: seized collateral goes back to the pool, the measured repayment
// back to the liquidator. The liquidator must still hold the collateral; a
// callback that disposed of it without closing the loan leaves an error the
// operator has to settle.
func (s *Service) compensate(ctx context.Context, liquidator string, seized, recovered decimal.Decimal) error {
	return s.db.Tx(func(tx *db.DB) error {
		if seized.IsPositive() {
			if err := s.tokens.Transfer(ctx, tx, liquidator, s.system.PoolAccountID, s.system.CollateralAssetID, seized); err != nil {
				return err
			}
		}
		if recovered.IsPositive() {
			if err := s.tokens.Transfer(ctx, tx, s.system.PoolAccountID, liquidator, s.system.BorrowAssetID, recovered); err != nil {
				return err
			}
		}
		return nil
	})
}
