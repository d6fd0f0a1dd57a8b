package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// SeizureNotice parameters handed to the external liquidator callback
type SeizureNotice struct {
	LoanID            uint64          `json:"loan_id"`
	CollateralAssetID string          `json:"collateral_asset_id"`
	CollateralAmount  decimal.Decimal `json:"collateral_amount"`
	BorrowAssetID     string          `json:"borrow_asset_id"`
	// AmountOwed outstanding due the engine still needs to recover
	AmountOwed decimal.Decimal `json:"amount_owed"`
	// MinimumRepay slippage floor; the pool balance must grow by at least this
	MinimumRepay decimal.Decimal `json:"minimum_repay"`
	// PoolAccountID account the recovered borrow tokens must be credited to
	PoolAccountID string `json:"pool_account_id"`
}

// Liquidator external collateral disposer invoked mid-liquidation.
// The return signal is advisory; the engine trusts the balance delta only.
type Liquidator interface {
	LiquidateCollateral(ctx context.Context, notice *SeizureNotice) error
}
