package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// SecondsPerYear accrual denominator
	SecondsPerYear int64 = 31536000
	// MaxLoanDuration longest loan term
	MaxLoanDuration = 365 * 24 * time.Hour

	// PropertyPriceFeed property key of the active oracle feed id
	PropertyPriceFeed = "price_feed"
)

// ILendingService loan ledger operations. Every mutating call is one atomic
// unit guarded against re-entry; the pause flag blocks all of them.
type ILendingService interface {
	// AddLiquidity deposits amount underlying for lender, returns shares minted
	AddLiquidity(ctx context.Context, lender string, amount decimal.Decimal) (decimal.Decimal, error)
	// RemoveLiquidity burns shareAmount of lender's shares, returns underlying paid
	RemoveLiquidity(ctx context.Context, lender string, shareAmount decimal.Decimal) (decimal.Decimal, error)
	// TransferShares moves amount of face-value underlying between holders
	TransferShares(ctx context.Context, from, to string, amount decimal.Decimal) error
	// ApproveShares grants spender an allowance over owner's shares; amount is
	// face-value underlying converted to share units at the live exchange rate
	ApproveShares(ctx context.Context, owner, spender string, amount decimal.Decimal) error
	// TransferSharesFrom moves amount of face-value underlying out of from's
	// shares on spender's allowance
	TransferSharesFrom(ctx context.Context, spender, from, to string, amount decimal.Decimal) error
	// BalanceOf redeemable underlying value of the holder's shares
	BalanceOf(ctx context.Context, holder string) (decimal.Decimal, error)
	// Borrow opens a pool loan, funded immediately
	Borrow(ctx context.Context, borrower string, amount decimal.Decimal, duration time.Duration) (*Loan, error)
	// RequestP2PLoan opens a pending loan awaiting the designated lender
	RequestP2PLoan(ctx context.Context, borrower string, amount decimal.Decimal, duration time.Duration, lender string) (*Loan, error)
	// MatchP2PLoanRequest funds a pending loan; only its designated lender may call
	MatchP2PLoanRequest(ctx context.Context, lender string, loanID uint64) (*Loan, error)
	// Repay settles the loan, returns the total paid
	Repay(ctx context.Context, loanID uint64) (decimal.Decimal, error)
	// CancelPendingLoan returns collateral of a pending loan; borrower only
	CancelPendingLoan(ctx context.Context, borrower string, loanID uint64) error

	// TotalSupply pool underlying value
	TotalSupply(ctx context.Context) (decimal.Decimal, error)
	// CurrentTotalDebt outstanding obligations
	CurrentTotalDebt(ctx context.Context) (decimal.Decimal, error)
	// UtilizationRate utilization in bps with an optional debt markup
	UtilizationRate(ctx context.Context, markup decimal.Decimal) (decimal.Decimal, error)
	// InterestRate rate in bps resolved for the given utilization
	InterestRate(ctx context.Context, utilizationBps decimal.Decimal) (decimal.Decimal, error)
}

// LiquidationOutcome amounts settled by one liquidation
type LiquidationOutcome struct {
	LoanID                 uint64          `json:"loan_id"`
	TotalDue               decimal.Decimal `json:"total_due"`
	SeizedCollateral       decimal.Decimal `json:"seized_collateral"`
	RecoveredFromBorrower  decimal.Decimal `json:"recovered_from_borrower"`
	RecoveredFromCallback  decimal.Decimal `json:"recovered_from_callback"`
	LenderPaid             decimal.Decimal `json:"lender_paid"`
	LiquidatorReward       decimal.Decimal `json:"liquidator_reward"`
	CollateralReturned     decimal.Decimal `json:"collateral_returned"`
	BadDebt                decimal.Decimal `json:"bad_debt"`
}

// ILiquidationService default-recovery engine
type ILiquidationService interface {
	// Liquidate forcibly closes an eligible loan through the callback,
	// all-or-nothing
	Liquidate(ctx context.Context, liquidator string, loanID uint64, callback Liquidator) (*LiquidationOutcome, error)
}

// IAdminService privileged configuration, exempt from pause and guard
type IAdminService interface {
	SetRiskParams(ctx context.Context, caller string, params *RiskParams) error
	SetRateParams(ctx context.Context, caller string, params *RateParams) error
	SetPriceFeed(ctx context.Context, caller, feedID string) error
	Pause(ctx context.Context, caller string) error
	Unpause(ctx context.Context, caller string) error
}
