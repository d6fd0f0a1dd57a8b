package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Pool pool-wide share accounting and loan aggregates. Single row.
//
// UnderlyingBalance is an accounting value, not the physical till: funding a
// loan transfers the pool's share claim to the borrower, so the balance keeps
// counting the outstanding principal until the loan closes.
type Pool struct {
	ID uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	// UnderlyingBalance total underlying value backing the share supply
	UnderlyingBalance decimal.Decimal `sql:"type:decimal(32,16)" json:"underlying_balance"`
	// TotalShares share token supply
	TotalShares decimal.Decimal `sql:"type:decimal(32,16)" json:"total_shares"`
	// TotalLoanOriginated sum of all principal ever issued, monotonic
	TotalLoanOriginated decimal.Decimal `sql:"type:decimal(32,16)" json:"total_loan_originated"`
	// CurrentTotalDebt outstanding obligations of all non-terminal loans
	CurrentTotalDebt decimal.Decimal `sql:"type:decimal(32,16)" json:"current_total_debt"`
	// TotalBadDebt protocol-absorbed liquidation shortfall, monotonic
	TotalBadDebt decimal.Decimal `sql:"type:decimal(32,16)" json:"total_bad_debt"`
	// Paused blocks every mutating ledger operation while set
	Paused    bool      `sql:"default:false" json:"paused"`
	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ExchangeRate underlying value per share, 1 at bootstrap
func (p *Pool) ExchangeRate() decimal.Decimal {
	if p.TotalShares.LessThanOrEqual(decimal.Zero) {
		return decimal.New(1, 0)
	}

	return p.UnderlyingBalance.Div(p.TotalShares).Truncate(16)
}

// AvailableLiquidity underlying value not claimed by outstanding debt
func (p *Pool) AvailableLiquidity() decimal.Decimal {
	return p.UnderlyingBalance.Sub(p.CurrentTotalDebt)
}

// IPoolStore pool store interface
type IPoolStore interface {
	// Load returns the singleton pool row, creating it empty on first use
	Load(ctx context.Context) (*Pool, error)
	Update(ctx context.Context, tx *db.DB, pool *Pool) error
}
