package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// LoanStatus loan lifecycle status
type LoanStatus int

const (
	// LoanStatusPending awaiting the designated lender
	LoanStatusPending LoanStatus = iota
	// LoanStatusActive funded and accruing
	LoanStatusActive
	// LoanStatusOverdue declared for compatibility; never persisted, overdue-ness
	// is derived from the loan term on demand
	LoanStatusOverdue
	// LoanStatusRepaid terminal; also marks canceled pending loans
	LoanStatusRepaid
	// LoanStatusLiquidated terminal
	LoanStatusLiquidated
)

func (s LoanStatus) String() string {
	switch s {
	case LoanStatusPending:
		return "pending"
	case LoanStatusActive:
		return "active"
	case LoanStatusOverdue:
		return "overdue"
	case LoanStatusRepaid:
		return "repaid"
	case LoanStatusLiquidated:
		return "liquidated"
	default:
		return "unknown"
	}
}

// Loan a single P2Pool or P2P loan
type Loan struct {
	ID               uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Borrower         string          `sql:"size:36;index:loan_borrower_idx" json:"borrower"`
	Principal        decimal.Decimal `sql:"type:decimal(32,16)" json:"principal"`
	CollateralAmount decimal.Decimal `sql:"type:decimal(32,16)" json:"collateral_amount"`
	// Duration loan term in seconds
	Duration int64 `json:"duration"`
	// StartTime unix seconds; zero while pending
	StartTime int64 `sql:"default:0" json:"start_time"`
	// ClaimShares pool shares minted to the borrower at funding. The claim is
	// a fixed-value instrument: whatever part the borrower still holds when
	// the loan closes settles at the origination value, not the live rate.
	ClaimShares decimal.Decimal `sql:"type:decimal(32,16)" json:"claim_shares"`
	// InterestRateBps locked at creation
	InterestRateBps int64      `json:"interest_rate_bps"`
	IsP2P           bool       `sql:"default:false" json:"is_p2p"`
	Counterparty    string     `sql:"size:36" json:"counterparty"`
	Status          LoanStatus `sql:"default:0;index:loan_status_idx" json:"status"`
	Version         int64      `sql:"default:0" json:"version"`
	CreatedAt       time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Terminal repaid and liquidated are never revisited
func (l *Loan) Terminal() bool {
	return l.Status == LoanStatusRepaid || l.Status == LoanStatusLiquidated
}

// TermViolated the loan ran past its term
func (l *Loan) TermViolated(now time.Time) bool {
	return l.Status == LoanStatusActive && now.Unix() >= l.StartTime+l.Duration
}

// Elapsed seconds since the loan was funded
func (l *Loan) Elapsed(now time.Time) int64 {
	if l.StartTime == 0 {
		return 0
	}
	if d := now.Unix() - l.StartTime; d > 0 {
		return d
	}
	return 0
}

// ILoanStore loan store interface
type ILoanStore interface {
	Create(ctx context.Context, tx *db.DB, loan *Loan) error
	Find(ctx context.Context, id uint64) (*Loan, error)
	FindByBorrower(ctx context.Context, borrower string) ([]*Loan, error)
	All(ctx context.Context) ([]*Loan, error)
	Update(ctx context.Context, tx *db.DB, loan *Loan) error
}
