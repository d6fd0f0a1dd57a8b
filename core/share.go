package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// ShareAccount per-holder share balance
type ShareAccount struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Holder    string          `sql:"size:36;unique_index:share_holder_idx" json:"holder"`
	Shares    decimal.Decimal `sql:"type:decimal(32,16)" json:"shares"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ShareAllowance spending approval over owner's shares, in share units
type ShareAllowance struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Owner     string          `sql:"size:36;unique_index:share_allowance_idx" json:"owner"`
	Spender   string          `sql:"size:36;unique_index:share_allowance_idx" json:"spender"`
	Shares    decimal.Decimal `sql:"type:decimal(32,16)" json:"shares"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IShareStore share account store interface
type IShareStore interface {
	// Find returns the holder's account, a zero-share account if none exists yet
	Find(ctx context.Context, holder string) (*ShareAccount, error)
	Save(ctx context.Context, tx *db.DB, account *ShareAccount) error
	All(ctx context.Context) ([]*ShareAccount, error)
	// Allowance remaining share allowance from owner to spender, zero if none
	Allowance(ctx context.Context, owner, spender string) (decimal.Decimal, error)
	// Approve sets the share allowance from owner to spender
	Approve(ctx context.Context, owner, spender string, shares decimal.Decimal) error
	// SpendAllowance consumes shares of the allowance inside tx;
	// ErrInsufficientAllowance when the allowance is short
	SpendAllowance(ctx context.Context, tx *db.DB, owner, spender string, shares decimal.Decimal) error
}
