package core

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// TokenLedger generic fungible-token debit/credit primitive with allowance
// semantics. External collaborator; the ledger only depends on this surface.
type TokenLedger interface {
	BalanceOf(ctx context.Context, account, assetID string) (decimal.Decimal, error)
	Allowance(ctx context.Context, owner, spender, assetID string) (decimal.Decimal, error)
	Approve(ctx context.Context, owner, spender, assetID string, amount decimal.Decimal) error
	// Transfer moves amount from the owner directly
	Transfer(ctx context.Context, tx *db.DB, from, to, assetID string, amount decimal.Decimal) error
	// TransferFrom moves amount out of from by spender, consuming allowance
	TransferFrom(ctx context.Context, tx *db.DB, spender, from, to, assetID string, amount decimal.Decimal) error
}
