package ledger

import (
	"context"

	"tandem/core"

	"github.com/fox-one/pkg/store/db"
)

// AllowanceLiquidator settles a seizure out of borrow tokens the liquidator
// pre-approved to the pool account, keeping the seized collateral. The REST
// surface uses it so callers without code of their own can still liquidate.
type AllowanceLiquidator struct {
	db      *db.DB
	tokens  core.TokenLedger
	account string
}

// NewAllowanceLiquidator liquidator paying from account's pre-approved funds
func NewAllowanceLiquidator(db *db.DB, tokens core.TokenLedger, account string) *AllowanceLiquidator {
	return &AllowanceLiquidator{db: db, tokens: tokens, account: account}
}

func (l *AllowanceLiquidator) LiquidateCollateral(ctx context.Context, notice *core.SeizureNotice) error {
	if !notice.MinimumRepay.IsPositive() {
		return nil
	}

	return l.db.Tx(func(tx *db.DB) error {
		return l.tokens.TransferFrom(ctx, tx, notice.PoolAccountID, l.account, notice.PoolAccountID, notice.BorrowAssetID, notice.MinimumRepay)
	})
}
