package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PriceRound one oracle round for a feed, price in the feed's native decimals
type PriceRound struct {
	ID              uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	FeedID          string          `sql:"size:64;index:price_feed_idx" json:"feed_id"`
	RoundID         int64           `json:"round_id"`
	Price           decimal.Decimal `sql:"type:decimal(40,0)" json:"price"`
	Decimals        int32           `json:"decimals"`
	UpdatedAt       time.Time       `json:"updated_at"`
	AnsweredInRound int64           `json:"answered_in_round"`
	CreatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Normalize price scaled down by the feed's native decimals
func (r *PriceRound) Normalize() decimal.Decimal {
	return r.Price.Shift(-r.Decimals)
}

// IPriceStore oracle round store interface
type IPriceStore interface {
	Save(ctx context.Context, round *PriceRound) error
	Latest(ctx context.Context, feedID string) (*PriceRound, error)
}

// IPriceFeed upstream feed returning the latest round
type IPriceFeed interface {
	LatestRound(ctx context.Context, feedID string) (*PriceRound, error)
}

// IQuoteService validated borrow/collateral quote consumed by the ledger
type IQuoteService interface {
	// GetQuote latest normalized price; rejects non-positive, stale or
	// round-inconsistent data
	GetQuote(ctx context.Context) (decimal.Decimal, error)
}
