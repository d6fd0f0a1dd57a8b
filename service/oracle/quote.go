package oracle

import (
	"context"
	"time"

	"tandem/core"

	"github.com/fox-one/pkg/property"
	"github.com/shopspring/decimal"
)

type quoteService struct {
	system        *core.System
	propertyStore property.Store
	prices        core.IPriceStore
	feedID        string
}

// New quote service over the stored oracle rounds. The active feed can be
// switched at runtime through the price_feed property; feedID is the
// configured default.
func New(system *core.System, propertyStore property.Store, prices core.IPriceStore, feedID string) core.IQuoteService {
	return &quoteService{
		system:        system,
		propertyStore: propertyStore,
		prices:        prices,
		feedID:        feedID,
	}
}

func (s *quoteService) GetQuote(ctx context.Context) (decimal.Decimal, error) {
	feedID, err := s.activeFeedID(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	round, err := s.prices.Latest(ctx, feedID)
	if err != nil {
		return decimal.Zero, err
	}
	if round == nil || !round.Price.IsPositive() {
		return decimal.Zero, core.ErrInvalidPrice
	}

	freshness := s.system.QuoteFreshness
	if freshness <= 0 {
		freshness = time.Hour
	}
	if time.Since(round.UpdatedAt) > freshness {
		return decimal.Zero, core.ErrStalePrice
	}

	if round.AnsweredInRound < round.RoundID {
		return decimal.Zero, core.ErrStaleRound
	}

	return round.Normalize(), nil
}

func (s *quoteService) activeFeedID(ctx context.Context) (string, error) {
	v, err := s.propertyStore.Get(ctx, core.PropertyPriceFeed)
	if err != nil {
		return "", err
	}

	if id := v.String(); id != "" {
		return id, nil
	}
	return s.feedID, nil
}
