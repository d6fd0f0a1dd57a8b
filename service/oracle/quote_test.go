package oracle

import (
	"context"
	"testing"
	"time"

	"tandem/core"
	"tandem/pkg/number"

	"github.com/fox-one/pkg/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrices struct {
	rounds map[string]*core.PriceRound
}

func (s *fakePrices) Save(ctx context.Context, round *core.PriceRound) error {
	s.rounds[round.FeedID] = round
	return nil
}

func (s *fakePrices) Latest(ctx context.Context, feedID string) (*core.PriceRound, error) {
	return s.rounds[feedID], nil
}

type emptyProperties struct{}

func (emptyProperties) Get(ctx context.Context, key string) (property.Value, error) {
	return property.Value(""), nil
}

func (emptyProperties) Save(ctx context.Context, key string, value interface{}) error {
	return nil
}

func (emptyProperties) Expire(ctx context.Context, key string) error {
	return nil
}

func (emptyProperties) List(ctx context.Context) (map[string]property.Value, error) {
	return nil, nil
}

func newQuote(prices core.IPriceStore) core.IQuoteService {
	system := &core.System{QuoteFreshness: time.Hour}
	return New(system, emptyProperties{}, prices, "btc-usd")
}

func TestGetQuoteNormalizes(t *testing.T) {
	prices := &fakePrices{rounds: map[string]*core.PriceRound{
		"btc-usd": {
			FeedID:          "btc-usd",
			RoundID:         7,
			Price:           number.Decimal("6512345000000"),
			Decimals:        8,
			UpdatedAt:       time.Now(),
			AnsweredInRound: 7,
		},
	}}

	quote, err := newQuote(prices).GetQuote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "65123.45", quote.String())
}

func TestGetQuoteRejectsMissingOrZeroPrice(t *testing.T) {
	prices := &fakePrices{rounds: map[string]*core.PriceRound{}}

	_, err := newQuote(prices).GetQuote(context.Background())
	assert.Equal(t, core.ErrInvalidPrice, err)

	prices.rounds["btc-usd"] = &core.PriceRound{
		FeedID:          "btc-usd",
		RoundID:         1,
		UpdatedAt:       time.Now(),
		AnsweredInRound: 1,
	}
	_, err = newQuote(prices).GetQuote(context.Background())
	assert.Equal(t, core.ErrInvalidPrice, err)
}

func TestGetQuoteRejectsStaleRound(t *testing.T) {
	prices := &fakePrices{rounds: map[string]*core.PriceRound{
		"btc-usd": {
			FeedID:          "btc-usd",
			RoundID:         9,
			Price:           number.Decimal("100"),
			UpdatedAt:       time.Now().Add(-2 * time.Hour),
			AnsweredInRound: 9,
		},
	}}

	_, err := newQuote(prices).GetQuote(context.Background())
	assert.Equal(t, core.ErrStalePrice, err)

	prices.rounds["btc-usd"].UpdatedAt = time.Now()
	prices.rounds["btc-usd"].AnsweredInRound = 8
	_, err = newQuote(prices).GetQuote(context.Background())
	assert.Equal(t, core.ErrStaleRound, err)
}
