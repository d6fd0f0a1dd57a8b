package views

import (
	"tandem/core"

	"github.com/shopspring/decimal"
)

// Pool pool view
type Pool struct {
	core.Pool
	ExchangeRate       decimal.Decimal `json:"exchange_rate"`
	AvailableLiquidity decimal.Decimal `json:"available_liquidity"`
	UtilizationBps     decimal.Decimal `json:"utilization_bps"`
	InterestRateBps    decimal.Decimal `json:"interest_rate_bps"`
}
