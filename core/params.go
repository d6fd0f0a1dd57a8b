package core

import (
	"context"
	"time"
)

// RiskParams versioned risk configuration. Loans evaluate against the row
// current at evaluation time; interest rates are locked per loan instead.
type RiskParams struct {
	ID int64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	// LtvBps max borrowable fraction of collateral value
	LtvBps int64 `json:"ltv_bps"`
	// LiquidationThresholdMarkupBps markup over total due below which
	// collateral value triggers liquidation
	LiquidationThresholdMarkupBps int64 `json:"liquidation_threshold_markup_bps"`
	// LiquidationThresholdCapBps configured and validated but consumed by no
	// formula; kept as-is
	LiquidationThresholdCapBps int64     `json:"liquidation_threshold_cap_bps"`
	LiquidationFeeBps          int64     `json:"liquidation_fee_bps"`
	LiquidationMaxSlippageBps  int64     `json:"liquidation_max_slippage_bps"`
	CreatedAt                  time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Validate bounds per configuration contract
func (p *RiskParams) Validate() error {
	if p.LtvBps <= 0 || p.LtvBps > 10000 {
		return ErrInvalidParams
	}
	if p.LiquidationThresholdMarkupBps <= 0 {
		return ErrInvalidParams
	}
	if p.LiquidationThresholdCapBps < 0 || p.LiquidationThresholdCapBps > 10000 {
		return ErrInvalidParams
	}
	if p.LiquidationFeeBps < 0 || p.LiquidationFeeBps > 5000 {
		return ErrInvalidParams
	}
	if p.LiquidationMaxSlippageBps < 0 || p.LiquidationMaxSlippageBps > 1000 {
		return ErrInvalidParams
	}

	return nil
}

// RateParams versioned interest rate curve configuration
type RateParams struct {
	ID                    int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	MinRateBps            int64     `json:"min_rate_bps"`
	OptimalRateBps        int64     `json:"optimal_rate_bps"`
	MaxRateBps            int64     `json:"max_rate_bps"`
	OptimalUtilizationBps int64     `json:"optimal_utilization_bps"`
	CreatedAt             time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Validate the min rate must be strictly positive, its logarithm is taken
func (p *RateParams) Validate() error {
	if p.MinRateBps <= 0 {
		return ErrInvalidParams
	}
	if p.MinRateBps >= p.OptimalRateBps || p.OptimalRateBps >= p.MaxRateBps {
		return ErrInvalidParams
	}
	if p.OptimalUtilizationBps <= 0 || p.OptimalUtilizationBps >= 10000 {
		return ErrInvalidParams
	}

	return nil
}

// IParamStore versioned parameter store interface
type IParamStore interface {
	SaveRiskParams(ctx context.Context, params *RiskParams) error
	CurrentRiskParams(ctx context.Context) (*RiskParams, error)
	SaveRateParams(ctx context.Context, params *RateParams) error
	CurrentRateParams(ctx context.Context) (*RateParams, error)
}
