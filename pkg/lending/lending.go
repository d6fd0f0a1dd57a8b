package lending

import (
	"github.com/shopspring/decimal"
)

var (
	// Bps basis point denominator
	Bps = decimal.NewFromInt(10000)
	// SecondsPerYear accrual denominator
	SecondsPerYear = decimal.NewFromInt(31536000)
	// One unit exchange rate
	One = decimal.New(1, 0)
	// MaxPrecision max precision
	MaxPrecision int32 = 16
	// AmountPrecision precision of token and share amounts
	AmountPrecision int32 = 8
	// lnPrecision digits carried through the log-space interpolation
	lnPrecision int32 = 32
)

// SharesForDeposit shares minted for a deposit of amount.
// 1:1 at bootstrap, otherwise proportional to the pre-deposit balance,
// truncated down.
func SharesForDeposit(amount, totalShares, underlyingBefore decimal.Decimal) decimal.Decimal {
	if totalShares.LessThanOrEqual(decimal.Zero) || underlyingBefore.LessThanOrEqual(decimal.Zero) {
		return amount.Truncate(AmountPrecision)
	}

	return amount.Mul(totalShares).Div(underlyingBefore).Truncate(AmountPrecision)
}

// UnderlyingForShares underlying returned when burning shareAmount, truncated down
func UnderlyingForShares(shareAmount, underlyingBalance, totalShares decimal.Decimal) decimal.Decimal {
	if totalShares.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return shareAmount.Mul(underlyingBalance).Div(totalShares).Truncate(AmountPrecision)
}

// RedeemableValue present underlying value of a share balance; identity when
// the pool is degenerate
func RedeemableValue(shares, underlyingBalance, totalShares decimal.Decimal) decimal.Decimal {
	if totalShares.LessThanOrEqual(decimal.Zero) || underlyingBalance.LessThanOrEqual(decimal.Zero) {
		return shares
	}

	return shares.Mul(underlyingBalance).Div(totalShares).Truncate(AmountPrecision)
}

// SharesForValue converts a face-value underlying amount to share units at the
// given exchange rate; a degenerate rate is treated as 1
func SharesForValue(amount, exchangeRate decimal.Decimal) decimal.Decimal {
	if exchangeRate.LessThanOrEqual(decimal.Zero) {
		exchangeRate = One
	}

	return amount.Div(exchangeRate).Truncate(AmountPrecision)
}

// UtilizationRate (debt+markup)*10000/totalShares in bps, 0 when no supply
func UtilizationRate(currentTotalDebt, markup, totalShares decimal.Decimal) decimal.Decimal {
	if totalShares.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return currentTotalDebt.Add(markup).Mul(Bps).Div(totalShares).Truncate(0)
}

// InterestRate resolves the annual rate in bps for a utilization in bps.
//
// Clamped to minRate at 0 and maxRate at >=10000. Between the endpoints the
// curve is linear in log space over two segments split at the optimal
// utilization, which makes it convex and accelerate near the optimal point.
// All rate arguments are bps.
func InterestRate(utilization, minRate, optimalRate, maxRate, optimalUtilization decimal.Decimal) decimal.Decimal {
	if utilization.LessThanOrEqual(decimal.Zero) {
		return minRate
	}
	if utilization.GreaterThanOrEqual(Bps) {
		return maxRate
	}

	var lo, hi, pos, span decimal.Decimal
	if utilization.LessThanOrEqual(optimalUtilization) {
		lo, hi = minRate, optimalRate
		pos, span = utilization, optimalUtilization
	} else {
		lo, hi = optimalRate, maxRate
		pos, span = utilization.Sub(optimalUtilization), Bps.Sub(optimalUtilization)
	}

	lnLo, err := lo.Shift(-4).Ln(lnPrecision)
	if err != nil {
		return lo
	}
	lnHi, err := hi.Shift(-4).Ln(lnPrecision)
	if err != nil {
		return lo
	}

	t := pos.DivRound(span, lnPrecision)
	lnRate := lnLo.Add(lnHi.Sub(lnLo).Mul(t))

	rate, err := lnRate.ExpTaylor(lnPrecision)
	if err != nil {
		return lo
	}

	// rounding before the floor absorbs the exp/ln round trip error at the
	// segment endpoints
	return rate.Shift(4).Round(12).Floor()
}

// RequiredCollateral amount*10000/(ltvBps*quote), truncated down
func RequiredCollateral(amount decimal.Decimal, ltvBps int64, quote decimal.Decimal) decimal.Decimal {
	return amount.Mul(Bps).Div(decimal.NewFromInt(ltvBps).Mul(quote)).Truncate(AmountPrecision)
}

// TotalDue principal plus simple linear interest over elapsed seconds
func TotalDue(principal decimal.Decimal, rateBps, elapsedSeconds int64) decimal.Decimal {
	interest := principal.
		Mul(decimal.NewFromInt(rateBps)).
		Mul(decimal.NewFromInt(elapsedSeconds)).
		Div(Bps.Mul(SecondsPerYear))

	return principal.Add(interest).Truncate(AmountPrecision)
}

// ClaimSettlement resolves a funding claim when its loan closes. burned is
// the part of the claim the borrower still holds; value is its settlement
// worth, pro rata of the principal at the origination rate, truncated down.
func ClaimSettlement(heldShares, claimShares, principal decimal.Decimal) (burned, value decimal.Decimal) {
	if claimShares.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero
	}

	burned = heldShares
	if claimShares.LessThan(burned) {
		burned = claimShares
	}
	if burned.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero
	}

	value = principal.Mul(burned).Div(claimShares).Truncate(AmountPrecision)
	return burned, value
}

// CollateralValue collateral amount priced in borrow units
func CollateralValue(collateralAmount, quote decimal.Decimal) decimal.Decimal {
	return collateralAmount.Mul(quote).Truncate(AmountPrecision)
}

// CollateralForValue borrow-unit value converted to collateral units
func CollateralForValue(value, quote decimal.Decimal) decimal.Decimal {
	if quote.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return value.Div(quote).Truncate(AmountPrecision)
}

// ThresholdBreached collateral value fell below totalDue*markupBps/10000
func ThresholdBreached(collateralValue, totalDue decimal.Decimal, markupBps int64) bool {
	threshold := totalDue.Mul(decimal.NewFromInt(markupBps)).Div(Bps)
	return collateralValue.LessThan(threshold)
}

// LiquidatorReward totalDue*feeBps/10000, truncated down
func LiquidatorReward(totalDue decimal.Decimal, feeBps int64) decimal.Decimal {
	return totalDue.Mul(decimal.NewFromInt(feeBps)).Div(Bps).Truncate(AmountPrecision)
}

// SlippageFloor minimum acceptable recovery for remainingDue
func SlippageFloor(remainingDue decimal.Decimal, maxSlippageBps int64) decimal.Decimal {
	return remainingDue.
		Mul(Bps.Sub(decimal.NewFromInt(maxSlippageBps))).
		Div(Bps).
		Truncate(AmountPrecision)
}
