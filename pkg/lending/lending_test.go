package lending

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	r, _ := decimal.NewFromString(v)
	return r
}

func TestSharesForDeposit(t *testing.T) {
	// bootstrap 1:1
	shares := SharesForDeposit(d("1000"), decimal.Zero, decimal.Zero)
	require.True(t, shares.Equal(d("1000")), "bootstrap deposit mints 1:1, got %s", shares)

	// proportional afterwards
	shares = SharesForDeposit(d("500"), d("1000"), d("2000"))
	require.True(t, shares.Equal(d("250")), "got %s", shares)

	// truncates down
	shares = SharesForDeposit(d("1"), d("3"), d("7"))
	require.True(t, shares.Equal(d("0.42857142")), "got %s", shares)
}

func TestWithdrawRoundTripConservation(t *testing.T) {
	underlying := d("1000")
	totalShares := d("1000")

	deposit := d("333.33333333")
	minted := SharesForDeposit(deposit, totalShares, underlying)
	underlying = underlying.Add(deposit)
	totalShares = totalShares.Add(minted)

	returned := UnderlyingForShares(minted, underlying, totalShares)

	// no interest in between: value conserved up to truncation dust
	diff := deposit.Sub(returned)
	require.True(t, diff.GreaterThanOrEqual(decimal.Zero), "withdraw must not create value")
	require.True(t, diff.LessThanOrEqual(d("1")), "dust above bound: %s", diff)
}

func TestRedeemableValue(t *testing.T) {
	// degenerate pool falls back to the raw share count
	v := RedeemableValue(d("42"), decimal.Zero, decimal.Zero)
	require.True(t, v.Equal(d("42")))

	v = RedeemableValue(d("500"), d("2200"), d("2000"))
	require.True(t, v.Equal(d("550")), "got %s", v)
}

func TestSharesForValue(t *testing.T) {
	// degenerate exchange rate treated as 1
	require.True(t, SharesForValue(d("100"), decimal.Zero).Equal(d("100")))

	// a transfer of amount moves amount of present-day value
	require.True(t, SharesForValue(d("110"), d("1.1")).Equal(d("100")))
}

func TestUtilizationRate(t *testing.T) {
	require.True(t, UtilizationRate(d("500"), decimal.Zero, d("1000")).Equal(d("5000")))
	require.True(t, UtilizationRate(d("500"), d("500"), d("1000")).Equal(d("10000")))
	require.True(t, UtilizationRate(d("500"), decimal.Zero, decimal.Zero).IsZero(), "no supply yields zero")
}

func TestInterestRateEndpoints(t *testing.T) {
	min, opt, max, kink := d("100"), d("500"), d("3000"), d("8000")

	require.True(t, InterestRate(decimal.Zero, min, opt, max, kink).Equal(min), "rate at 0 must be minRate")
	require.True(t, InterestRate(d("10000"), min, opt, max, kink).Equal(max), "rate at 10000 must be maxRate")
	require.True(t, InterestRate(d("12000"), min, opt, max, kink).Equal(max), "clamped above 10000")
	require.True(t, InterestRate(kink, min, opt, max, kink).Equal(opt), "rate at the optimal point must be optimalRate")
}

func TestInterestRateMonotonic(t *testing.T) {
	min, opt, max, kink := d("100"), d("500"), d("3000"), d("8000")

	prev := decimal.Zero
	for u := int64(0); u <= 10000; u += 250 {
		rate := InterestRate(decimal.NewFromInt(u), min, opt, max, kink)
		require.True(t, rate.GreaterThanOrEqual(prev), "rate decreased at utilization %d: %s < %s", u, rate, prev)
		prev = rate
	}
}

func TestInterestRateConvex(t *testing.T) {
	min, opt, max, kink := d("100"), d("500"), d("3000"), d("8000")

	// log-space interpolation stays below the straight line between endpoints
	mid := InterestRate(d("4000"), min, opt, max, kink)
	linear := min.Add(opt.Sub(min).Div(d("2")))
	require.True(t, mid.LessThan(linear), "expected convex curve, got %s >= %s", mid, linear)
	require.True(t, mid.GreaterThan(min))
}

func TestTotalDue(t *testing.T) {
	// principal 1000, 500 bps, exactly 30 days
	due := TotalDue(d("1000"), 500, 2592000)
	require.Equal(t, "1004.10958904", due.String())

	// zero elapsed accrues nothing
	require.True(t, TotalDue(d("1000"), 500, 0).Equal(d("1000")))
}

func TestRequiredCollateral(t *testing.T) {
	// 1000 borrowed at 80% ltv, quote 2 => 625 collateral units
	c := RequiredCollateral(d("1000"), 8000, d("2"))
	require.True(t, c.Equal(d("625")), "got %s", c)
}

func TestThresholdBreached(t *testing.T) {
	due := d("1000")
	require.True(t, ThresholdBreached(d("1099"), due, 11000))
	require.False(t, ThresholdBreached(d("1100"), due, 11000))
}

func TestLiquidationAmounts(t *testing.T) {
	reward := LiquidatorReward(d("1004.10958904"), 500)
	require.Equal(t, "50.20547945", reward.String())

	require.True(t, SlippageFloor(d("100"), 500).Equal(d("95")))

	require.True(t, CollateralForValue(d("100"), d("2")).Equal(d("50")))
	require.True(t, CollateralValue(d("50"), d("2")).Equal(d("100")))
}
