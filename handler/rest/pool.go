package rest

import (
	"net/http"

	"tandem/core"
	"tandem/handler/param"
	"tandem/handler/render"
	"tandem/handler/views"

	"github.com/shopspring/decimal"
)

func poolHandler(poolStore core.IPoolStore, lendings core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		pool, e := poolStore.Load(ctx)
		if e != nil {
			render.BadRequest(w, e)
			return
		}

		utilization, e := lendings.UtilizationRate(ctx, decimal.Zero)
		if e != nil {
			utilization = decimal.Zero
		}

		rate, e := lendings.InterestRate(ctx, utilization)
		if e != nil {
			rate = decimal.Zero
		}

		render.JSON(w, views.Pool{
			Pool:               *pool,
			ExchangeRate:       pool.ExchangeRate(),
			AvailableLiquidity: pool.AvailableLiquidity(),
			UtilizationBps:     utilization,
			InterestRateBps:    rate,
		})
	}
}

func quoteHandler(system *core.System, quotes core.IQuoteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, e := quotes.GetQuote(r.Context())
		if e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, render.H{
			"borrow_asset_id":     system.BorrowAssetID,
			"collateral_asset_id": system.CollateralAssetID,
			"price":               quote,
		})
	}
}

func ratesHandler(lendings core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Utilization decimal.Decimal `json:"utilization"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		utilization := params.Utilization
		if utilization.IsZero() {
			current, e := lendings.UtilizationRate(ctx, decimal.Zero)
			if e != nil {
				render.Code(w, e)
				return
			}
			utilization = current
		}

		rate, e := lendings.InterestRate(ctx, utilization)
		if e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, render.H{
			"utilization_bps": utilization,
			"rate_bps":        rate,
		})
	}
}

func accountHandler(shareStore core.IShareStore, lendings core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		holder := param.String(r, "holder")
		if holder == "" {
			render.BadRequest(w, core.ErrInvalidParams)
			return
		}

		account, e := shareStore.Find(ctx, holder)
		if e != nil {
			render.BadRequest(w, e)
			return
		}

		value, e := lendings.BalanceOf(ctx, holder)
		if e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, render.H{
			"holder": holder,
			"shares": account.Shares,
			"value":  value,
		})
	}
}
