package rest

import (
	"net/http"

	"tandem/core"
	"tandem/handler/param"
	"tandem/handler/render"
	"tandem/handler/views"

	"github.com/shopspring/decimal"
)

func addLiquidityHandler(lendings core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Lender string          `json:"lender"`
			Amount decimal.Decimal `json:"amount"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		shares, e := lendings.AddLiquidity(r.Context(), params.Lender, params.Amount)
		if e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, render.H{"shares": shares})
	}
}

func removeLiquidityHandler(lendings core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Lender string          `json:"lender"`
			Shares decimal.Decimal `json:"shares"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		amount, e := lendings.RemoveLiquidity(r.Context(), params.Lender, params.Shares)
		if e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, render.H{"amount": amount})
	}
}

func transferHandler(lendings core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			From    string          `json:"from"`
			To      string          `json:"to"`
			Amount  decimal.Decimal `json:"amount"`
			Spender string          `json:"spender"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		var e error
		if params.Spender != "" && params.Spender != params.From {
			e = lendings.TransferSharesFrom(r.Context(), params.Spender, params.From, params.To, params.Amount)
		} else {
			e = lendings.TransferShares(r.Context(), params.From, params.To, params.Amount)
		}
		if e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func approveHandler(lendings core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Owner   string          `json:"owner"`
			Spender string          `json:"spender"`
			Amount  decimal.Decimal `json:"amount"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		if e := lendings.ApproveShares(r.Context(), params.Owner, params.Spender, params.Amount); e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}
