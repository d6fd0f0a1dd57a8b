package rest

import (
	"net/http"
	"time"

	"tandem/core"
	"tandem/handler/param"
	"tandem/handler/render"
	"tandem/handler/views"
	"tandem/pkg/lending"

	"github.com/shopspring/decimal"
)

func loansHandler(loanStore core.ILoanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var (
			loans []*core.Loan
			e     error
		)

		if borrower := param.String(r, "borrower"); borrower != "" {
			loans, e = loanStore.FindByBorrower(ctx, borrower)
		} else {
			loans, e = loanStore.All(ctx)
		}
		if e != nil {
			render.BadRequest(w, e)
			return
		}

		loanViews := make([]*views.Loan, 0, len(loans))
		for _, loan := range loans {
			loanViews = append(loanViews, getLoanView(loan))
		}

		render.JSON(w, loanViews)
	}
}

func loanHandler(loanStore core.ILoanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loan, e := loanStore.Find(r.Context(), param.UInt64(r, "loan_id"))
		if e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, getLoanView(loan))
	}
}

func borrowHandler(lendings core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Borrower string          `json:"borrower"`
			Amount   decimal.Decimal `json:"amount"`
			Duration int64           `json:"duration"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		loan, e := lendings.Borrow(r.Context(), params.Borrower, params.Amount, time.Duration(params.Duration)*time.Second)
		if e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, getLoanView(loan))
	}
}

func p2pLoanHandler(lendings core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Borrower string          `json:"borrower"`
			Amount   decimal.Decimal `json:"amount"`
			Duration int64           `json:"duration"`
			Lender   string          `json:"lender"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		loan, e := lendings.RequestP2PLoan(r.Context(), params.Borrower, params.Amount, time.Duration(params.Duration)*time.Second, params.Lender)
		if e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, getLoanView(loan))
	}
}

func matchHandler(lendings core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Lender string `json:"lender"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		loan, e := lendings.MatchP2PLoanRequest(r.Context(), params.Lender, param.UInt64(r, "loan_id"))
		if e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, getLoanView(loan))
	}
}

func repayHandler(lendings core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paid, e := lendings.Repay(r.Context(), param.UInt64(r, "loan_id"))
		if e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, render.H{"paid": paid})
	}
}

func cancelHandler(lendings core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Borrower string `json:"borrower"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		if e := lendings.CancelPendingLoan(r.Context(), params.Borrower, param.UInt64(r, "loan_id")); e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func liquidateHandler(liquidations core.ILiquidationService, liquidators func(account string) core.Liquidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Liquidator string `json:"liquidator"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}
		if params.Liquidator == "" {
			render.Code(w, core.ErrInvalidParams)
			return
		}

		outcome, e := liquidations.Liquidate(r.Context(), params.Liquidator, param.UInt64(r, "loan_id"), liquidators(params.Liquidator))
		if e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, outcome)
	}
}

func getLoanView(loan *core.Loan) *views.Loan {
	now := time.Now()

	status := loan.Status.String()
	if loan.TermViolated(now) {
		status = core.LoanStatusOverdue.String()
	}

	totalDue := decimal.Zero
	if loan.Status == core.LoanStatusActive {
		totalDue = lending.TotalDue(loan.Principal, loan.InterestRateBps, loan.Elapsed(now))
	}

	return &views.Loan{
		Loan:       *loan,
		StatusName: status,
		TotalDue:   totalDue,
	}
}
