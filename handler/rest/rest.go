package rest

import (
	"errors"
	"net/http"

	"tandem/core"
	"tandem/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	system *core.System,
	poolStore core.IPoolStore,
	shareStore core.IShareStore,
	loanStore core.ILoanStore,
	eventStore core.IEventStore,
	lendings core.ILendingService,
	liquidations core.ILiquidationService,
	admins core.IAdminService,
	quotes core.IQuoteService,
	liquidators func(account string) core.Liquidator,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/pool", poolHandler(poolStore, lendings))
	router.Get("/quote", quoteHandler(system, quotes))
	router.Get("/rates", ratesHandler(lendings))
	router.Get("/accounts/{holder}", accountHandler(shareStore, lendings))

	router.Get("/loans", loansHandler(loanStore))
	router.Get("/loans/{loan_id}", loanHandler(loanStore))
	router.Post("/loans/borrow", borrowHandler(lendings))
	router.Post("/loans/p2p", p2pLoanHandler(lendings))
	router.Post("/loans/{loan_id}/match", matchHandler(lendings))
	router.Post("/loans/{loan_id}/repay", repayHandler(lendings))
	router.Post("/loans/{loan_id}/cancel", cancelHandler(lendings))
	router.Post("/loans/{loan_id}/liquidate", liquidateHandler(liquidations, liquidators))

	router.Post("/liquidity/add", addLiquidityHandler(lendings))
	router.Post("/liquidity/remove", removeLiquidityHandler(lendings))
	router.Post("/shares/transfer", transferHandler(lendings))
	router.Post("/shares/approve", approveHandler(lendings))

	router.Get("/events", eventsHandler(eventStore))

	router.Post("/admin/risk-params", riskParamsHandler(admins))
	router.Post("/admin/rate-params", rateParamsHandler(admins))
	router.Post("/admin/price-feed", priceFeedHandler(admins))
	router.Post("/admin/pause", pauseHandler(admins))
	router.Post("/admin/unpause", unpauseHandler(admins))

	return router
}
