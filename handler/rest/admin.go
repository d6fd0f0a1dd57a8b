package rest

import (
	"net/http"

	"tandem/core"
	"tandem/handler/param"
	"tandem/handler/render"
	"tandem/handler/views"
)

func riskParamsHandler(admins core.IAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Admin string          `json:"admin"`
			Risk  core.RiskParams `json:"risk"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		if e := admins.SetRiskParams(r.Context(), params.Admin, &params.Risk); e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func rateParamsHandler(admins core.IAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Admin string          `json:"admin"`
			Rate  core.RateParams `json:"rate"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		if e := admins.SetRateParams(r.Context(), params.Admin, &params.Rate); e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func priceFeedHandler(admins core.IAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Admin  string `json:"admin"`
			FeedID string `json:"feed_id"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		if e := admins.SetPriceFeed(r.Context(), params.Admin, params.FeedID); e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func pauseHandler(admins core.IAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Admin string `json:"admin"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		if e := admins.Pause(r.Context(), params.Admin); e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func unpauseHandler(admins core.IAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Admin string `json:"admin"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		if e := admins.Unpause(r.Context(), params.Admin); e != nil {
			render.Code(w, e)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}
