package rest

import (
	"net/http"

	"tandem/core"
	"tandem/handler/param"
	"tandem/handler/render"
)

func eventsHandler(eventStore core.IEventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Offset uint64 `json:"offset"`
			Limit  int    `json:"limit"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		limit := params.Limit
		if limit <= 0 || limit > 500 {
			limit = 500
		}

		events, e := eventStore.List(r.Context(), params.Offset, limit)
		if e != nil {
			render.BadRequest(w, e)
			return
		}

		render.JSON(w, events)
	}
}
