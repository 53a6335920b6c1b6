package rest

import (
	"net/http"

	"colend/core"
	"colend/handler/param"
	"colend/handler/render"
)

func eventsHandler(eventStore core.IEventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			User  string `json:"user"`
			Limit int    `json:"limit"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if params.Limit <= 0 {
			params.Limit = 50
		}
		if params.Limit > 500 {
			params.Limit = 500
		}

		events, err := eventStore.FindByUser(r.Context(), params.User, params.Limit)
		if err != nil {
			render.BadRequest(w, err)
			return
		}
		render.JSON(w, events)
	}
}
