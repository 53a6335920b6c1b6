package rest

import (
	"errors"
	"net/http"

	"colend/core"
	"colend/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	reserveStore core.IReserveStore,
	positionStore core.IPositionStore,
	eventStore core.IEventStore,
	hub core.IHubService,
	oracle core.IPriceOracleService,
	accountz core.IAccountService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/reserves/all", allReservesHandler(reserveStore, hub, oracle))
	router.Get("/reserves", reserveHandler(reserveStore, hub, oracle))
	router.Get("/accounts", accountHandler(accountz))
	router.Get("/positions", positionsHandler(reserveStore, positionStore, hub))
	router.Get("/events", eventsHandler(eventStore))

	return router
}
