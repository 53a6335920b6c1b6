package rest

import (
	"net/http"
	"strings"

	"colend/core"
	"colend/handler/param"
	"colend/handler/render"
	"colend/handler/views"

	"github.com/shopspring/decimal"
)

func allReservesHandler(reserveStore core.IReserveStore, hub core.IHubService, oracle core.IPriceOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		reserves, err := reserveStore.All(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		reserveViews := make([]*views.Reserve, 0, len(reserves))
		for _, reserve := range reserves {
			reserveViews = append(reserveViews, getReserveView(r, reserve, reserveStore, hub, oracle))
		}
		render.JSON(w, reserveViews)
	}
}

func reserveHandler(reserveStore core.IReserveStore, hub core.IHubService, oracle core.IPriceOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Symbol string `json:"symbol"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		reserve, err := reserveStore.FindBySymbol(r.Context(), strings.ToUpper(params.Symbol))
		if err != nil {
			render.BadRequest(w, core.ErrReserveNotFound)
			return
		}

		view := getReserveView(r, reserve, reserveStore, hub, oracle)
		if configs, err := reserveStore.AllConfigs(r.Context(), reserve.ID); err == nil {
			view.Configs = configs
		}
		render.JSON(w, view)
	}
}

func getReserveView(r *http.Request, reserve *core.Reserve, reserveStore core.IReserveStore, hub core.IHubService, oracle core.IPriceOracleService) *views.Reserve {
	ctx := r.Context()
	view := &views.Reserve{Reserve: *reserve}

	if config, err := reserveStore.FindConfig(ctx, reserve.ID, reserve.ActiveConfigKey); err == nil {
		view.Config = config
	}
	if pool, err := hub.Pool(ctx, reserve.AssetID); err == nil {
		view.Pool = pool
	}
	if price, err := oracle.GetReservePrice(ctx, reserve.ID); err == nil {
		view.Price = price
	} else {
		view.Price = decimal.Zero
	}
	return view
}
