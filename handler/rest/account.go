package rest

import (
	"net/http"

	"colend/core"
	"colend/handler/param"
	"colend/handler/render"
	"colend/handler/views"
	"colend/internal/ledger"
)

func accountHandler(accountz core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			User string `json:"user"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		data, err := accountz.GetUserAccountData(r.Context(), params.User)
		if err != nil {
			render.BadRequest(w, err)
			return
		}
		render.JSON(w, views.Account{AccountData: *data})
	}
}

func positionsHandler(reserveStore core.IReserveStore, positionStore core.IPositionStore, hub core.IHubService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var params struct {
			User string `json:"user"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		positions, err := positionStore.FindByUser(ctx, params.User)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		positionViews := make([]*views.Position, 0, len(positions))
		for _, position := range positions {
			view := &views.Position{Position: *position}
			if reserve, err := reserveStore.Find(ctx, position.ReserveID); err == nil {
				view.Symbol = reserve.Symbol
				if pool, err := hub.Pool(ctx, reserve.AssetID); err == nil {
					view.SuppliedBalance = ledger.PreviewRemoveByShares(pool, position.SuppliedShares)
					view.DrawnBalance = ledger.PreviewRestoreByShares(pool, position.DrawnShares)
					view.PremiumDebt = ledger.PremiumDebt(pool, position)
				}
			}
			positionViews = append(positionViews, view)
		}
		render.JSON(w, positionViews)
	}
}
