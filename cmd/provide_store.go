package cmd

import (
	"colend/core"
	"colend/store/approval"
	"colend/store/event"
	"colend/store/liquidationconf"
	"colend/store/pool"
	"colend/store/position"
	"colend/store/price"
	"colend/store/reserve"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
)

func provideReserveStore(db *db.DB) core.IReserveStore {
	return reserve.New(db)
}

func providePositionStore(db *db.DB) core.IPositionStore {
	return position.New(db)
}

func provideApprovalStore(db *db.DB) core.IApprovalStore {
	return approval.New(db)
}

func provideEventStore(db *db.DB) core.IEventStore {
	return event.New(db)
}

func providePoolStore(db *db.DB) core.IPoolStore {
	return pool.New(db)
}

func providePriceStore(db *db.DB) core.IPriceStore {
	store := price.New(db)
	if exp := providePriceTTL(); exp > 0 {
		store = price.Cache(store, exp)
	}
	return store
}

func provideLiquidationConfigStore(propertyStore property.Store) core.ILiquidationConfigStore {
	return liquidationconf.New(propertyStore, cfg.Liquidation)
}
