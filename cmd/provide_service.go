package cmd

import (
	"colend/core"
	accountservice "colend/service/account"
	hubservice "colend/service/hub"
	liquidationservice "colend/service/liquidation"
	oracleservice "colend/service/oracle"
	positionservice "colend/service/position"
	reserveservice "colend/service/reserve"

	"github.com/fox-one/pkg/store/db"
)

func provideHubService(db *db.DB, poolStore core.IPoolStore, eventStore core.IEventStore) core.IHubService {
	return hubservice.New(db, poolStore, eventStore)
}

func provideOracleService(db *db.DB, priceStore core.IPriceStore, eventStore core.IEventStore) core.IPriceOracleService {
	return oracleservice.New(db, priceStore, eventStore, providePriceTTL())
}

func provideAccountService(
	db *db.DB,
	reserveStore core.IReserveStore,
	positionStore core.IPositionStore,
	hub core.IHubService,
	oracle core.IPriceOracleService,
	eventStore core.IEventStore,
) core.IAccountService {
	return accountservice.New(db, reserveStore, positionStore, hub, oracle, eventStore)
}

func providePositionService(
	db *db.DB,
	reserveStore core.IReserveStore,
	positionStore core.IPositionStore,
	approvalStore core.IApprovalStore,
	eventStore core.IEventStore,
	accountSrv core.IAccountService,
) core.IPositionService {
	return positionservice.New(db, reserveStore, positionStore, approvalStore, eventStore, accountSrv)
}

func provideLiquidationService(
	db *db.DB,
	eventStore core.IEventStore,
	configStore core.ILiquidationConfigStore,
	accountSrv core.IAccountService,
) core.ILiquidationService {
	return liquidationservice.New(db, eventStore, configStore, accountSrv)
}

func provideReserveService(db *db.DB, reserveStore core.IReserveStore, eventStore core.IEventStore) core.IReserveService {
	return reserveservice.New(db, reserveStore, eventStore)
}
