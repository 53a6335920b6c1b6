package liquidation

import (
	"context"
	"testing"

	"colend/core"
	"colend/pkg/number"
	"colend/service/account"
	hubservice "colend/service/hub"
	oracleservice "colend/service/oracle"
	positionservice "colend/service/position"
	reserveservice "colend/service/reserve"
	approvalstore "colend/store/approval"
	eventstore "colend/store/event"
	poolstore "colend/store/pool"
	positionstore "colend/store/position"
	pricestore "colend/store/price"
	reservestore "colend/store/reserve"

	"github.com/fox-one/pkg/store/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flowEnv struct {
	db        *db.DB
	oracle    core.IPriceOracleService
	hub       core.IHubService
	accountz  core.IAccountService
	positionz core.IPositionService
	service   core.ILiquidationService

	events   core.IEventStore
	reservez core.IReserveService
}

func newFlowEnv(t *testing.T) *flowEnv {
	database := db.MustOpen(db.SqliteInMemory())
	// the shared in-memory db lives on a single connection
	database.Update().DB().SetMaxOpenConns(1)
	require.Nil(t, db.Migrate(database))

	reserves := reservestore.New(database)
	positions := positionstore.New(database)
	approvals := approvalstore.New(database)
	events := eventstore.New(database)
	pools := poolstore.New(database)
	prices := pricestore.New(database)

	hub := hubservice.New(database, pools, events)
	oracle := oracleservice.New(database, prices, events, 0)
	accountz := account.New(database, reserves, positions, hub, oracle, events)

	configs := &fakeConfigStore{config: core.LiquidationConfig{
		CloseFactor:             number.Decimal("1.05"),
		HealthFactorForMaxBonus: number.Decimal("0.95"),
		BonusFactor:             number.Decimal("1"),
	}}

	return &flowEnv{
		db:        database,
		oracle:    oracle,
		hub:       hub,
		accountz:  accountz,
		positionz: positionservice.New(database, reserves, positions, approvals, events, accountz),
		service:   New(database, events, configs, accountz),
		events:    events,
		reservez:  reserveservice.New(database, reserves, events),
	}
}

func (env *flowEnv) listReserve(t *testing.T, reserve *core.Reserve, config *core.ReserveConfig, price string) *core.Reserve {
	listed, err := env.reservez.ListReserve(context.Background(), reserve, config)
	require.Nil(t, err)
	require.Nil(t, env.oracle.SetReservePrice(context.Background(), listed.ID, number.Decimal(price)))
	return listed
}

// alice borrows 450 usd against 10 btc at 100 with factor 0.5
func newUnderwaterPosition(t *testing.T, env *flowEnv) (btc, usd *core.Reserve) {
	ctx := context.Background()

	btc = env.listReserve(t, &core.Reserve{
		AssetID: "c6d0c728-2624-429b-8e0d-d9d19b6592fa",
		Symbol:  "BTC",
	}, &core.ReserveConfig{
		CollateralFactor: number.Decimal("0.5"),
		LiquidationBonus: number.Decimal("1.08"),
		LiquidationFee:   number.Decimal("0.1"),
	}, "100")

	usd = env.listReserve(t, &core.Reserve{
		AssetID:    "4d8c508b-91c5-375b-92b0-ee702ed2dac5",
		Symbol:     "USDC",
		Borrowable: true,
	}, &core.ReserveConfig{
		LiquidationBonus: number.Decimal("1"),
	}, "1")

	require.Nil(t, env.positionz.Supply(ctx, "lp", usd.ID, number.Decimal("2000"), "lp"))
	require.Nil(t, env.positionz.Supply(ctx, "alice", btc.ID, number.Decimal("10"), "alice"))
	require.Nil(t, env.positionz.Borrow(ctx, "alice", usd.ID, number.Decimal("450"), "alice"))
	return btc, usd
}

func TestLiquidateFlow(t *testing.T) {
	env := newFlowEnv(t)
	ctx := context.Background()
	btc, usd := newUnderwaterPosition(t, env)

	require.Nil(t, env.oracle.SetReservePrice(ctx, btc.ID, number.Decimal("80")))

	before, err := env.accountz.GetUserAccountData(ctx, "alice")
	require.Nil(t, err)
	assert.Equal(t, "0.8888888888888889", before.HealthFactor.String())

	result, err := env.service.Liquidate(ctx, "bob", btc.ID, usd.ID, "alice", core.MaxAmount)
	require.Nil(t, err)

	assert.Equal(t, "1.08", result.Bonus.String())
	assert.Equal(t, "142.15686274", result.DebtCovered.String())
	assert.Equal(t, "1.91911765", result.CollateralSeized.String())
	assert.Equal(t, "0.01421568", result.FeeAmount.String())
	assert.False(t, result.Deficit)
	assert.True(t, result.DeficitAmount.IsZero())

	// the covered debt came back as pool cash, the seized collateral left
	// as cash with the fee part held back as protocol shares
	pool, err := env.hub.Pool(ctx, usd.AssetID)
	require.Nil(t, err)
	assert.Equal(t, "1692.15686274", pool.TotalCash.String())
	assert.Equal(t, "307.84313726", pool.TotalDrawnAssets.String())

	pool, err = env.hub.Pool(ctx, btc.AssetID)
	require.Nil(t, err)
	assert.Equal(t, "8.09509803", pool.TotalCash.String())
	assert.Equal(t, "0.01421568", pool.FeeShares.String())

	// back between 1 and the close factor, leftover debt above the floor
	after, err := env.accountz.GetUserAccountData(ctx, "alice")
	require.Nil(t, err)
	assert.True(t, after.HealthFactor.GreaterThanOrEqual(number.One))
	assert.True(t, after.HealthFactor.LessThanOrEqual(number.Decimal("1.05")))
	assert.Equal(t, "307.84313726", after.TotalDebtValue.String())
}

func TestLiquidateDeficit(t *testing.T) {
	env := newFlowEnv(t)
	ctx := context.Background()
	btc, usd := newUnderwaterPosition(t, env)

	// deep underwater: 400 of collateral value against 450 of debt
	require.Nil(t, env.oracle.SetReservePrice(ctx, btc.ID, number.Decimal("40")))

	result, err := env.service.Liquidate(ctx, "bob", btc.ID, usd.ID, "alice", core.MaxAmount)
	require.Nil(t, err)

	assert.Equal(t, "370.37037037", result.DebtCovered.String())
	assert.Equal(t, "10", result.CollateralSeized.String())
	assert.Equal(t, "0.07407407", result.FeeAmount.String())
	assert.True(t, result.Deficit)
	assert.Equal(t, "79.62962963", result.DeficitAmount.String())

	// covered plus socialized adds up to the whole debt
	assert.Equal(t, "450", result.DebtCovered.Add(result.DeficitAmount).String())

	// the write-off landed on the pool's deficit bucket, not its drawn side
	pool, err := env.hub.Pool(ctx, usd.AssetID)
	require.Nil(t, err)
	assert.Equal(t, "79.62962963", pool.Deficit.String())
	assert.Equal(t, "1920.37037037", pool.TotalCash.String())
	assert.True(t, pool.TotalDrawnAssets.IsZero())
	assert.True(t, pool.TotalDrawnShares.IsZero())

	pool, err = env.hub.Pool(ctx, btc.AssetID)
	require.Nil(t, err)
	assert.Equal(t, "0.07407407", pool.FeeShares.String())

	// alice walks away with nothing but also owes nothing
	data, err := env.accountz.GetUserAccountData(ctx, "alice")
	require.Nil(t, err)
	assert.Equal(t, 0, data.CollateralCount)
	assert.Equal(t, 0, data.BorrowCount)
	assert.True(t, data.TotalDebtValue.IsZero())
	assert.True(t, data.HealthFactor.Equal(number.MaxHealth))

	events, err := env.events.FindByUser(ctx, "alice", 50)
	require.Nil(t, err)
	actions := make(map[string]bool)
	for _, event := range events {
		actions[event.Action] = true
	}
	assert.True(t, actions[core.EventLiquidated])
	assert.True(t, actions[core.EventDeficitReported])
}

func TestLiquidateLastOfTwoCollaterals(t *testing.T) {
	env := newFlowEnv(t)
	ctx := context.Background()

	alpha := env.listReserve(t, &core.Reserve{
		AssetID:        "965e5c6e-434c-3fa9-b780-c50f43cd955c",
		Symbol:         "ALPHA",
		CollateralRisk: number.Decimal("0.1"),
	}, &core.ReserveConfig{
		CollateralFactor: number.Decimal("0.9"),
		LiquidationBonus: number.Decimal("1.05"),
	}, "50000")

	bravo := env.listReserve(t, &core.Reserve{
		AssetID: "43d61dcd-e413-450d-80b8-101d5e903357",
		Symbol:  "BRAVO",
	}, &core.ReserveConfig{
		CollateralFactor: number.Decimal("0.8"),
		LiquidationBonus: number.Decimal("1.05"),
	}, "10000")

	usd := env.listReserve(t, &core.Reserve{
		AssetID:    "4d8c508b-91c5-375b-92b0-ee702ed2dac5",
		Symbol:     "USDC",
		Borrowable: true,
	}, &core.ReserveConfig{
		LiquidationBonus: number.Decimal("1"),
	}, "1")

	require.Nil(t, env.positionz.Supply(ctx, "lp", usd.ID, number.Decimal("50000"), "lp"))
	require.Nil(t, env.positionz.Supply(ctx, "alice", alpha.ID, number.Decimal("1"), "alice"))
	require.Nil(t, env.positionz.Supply(ctx, "alice", bravo.ID, number.Decimal("1"), "alice"))
	require.Nil(t, env.positionz.Borrow(ctx, "alice", usd.ID, number.Decimal("40000"), "alice"))

	// 30000 of the debt leans on the risky collateral
	data, err := env.accountz.GetUserAccountData(ctx, "alice")
	require.Nil(t, err)
	assert.Equal(t, "1.325", data.HealthFactor.String())
	assert.Equal(t, "0.075", data.RiskPremium.String())

	require.Nil(t, env.oracle.SetReservePrice(ctx, alpha.ID, number.Decimal("25000")))

	data, err = env.accountz.GetUserAccountData(ctx, "alice")
	require.Nil(t, err)
	assert.Equal(t, "0.7625", data.HealthFactor.String())

	result, err := env.service.Liquidate(ctx, "bob", alpha.ID, usd.ID, "alice", core.MaxAmount)
	require.Nil(t, err)

	// the whole alpha holding goes at the 1.05 discount
	assert.Equal(t, "1.05", result.Bonus.String())
	assert.Equal(t, "1", result.CollateralSeized.String())
	assert.Equal(t, "23809.52380952", result.DebtCovered.String())
	assert.True(t, result.FeeAmount.IsZero())
	// bravo is still there, so no deficit despite the full seizure
	assert.False(t, result.Deficit)

	// what remains leans on bravo alone and its zero risk tier
	data, err = env.accountz.GetUserAccountData(ctx, "alice")
	require.Nil(t, err)
	assert.Equal(t, 1, data.CollateralCount)
	assert.Equal(t, "10000", data.TotalCollateralValue.String())
	assert.Equal(t, "16190.47619048", data.TotalDebtValue.String())
	assert.True(t, data.RiskPremium.IsZero())
	assert.True(t, data.HealthFactor.LessThan(number.One))
	assert.True(t, data.HealthFactor.Equal(number.Decimal("8000").DivRound(data.TotalDebtValue, 16)))
}
