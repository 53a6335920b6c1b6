package liquidation

import (
	"context"
	"fmt"
	"testing"

	"colend/core"
	"colend/pkg/number"
	"colend/service/account"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeReserveStore struct {
	core.IReserveStore
	reserves map[uint64]*core.Reserve
	configs  map[string]*core.ReserveConfig
}

func (s *fakeReserveStore) Find(ctx context.Context, id uint64) (*core.Reserve, error) {
	return s.reserves[id], nil
}

func (s *fakeReserveStore) Count(ctx context.Context) (uint64, error) {
	return uint64(len(s.reserves)), nil
}

func (s *fakeReserveStore) FindConfig(ctx context.Context, reserveID uint64, key uint16) (*core.ReserveConfig, error) {
	return s.configs[fmt.Sprintf("%d-%d", reserveID, key)], nil
}

type fakePositionStore struct {
	core.IPositionStore
	positions map[string]*core.Position
	status    map[string]*core.PositionStatus
}

func (s *fakePositionStore) Find(ctx context.Context, userID string, reserveID uint64) (*core.Position, error) {
	if p, ok := s.positions[fmt.Sprintf("%s-%d", userID, reserveID)]; ok {
		return p, nil
	}
	return &core.Position{UserID: userID, ReserveID: reserveID}, nil
}

func (s *fakePositionStore) FindStatus(ctx context.Context, userID string) (*core.PositionStatus, error) {
	if st, ok := s.status[userID]; ok {
		return st, nil
	}
	return core.NewPositionStatus(userID), nil
}

type fakeHub struct {
	pools map[string]*core.Pool
}

func (h *fakeHub) Pool(ctx context.Context, assetID string) (*core.Pool, error) {
	if p, ok := h.pools[assetID]; ok {
		return p, nil
	}
	return &core.Pool{AssetID: assetID}, nil
}

func (h *fakeHub) SavePool(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	return nil
}

func (h *fakeHub) Accrue(ctx context.Context, assetID string, interest decimal.Decimal) error {
	return nil
}

type fakeOracle struct {
	prices map[uint64]decimal.Decimal
}

func (o *fakeOracle) GetReservePrice(ctx context.Context, reserveID uint64) (decimal.Decimal, error) {
	if p, ok := o.prices[reserveID]; ok {
		return p, nil
	}
	return decimal.Zero, core.ErrInvalidPrice
}

func (o *fakeOracle) SetReservePrice(ctx context.Context, reserveID uint64, price decimal.Decimal) error {
	return nil
}

type fakeConfigStore struct {
	config core.LiquidationConfig
}

func (s *fakeConfigStore) Get(ctx context.Context) (*core.LiquidationConfig, error) {
	config := s.config
	return &config, nil
}

func (s *fakeConfigStore) Set(ctx context.Context, config *core.LiquidationConfig) error {
	s.config = *config
	return nil
}

// alice borrows 900 usd against 10 btc at 100 with factor 0.5; at that
// price her health factor sits just over 0.55
func newTestService(healthy bool) core.ILiquidationService {
	price := number.Decimal("100")
	if healthy {
		price = number.Decimal("200")
	}

	reserves := &fakeReserveStore{
		reserves: map[uint64]*core.Reserve{
			1: {ID: 1, AssetID: "btc", Symbol: "BTC", ActiveConfigKey: 1},
			2: {ID: 2, AssetID: "usd", Symbol: "USDC", ActiveConfigKey: 1, Borrowable: true},
		},
		configs: map[string]*core.ReserveConfig{
			"1-1": {
				ReserveID: 1, Key: 1,
				CollateralFactor: number.Decimal("0.5"),
				LiquidationBonus: number.Decimal("1.08"),
				LiquidationFee:   number.Decimal("0.1"),
			},
			"2-1": {ReserveID: 2, Key: 1, LiquidationBonus: number.Decimal("1")},
		},
	}

	status := core.NewPositionStatus("alice")
	status.SetCollateral(1, true)
	status.SetBorrowing(2, true)

	positions := &fakePositionStore{
		positions: map[string]*core.Position{
			"alice-1": {ID: 1, UserID: "alice", ReserveID: 1, SuppliedShares: number.Decimal("10"), ConfigKey: 1},
			"alice-2": {ID: 2, UserID: "alice", ReserveID: 2, DrawnShares: number.Decimal("900"), ConfigKey: 1},
		},
		status: map[string]*core.PositionStatus{"alice": status},
	}

	hub := &fakeHub{pools: map[string]*core.Pool{
		"btc": {ID: 1, AssetID: "btc", TotalCash: number.Decimal("10"), TotalShares: number.Decimal("10")},
		"usd": {
			ID: 2, AssetID: "usd",
			TotalCash:        number.Decimal("100"),
			TotalDrawnAssets: number.Decimal("900"),
			TotalDrawnShares: number.Decimal("900"),
		},
	}}

	oracle := &fakeOracle{prices: map[uint64]decimal.Decimal{
		1: price,
		2: number.Decimal("1"),
	}}

	configs := &fakeConfigStore{config: core.LiquidationConfig{
		CloseFactor:             number.Decimal("1.05"),
		HealthFactorForMaxBonus: number.Decimal("0.95"),
		BonusFactor:             number.Decimal("1"),
	}}

	accountz := account.New(nil, reserves, positions, hub, oracle, nil)
	return New(nil, nil, configs, accountz)
}

func TestLiquidatePreconditions(t *testing.T) {
	svc := newTestService(false)
	ctx := context.Background()

	_, err := svc.Liquidate(ctx, "bob", 1, 2, "alice", decimal.Zero)
	assert.Equal(t, core.ErrInvalidAmount, err)

	_, err = svc.Liquidate(ctx, "alice", 1, 2, "alice", number.Decimal("100"))
	assert.Equal(t, core.ErrOperationForbidden, err)

	_, err = svc.Liquidate(ctx, "bob", 2, 2, "alice", number.Decimal("100"))
	assert.Equal(t, core.ErrNotCollateral, err)

	_, err = svc.Liquidate(ctx, "bob", 1, 1, "alice", number.Decimal("100"))
	assert.Equal(t, core.ErrPositionNotFound, err)
}

func TestLiquidateHealthyPosition(t *testing.T) {
	svc := newTestService(true)
	ctx := context.Background()

	_, err := svc.Liquidate(ctx, "bob", 1, 2, "alice", number.Decimal("100"))
	assert.Equal(t, core.ErrHealthyPosition, err)
}

func TestLiquidateDustPolicy(t *testing.T) {
	svc := newTestService(false)
	ctx := context.Background()

	// covering all but a sliver of the 900 debt must be refused
	_, err := svc.Liquidate(ctx, "bob", 1, 2, "alice", number.Decimal("850"))
	assert.Equal(t, core.ErrRemainingDebtDust, err)
}
