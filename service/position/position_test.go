package position

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
	if r, ok := s.reserves[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("record not found")
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

type fakeApprovalStore struct {
	core.IApprovalStore
	approvals map[string]*core.Approval
}

func (s *fakeApprovalStore) Find(ctx context.Context, userID, managerID string) (*core.Approval, error) {
	if a, ok := s.approvals[userID+"-"+managerID]; ok {
		return a, nil
	}
	return &core.Approval{UserID: userID, ManagerID: managerID}, nil
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

// reserve 1 = collateral only, reserve 2 = borrowable cash, reserve 3 paused
func newTestService() core.IPositionService {
	reserves := &fakeReserveStore{
		reserves: map[uint64]*core.Reserve{
			1: {ID: 1, AssetID: "btc", Symbol: "BTC", ActiveConfigKey: 1},
			2: {ID: 2, AssetID: "usd", Symbol: "USDC", ActiveConfigKey: 1, Borrowable: true},
			3: {ID: 3, AssetID: "doge", Symbol: "DOGE", ActiveConfigKey: 1, Paused: true},
		},
		configs: map[string]*core.ReserveConfig{
			"1-1": {ReserveID: 1, Key: 1, CollateralFactor: number.Decimal("0.5"), LiquidationBonus: number.Decimal("1.05")},
			"2-1": {ReserveID: 2, Key: 1, LiquidationBonus: number.Decimal("1.05")},
			"3-1": {ReserveID: 3, Key: 1, LiquidationBonus: number.Decimal("1.05")},
		},
	}

	aliceStatus := core.NewPositionStatus("alice")
	aliceStatus.SetCollateral(1, true)
	aliceStatus.SetBorrowing(2, true)

	bobStatus := core.NewPositionStatus("bob")
	bobStatus.SetCollateral(1, true)

	positions := &fakePositionStore{
		positions: map[string]*core.Position{
			"alice-1": {ID: 1, UserID: "alice", ReserveID: 1, SuppliedShares: number.Decimal("1"), ConfigKey: 1},
			"alice-2": {ID: 2, UserID: "alice", ReserveID: 2, DrawnShares: number.Decimal("40"), ConfigKey: 1},
			"bob-1":   {ID: 3, UserID: "bob", ReserveID: 1, SuppliedShares: number.Decimal("1"), ConfigKey: 1},
		},
		status: map[string]*core.PositionStatus{
			"alice": aliceStatus,
			"bob":   bobStatus,
		},
	}

	hub := &fakeHub{pools: map[string]*core.Pool{
		"btc": {ID: 1, AssetID: "btc", TotalCash: number.Decimal("100"), TotalShares: number.Decimal("100")},
		"usd": {
			ID: 2, AssetID: "usd",
			TotalCash:        number.Decimal("1000"),
			TotalDrawnAssets: number.Decimal("40"),
			TotalDrawnShares: number.Decimal("40"),
		},
	}}

	oracle := &fakeOracle{prices: map[uint64]decimal.Decimal{
		1: number.Decimal("100"),
		2: number.Decimal("1"),
		3: number.Decimal("0.1"),
	}}

	approvals := &fakeApprovalStore{approvals: map[string]*core.Approval{
		"alice-carol": {ID: 1, UserID: "alice", ManagerID: "carol", Active: true},
	}}

	accountz := account.New(nil, reserves, positions, hub, oracle, nil)
	return New(nil, reserves, positions, approvals, nil, accountz)
}

func TestSupplyValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	err := svc.Supply(ctx, "alice", 1, decimal.Zero, "alice")
	assert.Equal(t, core.ErrInvalidAmount, err)

	err = svc.Supply(ctx, "alice", 1, core.MaxAmount, "alice")
	assert.Equal(t, core.ErrInvalidAmount, err)

	err = svc.Supply(ctx, "alice", 3, number.Decimal("10"), "alice")
	assert.Equal(t, core.ErrReservePaused, err)
}

func TestWithdrawAuthorization(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	err := svc.Withdraw(ctx, "mallory", 1, number.Decimal("1"), "alice")
	assert.Equal(t, core.ErrOperationForbidden, err)

	// carol is an approved manager; she gets past authorization and
	// fails on the balance instead
	err = svc.Withdraw(ctx, "carol", 1, number.Decimal("5"), "alice")
	assert.Equal(t, core.ErrInsufficientBalance, err)
}

func TestWithdrawHealthCheck(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// 1 BTC at 100 with factor 0.5 backs 40 of debt; withdrawing 0.5
	// leaves power 25 < 40
	err := svc.Withdraw(ctx, "alice", 1, number.Decimal("0.5"), "alice")
	assert.Equal(t, core.ErrHealthFactorTooLow, err)
}

func TestBorrowPreconditions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	err := svc.Borrow(ctx, "bob", 1, number.Decimal("1"), "bob")
	assert.Equal(t, core.ErrBorrowNotAllowed, err)

	// power is 50, asking for 60
	err = svc.Borrow(ctx, "bob", 2, number.Decimal("60"), "bob")
	assert.Equal(t, core.ErrHealthFactorTooLow, err)

	// nothing to repay yet
	err = svc.Repay(ctx, "bob", 2, number.Decimal("10"), "bob")
	assert.Equal(t, core.ErrPositionNotFound, err)
}

func TestCollateralToggle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// disabling the only collateral under open debt must fail
	err := svc.SetUsingAsCollateral(ctx, "alice", 1, false, "alice")
	assert.Equal(t, core.ErrHealthFactorTooLow, err)

	// nothing supplied to enable
	err = svc.SetUsingAsCollateral(ctx, "bob", 2, true, "bob")
	assert.Equal(t, core.ErrInsufficientBalance, err)
}
