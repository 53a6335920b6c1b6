package position

import (
	"context"

	"colend/core"
	"colend/internal/ledger"
	"colend/pkg/concurrency"
	"colend/pkg/id"
	"colend/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type positionService struct {
	db        *db.DB
	reserves  core.IReserveStore
	positions core.IPositionStore
	approvals core.IApprovalStore
	events    core.IEventStore
	accountz  core.IAccountService
	locks     *concurrency.KeyedMutex
}

// New new position service
func New(
	db *db.DB,
	reserves core.IReserveStore,
	positions core.IPositionStore,
	approvals core.IApprovalStore,
	events core.IEventStore,
	accountz core.IAccountService,
) core.IPositionService {
	return &positionService{
		db:        db,
		reserves:  reserves,
		positions: positions,
		approvals: approvals,
		events:    events,
		accountz:  accountz,
		locks:     concurrency.NewKeyedMutex(),
	}
}

func (s *positionService) Supply(ctx context.Context, caller string, reserveID uint64, amount decimal.Decimal, onBehalfOf string) error {
	if onBehalfOf == "" {
		onBehalfOf = caller
	}
	if !amount.IsPositive() || amount.GreaterThanOrEqual(core.MaxAmount) {
		return core.ErrInvalidAmount
	}

	s.locks.Lock(onBehalfOf)
	defer s.locks.Unlock(onBehalfOf)

	reserve, err := s.findReserve(ctx, reserveID)
	if err != nil {
		return err
	}
	if reserve.Paused {
		return core.ErrReservePaused
	}
	if reserve.Frozen {
		return core.ErrReserveFrozen
	}

	account, err := s.accountz.LoadAccount(ctx, onBehalfOf)
	if err != nil {
		return err
	}
	item, err := s.accountz.LoadItem(ctx, account, reserveID)
	if err != nil {
		return err
	}

	shares, err := ledger.AddLiquidity(item.Pool, amount)
	if err != nil {
		return err
	}

	position := item.Position
	first := !position.SuppliedShares.IsPositive()
	position.SuppliedShares = position.SuppliedShares.Add(shares)
	if position.ConfigKey == 0 {
		position.ConfigKey = reserve.ActiveConfigKey
	}
	item.Dirty, item.PoolDirty = true, true

	// first supply auto-enables collateral when the config grants power
	if first && !account.Status.IsCollateral(reserveID) && item.Config.CollateralFactor.IsPositive() {
		account.Status.SetCollateral(reserveID, true)
		account.StatusDirty = true
	}

	if _, err := s.accountz.UpdateRiskPremium(ctx, account); err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.accountz.Save(ctx, tx, account); err != nil {
			return err
		}
		event := &core.Event{
			TraceID:   id.GenTraceID(),
			UserID:    onBehalfOf,
			ReserveID: reserveID,
			Action:    core.EventSupplied,
		}
		return s.events.Save(ctx, tx, event.SetData(map[string]interface{}{
			"caller": caller,
			"amount": amount,
			"shares": shares,
		}))
	})
}

func (s *positionService) Withdraw(ctx context.Context, caller string, reserveID uint64, amount decimal.Decimal, onBehalfOf string) error {
	if onBehalfOf == "" {
		onBehalfOf = caller
	}
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}
	if err := s.authorize(ctx, caller, onBehalfOf); err != nil {
		return err
	}

	s.locks.Lock(onBehalfOf)
	defer s.locks.Unlock(onBehalfOf)

	reserve, err := s.findReserve(ctx, reserveID)
	if err != nil {
		return err
	}
	if reserve.Paused {
		return core.ErrReservePaused
	}

	account, err := s.accountz.LoadAccount(ctx, onBehalfOf)
	if err != nil {
		return err
	}
	item, err := s.accountz.LoadItem(ctx, account, reserveID)
	if err != nil {
		return err
	}

	position := item.Position
	if !position.SuppliedShares.IsPositive() {
		return core.ErrInsufficientBalance
	}

	balance := ledger.PreviewRemoveByShares(item.Pool, position.SuppliedShares)
	if amount.GreaterThanOrEqual(core.MaxAmount) {
		amount = balance
	}
	if amount.GreaterThan(balance) {
		return core.ErrInsufficientBalance
	}

	if amount.Equal(balance) {
		if _, err := ledger.RemoveAllLiquidity(item.Pool, position.SuppliedShares); err != nil {
			return err
		}
		position.SuppliedShares = decimal.Zero
	} else {
		shares, err := ledger.RemoveLiquidity(item.Pool, amount)
		if err != nil {
			return err
		}
		if shares.GreaterThan(position.SuppliedShares) {
			shares = position.SuppliedShares
		}
		position.SuppliedShares = position.SuppliedShares.Sub(shares)
	}
	item.Dirty, item.PoolDirty = true, true

	if !position.SuppliedShares.IsPositive() && account.Status.IsCollateral(reserveID) {
		account.Status.SetCollateral(reserveID, false)
		account.StatusDirty = true
	}

	data, err := s.accountz.UpdateRiskPremium(ctx, account)
	if err != nil {
		return err
	}
	if data.HealthFactor.LessThan(number.One) {
		return core.ErrHealthFactorTooLow
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.accountz.Save(ctx, tx, account); err != nil {
			return err
		}
		event := &core.Event{
			TraceID:   id.GenTraceID(),
			UserID:    onBehalfOf,
			ReserveID: reserveID,
			Action:    core.EventWithdrawn,
		}
		return s.events.Save(ctx, tx, event.SetData(map[string]interface{}{
			"caller": caller,
			"amount": amount,
		}))
	})
}

func (s *positionService) Borrow(ctx context.Context, caller string, reserveID uint64, amount decimal.Decimal, onBehalfOf string) error {
	if onBehalfOf == "" {
		onBehalfOf = caller
	}
	if !amount.IsPositive() || amount.GreaterThanOrEqual(core.MaxAmount) {
		return core.ErrInvalidAmount
	}
	if err := s.authorize(ctx, caller, onBehalfOf); err != nil {
		return err
	}

	s.locks.Lock(onBehalfOf)
	defer s.locks.Unlock(onBehalfOf)

	reserve, err := s.findReserve(ctx, reserveID)
	if err != nil {
		return err
	}
	if reserve.Paused {
		return core.ErrReservePaused
	}
	if reserve.Frozen {
		return core.ErrReserveFrozen
	}
	if !reserve.Borrowable {
		return core.ErrBorrowNotAllowed
	}

	account, err := s.accountz.LoadAccount(ctx, onBehalfOf)
	if err != nil {
		return err
	}
	item, err := s.accountz.LoadItem(ctx, account, reserveID)
	if err != nil {
		return err
	}

	shares, err := ledger.DrawLiquidity(item.Pool, amount)
	if err != nil {
		return err
	}
	item.Position.DrawnShares = item.Position.DrawnShares.Add(shares)
	item.Dirty, item.PoolDirty = true, true

	if !account.Status.IsBorrowing(reserveID) {
		account.Status.SetBorrowing(reserveID, true)
		account.StatusDirty = true
	}

	data, err := s.accountz.UpdateRiskPremium(ctx, account)
	if err != nil {
		return err
	}
	if data.HealthFactor.LessThan(number.One) {
		return core.ErrHealthFactorTooLow
	}

	// a borrow must not open a debt below the leftover floor
	debt := ledger.PreviewRestoreByShares(item.Pool, item.Position.DrawnShares).Add(ledger.PremiumDebt(item.Pool, item.Position))
	if number.CeilValue(debt.Mul(item.Price)).LessThan(ledger.MinLeftoverValue) {
		return core.ErrRemainingDebtDust
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.accountz.Save(ctx, tx, account); err != nil {
			return err
		}
		event := &core.Event{
			TraceID:   id.GenTraceID(),
			UserID:    onBehalfOf,
			ReserveID: reserveID,
			Action:    core.EventBorrowed,
		}
		return s.events.Save(ctx, tx, event.SetData(map[string]interface{}{
			"caller": caller,
			"amount": amount,
			"shares": shares,
		}))
	})
}

func (s *positionService) Repay(ctx context.Context, caller string, reserveID uint64, amount decimal.Decimal, onBehalfOf string) error {
	if onBehalfOf == "" {
		onBehalfOf = caller
	}
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	// anyone may repay on behalf of anyone
	s.locks.Lock(onBehalfOf)
	defer s.locks.Unlock(onBehalfOf)

	reserve, err := s.findReserve(ctx, reserveID)
	if err != nil {
		return err
	}
	if reserve.Paused {
		return core.ErrReservePaused
	}

	account, err := s.accountz.LoadAccount(ctx, onBehalfOf)
	if err != nil {
		return err
	}
	if !account.Status.IsBorrowing(reserveID) {
		return core.ErrPositionNotFound
	}
	item, err := s.accountz.LoadItem(ctx, account, reserveID)
	if err != nil {
		return err
	}

	position := item.Position
	drawn := ledger.PreviewRestoreByShares(item.Pool, position.DrawnShares)
	ledger.SettlePremium(item.Pool, position)
	total := drawn.Add(position.RealizedPremium)
	if !total.IsPositive() {
		return core.ErrPositionNotFound
	}

	if amount.GreaterThanOrEqual(core.MaxAmount) || amount.GreaterThan(total) {
		amount = total
	}

	// drawn debt first, premium debt with the remainder
	toDrawn := decimal.Min(amount, drawn)
	toPremium := amount.Sub(toDrawn)

	if toDrawn.IsPositive() {
		if toDrawn.Equal(drawn) {
			ledger.RestoreAllLiquidity(item.Pool, position.DrawnShares)
			position.DrawnShares = decimal.Zero
		} else {
			shares, err := ledger.RestoreLiquidity(item.Pool, toDrawn)
			if err != nil {
				return err
			}
			if shares.GreaterThan(position.DrawnShares) {
				shares = position.DrawnShares
			}
			position.DrawnShares = position.DrawnShares.Sub(shares)
		}
	}
	if toPremium.IsPositive() {
		ledger.PayPremium(item.Pool, position, toPremium)
	}
	item.Dirty, item.PoolDirty = true, true

	// never leave a debt sliver below the floor
	remaining := ledger.PreviewRestoreByShares(item.Pool, position.DrawnShares).Add(position.RealizedPremium)
	if remaining.IsPositive() && number.CeilValue(remaining.Mul(item.Price)).LessThan(ledger.MinLeftoverValue) {
		return core.ErrRemainingDebtDust
	}

	if !position.DrawnShares.IsPositive() && !position.RealizedPremium.IsPositive() {
		account.Status.SetBorrowing(reserveID, false)
		account.StatusDirty = true
	}

	if _, err := s.accountz.UpdateRiskPremium(ctx, account); err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.accountz.Save(ctx, tx, account); err != nil {
			return err
		}
		event := &core.Event{
			TraceID:   id.GenTraceID(),
			UserID:    onBehalfOf,
			ReserveID: reserveID,
			Action:    core.EventRepaid,
		}
		return s.events.Save(ctx, tx, event.SetData(map[string]interface{}{
			"caller":  caller,
			"amount":  amount,
			"drawn":   toDrawn,
			"premium": toPremium,
		}))
	})
}

func (s *positionService) SetUsingAsCollateral(ctx context.Context, caller string, reserveID uint64, use bool, onBehalfOf string) error {
	if onBehalfOf == "" {
		onBehalfOf = caller
	}
	if err := s.authorize(ctx, caller, onBehalfOf); err != nil {
		return err
	}

	s.locks.Lock(onBehalfOf)
	defer s.locks.Unlock(onBehalfOf)

	reserve, err := s.findReserve(ctx, reserveID)
	if err != nil {
		return err
	}
	if reserve.Paused {
		return core.ErrReservePaused
	}

	account, err := s.accountz.LoadAccount(ctx, onBehalfOf)
	if err != nil {
		return err
	}
	item, err := s.accountz.LoadItem(ctx, account, reserveID)
	if err != nil {
		return err
	}

	if use {
		if !item.Position.SuppliedShares.IsPositive() {
			return core.ErrInsufficientBalance
		}
		// re-enabling always re-pins to the active config version
		item.Position.ConfigKey = 0
		item.Dirty = true
	}
	if account.Status.IsCollateral(reserveID) != use {
		account.Status.SetCollateral(reserveID, use)
		account.StatusDirty = true
	}

	data, err := s.accountz.UpdateRiskPremium(ctx, account)
	if err != nil {
		return err
	}
	if !use && data.HealthFactor.LessThan(number.One) {
		return core.ErrHealthFactorTooLow
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.accountz.Save(ctx, tx, account); err != nil {
			return err
		}
		event := &core.Event{
			TraceID:   id.GenTraceID(),
			UserID:    onBehalfOf,
			ReserveID: reserveID,
			Action:    core.EventCollateralToggled,
		}
		return s.events.Save(ctx, tx, event.SetData(map[string]interface{}{
			"caller": caller,
			"use":    use,
		}))
	})
}

func (s *positionService) ApprovePositionManager(ctx context.Context, userID, managerID string, active bool) error {
	if userID == managerID || managerID == "" {
		return core.ErrOperationForbidden
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	approval, err := s.approvals.Find(ctx, userID, managerID)
	if err != nil {
		return err
	}
	if approval.Active == active && approval.ID > 0 {
		return nil
	}
	approval.Active = active

	log := logger.FromContext(ctx).WithField("user", userID)
	log.Infof("position manager %s active %v", managerID, active)

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.approvals.Save(ctx, tx, approval); err != nil {
			return err
		}
		event := &core.Event{
			TraceID: id.GenTraceID(),
			UserID:  userID,
			Action:  core.EventApprovalChanged,
		}
		return s.events.Save(ctx, tx, event.SetData(approval))
	})
}

func (s *positionService) authorize(ctx context.Context, caller, userID string) error {
	if caller == userID {
		return nil
	}

	approval, err := s.approvals.Find(ctx, userID, caller)
	if err != nil {
		return err
	}
	if !approval.Active {
		return core.ErrOperationForbidden
	}
	return nil
}

func (s *positionService) findReserve(ctx context.Context, reserveID uint64) (*core.Reserve, error) {
	reserve, err := s.reserves.Find(ctx, reserveID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrReserveNotFound
		}
		return nil, err
	}
	return reserve, nil
}
