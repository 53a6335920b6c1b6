package liquidation

import (
	"context"

	"colend/core"
	"colend/internal/ledger"
	"colend/pkg/concurrency"
	"colend/pkg/id"
	"colend/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type liquidationService struct {
	db       *db.DB
	events   core.IEventStore
	configs  core.ILiquidationConfigStore
	accountz core.IAccountService
	locks    *concurrency.KeyedMutex
}

// New new liquidation service
func New(
	db *db.DB,
	events core.IEventStore,
	configs core.ILiquidationConfigStore,
	accountz core.IAccountService,
) core.ILiquidationService {
	return &liquidationService{
		db:       db,
		events:   events,
		configs:  configs,
		accountz: accountz,
		locks:    concurrency.NewKeyedMutex(),
	}
}

func (s *liquidationService) Liquidate(ctx context.Context, liquidator string, collateralReserveID, debtReserveID uint64, userID string, debtToCover decimal.Decimal) (*core.LiquidationResult, error) {
	if !debtToCover.IsPositive() {
		return nil, core.ErrInvalidAmount
	}
	if liquidator == userID {
		return nil, core.ErrOperationForbidden
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	account, err := s.accountz.LoadAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	status := account.Status

	if !status.IsCollateral(collateralReserveID) {
		return nil, core.ErrNotCollateral
	}
	if !status.IsBorrowing(debtReserveID) {
		return nil, core.ErrPositionNotFound
	}

	collateralItem := account.Item(collateralReserveID)
	debtItem := account.Item(debtReserveID)
	if collateralItem.Reserve.Paused || debtItem.Reserve.Paused {
		return nil, core.ErrReservePaused
	}
	if !collateralItem.Config.CollateralFactor.IsPositive() {
		return nil, core.ErrNotCollateral
	}

	// the whole plan runs against this one snapshot
	data := s.accountz.Data(account)
	if data.HealthFactor.GreaterThanOrEqual(number.One) {
		return nil, core.ErrHealthyPosition
	}

	config, err := s.configs.Get(ctx)
	if err != nil {
		return nil, err
	}
	bonus := ledger.VariableBonus(data.HealthFactor, collateralItem.Config.LiquidationBonus, *config)

	debtPosition := debtItem.Position
	drawn := ledger.PreviewRestoreByShares(debtItem.Pool, debtPosition.DrawnShares)
	debtBalance := drawn.Add(ledger.PremiumDebt(debtItem.Pool, debtPosition))
	collateralBalance := ledger.PreviewRemoveByShares(collateralItem.Pool, collateralItem.Position.SuppliedShares)

	plan, err := ledger.PlanLiquidation(ledger.PlanInput{
		RequestedCover:       debtToCover,
		HealthFactor:         data.HealthFactor,
		TotalDebtValue:       data.TotalDebtValue,
		TotalCollateralValue: data.TotalCollateralValue,
		DebtBalance:          debtBalance,
		DebtPrice:            debtItem.Price,
		CollateralBalance:    collateralBalance,
		CollateralPrice:      collateralItem.Price,
		CollateralFactor:     collateralItem.Config.CollateralFactor,
		LiquidationBonus:     bonus,
		LiquidationFee:       collateralItem.Config.LiquidationFee,
		CloseFactor:          config.CloseFactor,
		OnlyCollateral:       status.CollateralCount(^uint64(0)) == 1,
	})
	if err != nil {
		return nil, err
	}

	// debt side: drawn debt first, premium debt with the remainder
	toDrawn := decimal.Min(plan.DebtCovered, drawn)
	ledger.SettlePremium(debtItem.Pool, debtPosition)
	toPremium := plan.DebtCovered.Sub(toDrawn)

	if toDrawn.IsPositive() {
		if toDrawn.Equal(drawn) {
			ledger.RestoreAllLiquidity(debtItem.Pool, debtPosition.DrawnShares)
			debtPosition.DrawnShares = decimal.Zero
		} else {
			shares, err := ledger.RestoreLiquidity(debtItem.Pool, toDrawn)
			if err != nil {
				return nil, err
			}
			if shares.GreaterThan(debtPosition.DrawnShares) {
				shares = debtPosition.DrawnShares
			}
			debtPosition.DrawnShares = debtPosition.DrawnShares.Sub(shares)
		}
	}
	if toPremium.IsPositive() {
		ledger.PayPremium(debtItem.Pool, debtPosition, toPremium)
	}
	debtItem.Dirty, debtItem.PoolDirty = true, true

	if !debtPosition.DrawnShares.IsPositive() && !debtPosition.RealizedPremium.IsPositive() {
		status.SetBorrowing(debtReserveID, false)
		account.StatusDirty = true
	}

	// collateral side: the liquidator's part leaves as cash, the fee part
	// stays behind as protocol shares
	liquidatorAmount := plan.CollateralSeized.Sub(plan.FeeAmount)
	collateralPosition := collateralItem.Position

	var feeShares decimal.Decimal
	if plan.SeizedAll {
		burned, err := ledger.RemoveLiquidity(collateralItem.Pool, liquidatorAmount)
		if err != nil {
			return nil, err
		}
		feeShares = collateralPosition.SuppliedShares.Sub(burned)
		if feeShares.IsNegative() {
			feeShares = decimal.Zero
		}
		collateralPosition.SuppliedShares = decimal.Zero
	} else {
		burned, err := ledger.RemoveLiquidity(collateralItem.Pool, liquidatorAmount)
		if err != nil {
			return nil, err
		}
		if liquidatorAmount.IsPositive() {
			feeShares = number.FloorValue(burned.Mul(plan.FeeAmount).Div(liquidatorAmount))
		}
		taken := burned.Add(feeShares)
		if taken.GreaterThan(collateralPosition.SuppliedShares) {
			taken = collateralPosition.SuppliedShares
		}
		collateralPosition.SuppliedShares = collateralPosition.SuppliedShares.Sub(taken)
	}
	ledger.PayFee(collateralItem.Pool, feeShares)
	collateralItem.Dirty, collateralItem.PoolDirty = true, true

	if !collateralPosition.SuppliedShares.IsPositive() && status.IsCollateral(collateralReserveID) {
		status.SetCollateral(collateralReserveID, false)
		account.StatusDirty = true
	}

	result := &core.LiquidationResult{
		UserID:            userID,
		Liquidator:        liquidator,
		CollateralReserve: collateralReserveID,
		DebtReserve:       debtReserveID,
		DebtCovered:       plan.DebtCovered,
		CollateralSeized:  plan.CollateralSeized,
		Bonus:             bonus,
		FeeAmount:         plan.FeeAmount,
		Deficit:           plan.Deficit,
		DeficitAmount:     decimal.Zero,
	}

	var deficitEvents []*core.Event
	if plan.Deficit {
		// the last collateral is gone; whatever debt survived the cover
		// is unrecoverable and gets written off reserve by reserve
		cursor := ^uint64(0)
		for {
			rid, ok := status.NextBorrowing(cursor)
			if !ok {
				break
			}
			item := account.Item(rid)
			position := item.Position
			ledger.SettlePremium(item.Pool, position)
			drawnOff, premiumOff := ledger.ReportDeficit(item.Pool, position)
			value := number.CeilValue(drawnOff.Add(premiumOff).Mul(item.Price))
			result.DeficitAmount = result.DeficitAmount.Add(value)

			item.Dirty, item.PoolDirty = true, true
			status.SetBorrowing(rid, false)

			event := &core.Event{
				TraceID:   id.GenTraceID(),
				UserID:    userID,
				ReserveID: rid,
				Action:    core.EventDeficitReported,
			}
			deficitEvents = append(deficitEvents, event.SetData(map[string]interface{}{
				"drawn":   drawnOff,
				"premium": premiumOff,
				"value":   value,
			}))

			if rid == 0 {
				break
			}
			cursor = rid - 1
		}
		status.HasPremium = false
		account.StatusDirty = true
	} else {
		if _, err := s.accountz.UpdateRiskPremium(ctx, account); err != nil {
			return nil, err
		}
	}

	log := logger.FromContext(ctx).WithField("user", userID)
	log.Infof("liquidated by %s: covered %s seized %s deficit %v", liquidator, plan.DebtCovered, plan.CollateralSeized, plan.Deficit)

	if err := s.db.Tx(func(tx *db.DB) error {
		if err := s.accountz.Save(ctx, tx, account); err != nil {
			return err
		}

		event := &core.Event{
			TraceID:   id.GenTraceID(),
			UserID:    userID,
			ReserveID: debtReserveID,
			Action:    core.EventLiquidated,
		}
		if err := s.events.Save(ctx, tx, event.SetData(result)); err != nil {
			return err
		}
		for _, event := range deficitEvents {
			if err := s.events.Save(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}
