package ledger

import (
	"colend/core"
	"colend/pkg/number"

	"github.com/shopspring/decimal"
)

// MinLeftoverValue base-currency floor below which a reserve's debt must
// not be left non-zero after a liquidation.
var MinLeftoverValue = decimal.New(100, 0)

var one = decimal.New(1, 0)

// VariableBonus scales the liquidation bonus between 1 and maxBonus as the
// health factor falls from 1 towards hfForMaxBonus.
func VariableBonus(healthFactor, maxBonus decimal.Decimal, cfg core.LiquidationConfig) decimal.Decimal {
	span := one.Sub(cfg.HealthFactorForMaxBonus)
	if !span.IsPositive() {
		return maxBonus
	}
	t := number.Clamp(one.Sub(healthFactor).DivRound(span, 16), decimal.Zero, one)
	bonus := one.Add(maxBonus.Sub(one).Mul(cfg.BonusFactor).Mul(t))
	if bonus.GreaterThan(maxBonus) {
		return maxBonus
	}
	return bonus
}

// PlanInput snapshot of everything the engine needs, taken once at the
// start of the operation and treated as immutable.
type PlanInput struct {
	// RequestedCover debt asset amount the liquidator wants to cover; may
	// be core.MaxAmount.
	RequestedCover decimal.Decimal

	HealthFactor         decimal.Decimal
	TotalDebtValue       decimal.Decimal
	TotalCollateralValue decimal.Decimal

	// DebtBalance the user's drawn plus premium debt on the reserve being
	// covered, in asset units.
	DebtBalance decimal.Decimal
	DebtPrice   decimal.Decimal

	// CollateralBalance the user's supplied balance on the seized reserve.
	CollateralBalance decimal.Decimal
	CollateralPrice   decimal.Decimal

	CollateralFactor decimal.Decimal
	LiquidationBonus decimal.Decimal
	LiquidationFee   decimal.Decimal

	CloseFactor decimal.Decimal

	// OnlyCollateral whether the seized reserve is the user's last active
	// collateral.
	OnlyCollateral bool
}

// Plan what the liquidation will move.
type Plan struct {
	// DebtCovered debt asset amount actually restored.
	DebtCovered decimal.Decimal
	DebtValue   decimal.Decimal
	// CollateralSeized collateral asset amount taken from the user,
	// protocol fee included.
	CollateralSeized decimal.Decimal
	CollateralValue  decimal.Decimal
	// FeeAmount protocol share of CollateralSeized.
	FeeAmount decimal.Decimal

	SeizedAll bool
	Deficit   bool
}

// PlanLiquidation runs steps 1-6 of the liquidation algorithm: target debt,
// dust policy, collateral matching with the bonus, fee split and deficit
// classification. Pure; the caller has already checked preconditions.
func PlanLiquidation(in PlanInput) (*Plan, error) {
	debtToTarget := debtToTargetAmount(in)

	actual := in.RequestedCover
	if in.DebtBalance.LessThan(actual) {
		actual = in.DebtBalance
	}
	if debtToTarget.LessThan(actual) {
		actual = debtToTarget
	}
	if !actual.IsPositive() {
		return nil, core.ErrInvalidAmount
	}

	// never leave a debt sliver below the floor
	leftover := in.DebtBalance.Sub(actual)
	if leftover.IsPositive() {
		leftoverValue := number.CeilValue(leftover.Mul(in.DebtPrice))
		if leftoverValue.LessThan(MinLeftoverValue) {
			requestedValue := number.CeilValue(in.RequestedCover.Mul(in.DebtPrice))
			if in.RequestedCover.Equal(actual) && requestedValue.GreaterThanOrEqual(MinLeftoverValue) {
				return nil, core.ErrRemainingDebtDust
			}
			actual = in.DebtBalance
		}
	}

	plan := &Plan{}
	plan.DebtValue = number.CeilValue(actual.Mul(in.DebtPrice))
	plan.CollateralValue = plan.DebtValue.Mul(in.LiquidationBonus)
	// the extra unit keeps the post-liquidation health factor at or below
	// the close factor despite rounding
	plan.CollateralSeized = number.DivFloor(plan.CollateralValue, in.CollateralPrice).Add(number.Unit)

	if plan.CollateralSeized.GreaterThanOrEqual(in.CollateralBalance) {
		plan.SeizedAll = true
		plan.CollateralSeized = in.CollateralBalance
		plan.CollateralValue = number.FloorValue(in.CollateralBalance.Mul(in.CollateralPrice))
		plan.DebtValue = number.DivFloor(plan.CollateralValue, in.LiquidationBonus)
		actual = number.DivFloor(plan.DebtValue, in.DebtPrice)
	}
	plan.DebtCovered = actual

	base := number.DivFloor(plan.CollateralSeized, in.LiquidationBonus)
	plan.FeeAmount = number.FloorValue(in.LiquidationFee.Mul(plan.CollateralSeized.Sub(base)))

	if plan.SeizedAll && in.OnlyCollateral {
		insolvent := in.TotalCollateralValue.LessThan(in.TotalDebtValue)
		worsens := in.LiquidationBonus.Mul(in.CollateralFactor).GreaterThan(in.HealthFactor)
		plan.Deficit = insolvent || worsens
	}

	return plan, nil
}

// debtToTargetAmount the debt amount whose removal brings the health factor
// exactly to the close factor, saturating when the penalty makes the target
// unreachable.
func debtToTargetAmount(in PlanInput) decimal.Decimal {
	penalty := in.LiquidationBonus.Mul(in.CollateralFactor)
	den := in.CloseFactor.Sub(penalty)
	if !den.IsPositive() {
		return core.MaxAmount
	}
	num := in.CloseFactor.Sub(in.HealthFactor)
	if !num.IsPositive() {
		return decimal.Zero
	}
	value := in.TotalDebtValue.Mul(num).DivRound(den, number.ValuePrecision+4)
	return number.DivFloor(value, in.DebtPrice)
}
