package ledger

import (
	"testing"

	"colend/core"
	"colend/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLiqConfig = core.LiquidationConfig{
	CloseFactor:             number.Decimal("1.05"),
	HealthFactorForMaxBonus: number.Decimal("0.95"),
	BonusFactor:             number.Decimal("1"),
}

func TestVariableBonus(t *testing.T) {
	maxBonus := number.Decimal("1.05")

	// barely unhealthy: bonus barely above 1
	b := VariableBonus(number.Decimal("0.999"), maxBonus, testLiqConfig)
	assert.True(t, b.GreaterThan(number.Decimal("1")))
	assert.True(t, b.LessThan(maxBonus))

	// at the saturation point and below: full bonus
	assert.True(t, VariableBonus(number.Decimal("0.95"), maxBonus, testLiqConfig).Equal(maxBonus))
	assert.True(t, VariableBonus(number.Decimal("0.5"), maxBonus, testLiqConfig).Equal(maxBonus))

	// healthy input clamps to no bonus
	assert.True(t, VariableBonus(number.Decimal("1.2"), maxBonus, testLiqConfig).Equal(number.Decimal("1")))

	// half the factor halves the slope
	half := testLiqConfig
	half.BonusFactor = number.Decimal("0.5")
	assert.True(t, VariableBonus(number.Decimal("0.5"), maxBonus, half).Equal(number.Decimal("1.025")))
}

func TestPlanLiquidationPartialCover(t *testing.T) {
	in := PlanInput{
		RequestedCover:       core.MaxAmount,
		HealthFactor:         number.Decimal("0.97561"),
		TotalDebtValue:       number.Decimal("8200"),
		TotalCollateralValue: number.Decimal("10000"),
		DebtBalance:          number.Decimal("8200"),
		DebtPrice:            number.Decimal("1"),
		CollateralBalance:    number.Decimal("100"),
		CollateralPrice:      number.Decimal("100"),
		CollateralFactor:     number.Decimal("0.8"),
		LiquidationBonus:     VariableBonus(number.Decimal("0.97561"), number.Decimal("1.05"), testLiqConfig),
		LiquidationFee:       number.Decimal("0.1"),
		CloseFactor:          testLiqConfig.CloseFactor,
	}

	plan, err := PlanLiquidation(in)
	require.NoError(t, err)

	assert.False(t, plan.SeizedAll)
	assert.False(t, plan.Deficit)
	assert.True(t, plan.DebtCovered.LessThan(in.DebtBalance))

	// replay the balances: the close factor must not be overshot and the
	// health factor must improve
	debtAfter := in.TotalDebtValue.Sub(plan.DebtCovered)
	collateralAfter := in.CollateralBalance.Sub(plan.CollateralSeized)
	acc := Compute([]Entry{
		{
			ReserveID:         1,
			Collateral:        true,
			CollateralBalance: collateralAfter,
			Price:             in.CollateralPrice,
			CollateralFactor:  in.CollateralFactor,
		},
		{
			ReserveID:   2,
			Borrowing:   true,
			DebtBalance: debtAfter,
			Price:       in.DebtPrice,
		},
	})

	tolerance := number.Decimal("0.0001")
	assert.True(t, acc.HealthFactor.LessThanOrEqual(in.CloseFactor.Add(tolerance)),
		"health factor %s overshot close factor", acc.HealthFactor)
	assert.True(t, acc.HealthFactor.GreaterThan(in.HealthFactor),
		"health factor %s did not improve", acc.HealthFactor)
	// within rounding the target is actually reached
	assert.True(t, acc.HealthFactor.GreaterThan(in.CloseFactor.Sub(tolerance)))
}

func TestPlanLiquidationSeizeAll(t *testing.T) {
	// the worked scenario: collateral halved, full cover requested
	in := PlanInput{
		RequestedCover:       core.MaxAmount,
		HealthFactor:         number.Decimal("0.7625"),
		TotalDebtValue:       number.Decimal("40000"),
		TotalCollateralValue: number.Decimal("35000"),
		DebtBalance:          number.Decimal("40000"),
		DebtPrice:            number.Decimal("1"),
		CollateralBalance:    number.Decimal("1"),
		CollateralPrice:      number.Decimal("25000"),
		CollateralFactor:     number.Decimal("0.9"),
		LiquidationBonus:     number.Decimal("1.05"),
		LiquidationFee:       number.Decimal("0.1"),
		CloseFactor:          testLiqConfig.CloseFactor,
		OnlyCollateral:       false, // the tier-0 reserve remains
	}

	plan, err := PlanLiquidation(in)
	require.NoError(t, err)

	assert.True(t, plan.SeizedAll)
	assert.False(t, plan.Deficit)
	assert.Equal(t, "1", plan.CollateralSeized.String())
	assert.Equal(t, "25000", plan.CollateralValue.String())
	// debt restored is the collateral value shrunk by the bonus
	assert.Equal(t, "23809.52380952", plan.DebtCovered.String())
	assert.True(t, plan.FeeAmount.IsPositive())
	assert.True(t, plan.FeeAmount.LessThan(plan.CollateralSeized))
}

func TestPlanLiquidationDeficit(t *testing.T) {
	in := PlanInput{
		RequestedCover:       core.MaxAmount,
		HealthFactor:         number.Decimal("0.5"),
		TotalDebtValue:       number.Decimal("2000"),
		TotalCollateralValue: number.Decimal("1000"),
		DebtBalance:          number.Decimal("2000"),
		DebtPrice:            number.Decimal("1"),
		CollateralBalance:    number.Decimal("1000"),
		CollateralPrice:      number.Decimal("1"),
		CollateralFactor:     number.Decimal("0.8"),
		LiquidationBonus:     number.Decimal("1.05"),
		LiquidationFee:       decimal.Zero,
		CloseFactor:          testLiqConfig.CloseFactor,
		OnlyCollateral:       true,
	}

	plan, err := PlanLiquidation(in)
	require.NoError(t, err)

	assert.True(t, plan.SeizedAll)
	assert.True(t, plan.Deficit, "insolvent account with its last collateral drained must leave a deficit")
}

func TestPlanLiquidationDustPolicy(t *testing.T) {
	base := PlanInput{
		HealthFactor:         number.Decimal("0.5"),
		TotalDebtValue:       number.Decimal("1000"),
		TotalCollateralValue: number.Decimal("1100"),
		DebtBalance:          number.Decimal("1000"),
		DebtPrice:            number.Decimal("1"),
		CollateralBalance:    number.Decimal("10000"),
		CollateralPrice:      number.Decimal("1"),
		CollateralFactor:     number.Decimal("0.5"),
		LiquidationBonus:     number.Decimal("1.05"),
		LiquidationFee:       decimal.Zero,
		CloseFactor:          number.Decimal("1.05"),
	}

	// covering 950 of 1000 would leave a 50 sliver: refused
	in := base
	in.RequestedCover = number.Decimal("950")
	_, err := PlanLiquidation(in)
	assert.Equal(t, core.ErrRemainingDebtDust, err)

	// a tiny request against a tiny remaining debt closes it outright
	in = base
	in.TotalDebtValue = number.Decimal("50")
	in.DebtBalance = number.Decimal("50")
	in.RequestedCover = number.Decimal("40")
	plan, err := PlanLiquidation(in)
	require.NoError(t, err)
	assert.Equal(t, "50", plan.DebtCovered.String())

	// unlimited cover swallows the whole balance, no sliver possible
	in = base
	in.RequestedCover = core.MaxAmount
	plan, err = PlanLiquidation(in)
	require.NoError(t, err)
	assert.Equal(t, "1000", plan.DebtCovered.String())
}

func TestDebtToTargetSaturates(t *testing.T) {
	in := PlanInput{
		RequestedCover:       number.Decimal("500"),
		HealthFactor:         number.Decimal("0.9"),
		TotalDebtValue:       number.Decimal("10000"),
		TotalCollateralValue: number.Decimal("11000"),
		DebtBalance:          number.Decimal("10000"),
		DebtPrice:            number.Decimal("1"),
		CollateralFactor:     number.Decimal("0.95"),
		// penalty 1.2*0.95 = 1.14 > close factor: target unreachable
		LiquidationBonus: number.Decimal("1.2"),
		CloseFactor:      number.Decimal("1.05"),
	}

	assert.True(t, debtToTargetAmount(in).Equal(core.MaxAmount))
}
