package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// LiquidationConfig global knobs for the variable liquidation bonus.
type LiquidationConfig struct {
	// CloseFactor target health factor a liquidation restores, >= 1.
	CloseFactor decimal.Decimal `json:"close_factor"`
	// HealthFactorForMaxBonus health factor at which the bonus saturates
	// at the reserve's max, < 1.
	HealthFactorForMaxBonus decimal.Decimal `json:"health_factor_for_max_bonus"`
	// BonusFactor scales the variable bonus between 1 and max, in [0, 1].
	BonusFactor decimal.Decimal `json:"bonus_factor"`
}

// Validate validate config
func (c *LiquidationConfig) Validate() error {
	one := decimal.New(1, 0)
	if c.CloseFactor.LessThan(one) {
		return ErrInvalidConfig
	}
	if !c.HealthFactorForMaxBonus.IsPositive() || c.HealthFactorForMaxBonus.GreaterThanOrEqual(one) {
		return ErrInvalidConfig
	}
	if c.BonusFactor.IsNegative() || c.BonusFactor.GreaterThan(one) {
		return ErrInvalidConfig
	}
	return nil
}

// ILiquidationConfigStore liquidation config store interface
type ILiquidationConfigStore interface {
	Get(ctx context.Context) (*LiquidationConfig, error)
	Set(ctx context.Context, config *LiquidationConfig) error
}

// LiquidationResult what a liquidation actually moved.
type LiquidationResult struct {
	UserID            string          `json:"user_id"`
	Liquidator        string          `json:"liquidator"`
	CollateralReserve uint64          `json:"collateral_reserve"`
	DebtReserve       uint64          `json:"debt_reserve"`
	DebtCovered       decimal.Decimal `json:"debt_covered"`
	CollateralSeized  decimal.Decimal `json:"collateral_seized"`
	Bonus             decimal.Decimal `json:"bonus"`
	FeeAmount         decimal.Decimal `json:"fee_amount"`
	Deficit           bool            `json:"deficit"`
	DeficitAmount     decimal.Decimal `json:"deficit_amount"`
}

// ILiquidationService liquidation engine interface
type ILiquidationService interface {
	// Liquidate covers up to debtToCover of the user's debt on the debt
	// reserve against their collateral reserve. debtToCover may be
	// MaxAmount.
	Liquidate(ctx context.Context, liquidator string, collateralReserveID, debtReserveID uint64, userID string, debtToCover decimal.Decimal) (*LiquidationResult, error)
}
