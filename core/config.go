package core

import (
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Config colend config
type Config struct {
	App         App               `json:"app"`
	DB          db.Config         `json:"db"`
	Liquidation LiquidationConfig `json:"liquidation"`
}

// App app config
type App struct {
	Location string `json:"location"`
	// PriceTTL seconds an oracle price stays cached.
	PriceTTL int64 `json:"price_ttl"`
	// SentinelInterval cron spec for the unhealthy-account scan.
	SentinelInterval string `json:"sentinel_interval"`
}

// DefaultLiquidation fills unset liquidation knobs.
func (c *Config) DefaultLiquidation() {
	if c.Liquidation.CloseFactor.IsZero() {
		c.Liquidation.CloseFactor = decimal.RequireFromString("1.05")
	}
	if c.Liquidation.HealthFactorForMaxBonus.IsZero() {
		c.Liquidation.HealthFactorForMaxBonus = decimal.RequireFromString("0.95")
	}
	if c.Liquidation.BonusFactor.IsZero() {
		c.Liquidation.BonusFactor = decimal.New(1, 0)
	}
}
