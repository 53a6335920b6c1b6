package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Reserve one listed asset. Identity fields are immutable after listing;
// flags and risk are governance-mutable.
type Reserve struct {
	ID       uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID  string `sql:"size:36;unique_index:asset_idx" json:"asset_id"`
	Symbol   string `sql:"size:20;unique_index:symbol_idx" json:"symbol"`
	Decimals int32  `json:"decimals"`

	Paused     bool `sql:"default:0" json:"paused"`
	Frozen     bool `sql:"default:0" json:"frozen"`
	Borrowable bool `sql:"default:1" json:"borrowable"`

	// CollateralRisk contributes to the borrower's risk premium when the
	// reserve backs debt, as a rate (0 .. 10 == 0% .. 1000%).
	CollateralRisk decimal.Decimal `sql:"type:decimal(20,8)" json:"collateral_risk"`

	// ActiveConfigKey is the dynamic config version new exposure gets
	// pinned to. Open positions keep their own pin until refreshed.
	ActiveConfigKey uint16 `sql:"default:0" json:"active_config_key"`

	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ReserveConfig one dynamic config version, keyed by an incrementing
// 16-bit key per reserve. Versions are never deleted: a position pinned to
// a retired key must still resolve it.
type ReserveConfig struct {
	ID        uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	ReserveID uint64 `sql:"unique_index:reserve_key_idx" json:"reserve_id"`
	Key       uint16 `sql:"unique_index:reserve_key_idx" json:"key"`

	// CollateralFactor fraction of collateral value usable as borrowing
	// power, < 1.
	CollateralFactor decimal.Decimal `sql:"type:decimal(20,8)" json:"collateral_factor"`
	// LiquidationBonus max discount on seized collateral, >= 1.
	LiquidationBonus decimal.Decimal `sql:"type:decimal(20,8)" json:"liquidation_bonus"`
	// LiquidationFee protocol share of the bonus portion, <= 1.
	LiquidationFee decimal.Decimal `sql:"type:decimal(20,8)" json:"liquidation_fee"`

	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Validate checks the compatibility invariant that guarantees liquidation
// headroom: bonus * collateralFactor < 1.
func (c *ReserveConfig) Validate() error {
	if c.CollateralFactor.IsNegative() || c.CollateralFactor.GreaterThanOrEqual(decimal.New(1, 0)) {
		return ErrInvalidConfig
	}
	if c.LiquidationBonus.LessThan(decimal.New(1, 0)) {
		return ErrInvalidConfig
	}
	if c.LiquidationFee.IsNegative() || c.LiquidationFee.GreaterThan(decimal.New(1, 0)) {
		return ErrInvalidConfig
	}
	if c.LiquidationBonus.Mul(c.CollateralFactor).GreaterThanOrEqual(decimal.New(1, 0)) {
		return ErrInvalidConfig
	}
	return nil
}

// IReserveStore reserve store interface
type IReserveStore interface {
	Create(ctx context.Context, tx *db.DB, reserve *Reserve) error
	Find(ctx context.Context, id uint64) (*Reserve, error)
	FindByAsset(ctx context.Context, assetID string) (*Reserve, error)
	FindBySymbol(ctx context.Context, symbol string) (*Reserve, error)
	All(ctx context.Context) ([]*Reserve, error)
	Count(ctx context.Context) (uint64, error)
	Update(ctx context.Context, tx *db.DB, reserve *Reserve) error

	CreateConfig(ctx context.Context, tx *db.DB, config *ReserveConfig) error
	FindConfig(ctx context.Context, reserveID uint64, key uint16) (*ReserveConfig, error)
	AllConfigs(ctx context.Context, reserveID uint64) ([]*ReserveConfig, error)
	UpdateConfig(ctx context.Context, tx *db.DB, config *ReserveConfig) error
}

// IReserveService reserve governance interface
type IReserveService interface {
	ListReserve(ctx context.Context, reserve *Reserve, config *ReserveConfig) (*Reserve, error)
	UpdateFlags(ctx context.Context, reserveID uint64, paused, frozen, borrowable bool) error
	SetCollateralRisk(ctx context.Context, reserveID uint64, risk decimal.Decimal) error
	AddConfigVersion(ctx context.Context, reserveID uint64, config *ReserveConfig) (*ReserveConfig, error)
	UpdateConfigVersion(ctx context.Context, reserveID uint64, key uint16, collateralFactor decimal.Decimal) error
}
