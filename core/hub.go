package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Pool share-accounted liquidity of one asset, one row per asset. All share
// <-> amount conversions derive from this row; the conversion arithmetic
// itself is pure and lives outside the store layer, so a service loads the
// pool once, mutates it in memory and writes it back with the version guard.
type Pool struct {
	ID      uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID string `sql:"size:36;unique_index:pool_asset_idx" json:"asset_id"`

	TotalCash        decimal.Decimal `sql:"type:decimal(32,16)" json:"total_cash"`
	TotalShares      decimal.Decimal `sql:"type:decimal(32,16)" json:"total_shares"`
	TotalDrawnAssets decimal.Decimal `sql:"type:decimal(32,16)" json:"total_drawn_assets"`
	TotalDrawnShares decimal.Decimal `sql:"type:decimal(32,16)" json:"total_drawn_shares"`

	PremiumShares   decimal.Decimal `sql:"type:decimal(32,16)" json:"premium_shares"`
	PremiumOffset   decimal.Decimal `sql:"type:decimal(32,16)" json:"premium_offset"`
	RealizedPremium decimal.Decimal `sql:"type:decimal(32,16)" json:"realized_premium"`

	FeeShares decimal.Decimal `sql:"type:decimal(32,16)" json:"fee_shares"`
	Deficit   decimal.Decimal `sql:"type:decimal(32,16)" json:"deficit"`

	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPoolStore pool store interface
type IPoolStore interface {
	Save(ctx context.Context, tx *db.DB, pool *Pool) error
	Find(ctx context.Context, assetID string) (*Pool, error)
	All(ctx context.Context) ([]*Pool, error)
	Update(ctx context.Context, tx *db.DB, pool *Pool) error
}

// IHubService loads and persists pools and carries the governance surface.
// Interest accrual moves both exchange rates; rate curves stay outside this
// repo.
type IHubService interface {
	// Pool returns the asset's pool, or a fresh zero pool if none exists.
	Pool(ctx context.Context, assetID string) (*Pool, error)
	// SavePool creates the pool row or updates it with the version guard.
	SavePool(ctx context.Context, tx *db.DB, pool *Pool) error
	// Accrue adds interest to the drawn side of the pool.
	Accrue(ctx context.Context, assetID string, interest decimal.Decimal) error
}
