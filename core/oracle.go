package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Price oracle price row, base currency per asset unit.
type Price struct {
	ReserveID uint64          `sql:"PRIMARY_KEY" json:"reserve_id"`
	Price     decimal.Decimal `sql:"type:decimal(20,8)" json:"price"`
	Version   int64           `sql:"default:0" json:"version"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPriceStore price store interface
type IPriceStore interface {
	Save(ctx context.Context, tx *db.DB, price *Price) error
	Find(ctx context.Context, reserveID uint64) (*Price, error)
	All(ctx context.Context) ([]*Price, error)
}

// IPriceOracleService oracle interface consumed by the ledger.
type IPriceOracleService interface {
	GetReservePrice(ctx context.Context, reserveID uint64) (decimal.Decimal, error)
	SetReservePrice(ctx context.Context, reserveID uint64, price decimal.Decimal) error
}
