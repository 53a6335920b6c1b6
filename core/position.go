package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Position per-user per-reserve balances. Created on first use, zeroed but
// never deleted.
type Position struct {
	ID        uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string `sql:"size:36;unique_index:position_idx" json:"user_id"`
	ReserveID uint64 `sql:"unique_index:position_idx" json:"reserve_id"`

	SuppliedShares decimal.Decimal `sql:"type:decimal(32,16)" json:"supplied_shares"`
	DrawnShares    decimal.Decimal `sql:"type:decimal(32,16)" json:"drawn_shares"`

	// Premium debt is previewRestore(PremiumShares) - PremiumOffset +
	// RealizedPremium; the offset pins the share count to the draw index
	// at the moment the premium was last set.
	PremiumShares   decimal.Decimal `sql:"type:decimal(32,16)" json:"premium_shares"`
	PremiumOffset   decimal.Decimal `sql:"type:decimal(32,16)" json:"premium_offset"`
	RealizedPremium decimal.Decimal `sql:"type:decimal(32,16)" json:"realized_premium"`

	// ConfigKey pins the position to a dynamic config version; refreshed
	// only when exposure changes or collateral is re-enabled.
	ConfigKey uint16 `sql:"default:0" json:"config_key"`

	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPositionStore position store interface. Find returns a fresh zero
// position (ID == 0) when none exists yet.
type IPositionStore interface {
	Find(ctx context.Context, userID string, reserveID uint64) (*Position, error)
	FindByUser(ctx context.Context, userID string) ([]*Position, error)
	Save(ctx context.Context, tx *db.DB, position *Position) error
	Borrowers(ctx context.Context) ([]string, error)

	FindStatus(ctx context.Context, userID string) (*PositionStatus, error)
	SaveStatus(ctx context.Context, tx *db.DB, status *PositionStatus) error
}

// IPositionService state-mutating ledger entry points. Amounts may be
// MaxAmount to mean "as much as possible" where noted.
type IPositionService interface {
	Supply(ctx context.Context, caller string, reserveID uint64, amount decimal.Decimal, onBehalfOf string) error
	Withdraw(ctx context.Context, caller string, reserveID uint64, amount decimal.Decimal, onBehalfOf string) error
	Borrow(ctx context.Context, caller string, reserveID uint64, amount decimal.Decimal, onBehalfOf string) error
	Repay(ctx context.Context, caller string, reserveID uint64, amount decimal.Decimal, onBehalfOf string) error
	SetUsingAsCollateral(ctx context.Context, caller string, reserveID uint64, use bool, onBehalfOf string) error
	ApprovePositionManager(ctx context.Context, userID, managerID string, active bool) error
}

// MaxAmount requests the full available balance.
var MaxAmount = decimal.New(1, 30)
