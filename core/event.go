package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// event actions consumed by off-chain indexers
const (
	EventReserveListed       = "reserve_listed"
	EventReserveUpdated      = "reserve_updated"
	EventConfigAdded         = "config_added"
	EventConfigUpdated       = "config_updated"
	EventApprovalChanged     = "approval_changed"
	EventSupplied            = "supplied"
	EventWithdrawn           = "withdrawn"
	EventBorrowed            = "borrowed"
	EventRepaid              = "repaid"
	EventCollateralToggled   = "collateral_toggled"
	EventLiquidated          = "liquidated"
	EventDeficitReported     = "deficit_reported"
	EventRiskPremiumUpdated  = "risk_premium_updated"
	EventPriceUpdated        = "price_updated"
	EventUnhealthyAccount    = "unhealthy_account"
	EventPoolAccrued         = "pool_accrued"
)

// Event one journal entry. TraceID is deterministic per logical action so
// replays stay idempotent.
type Event struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID   string    `sql:"size:36;unique_index:event_trace_idx" json:"trace_id"`
	UserID    string    `sql:"size:36;index:event_user_idx" json:"user_id"`
	ReserveID uint64    `json:"reserve_id"`
	Action    string    `sql:"size:32" json:"action"`
	Data      string    `sql:"type:TEXT" json:"data"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// SetData marshals v into the event payload.
func (e *Event) SetData(v interface{}) *Event {
	raw, _ := json.Marshal(v)
	e.Data = string(raw)
	return e
}

// IEventStore event journal interface
type IEventStore interface {
	Save(ctx context.Context, tx *db.DB, event *Event) error
	FindByUser(ctx context.Context, userID string, limit int) ([]*Event, error)
}
