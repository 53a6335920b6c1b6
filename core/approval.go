package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Approval lets a manager act on a user's positions. Revoked rows are kept
// inactive rather than deleted.
type Approval struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string    `sql:"size:36;unique_index:approval_idx" json:"user_id"`
	ManagerID string    `sql:"size:36;unique_index:approval_idx" json:"manager_id"`
	Active    bool      `sql:"default:0" json:"active"`
	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IApprovalStore approval store interface
type IApprovalStore interface {
	Save(ctx context.Context, tx *db.DB, approval *Approval) error
	Find(ctx context.Context, userID, managerID string) (*Approval, error)
	FindByUser(ctx context.Context, userID string) ([]*Approval, error)
}
