package core

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// AccountData derived view over a user's flagged reserves; recomputed on
// demand, never persisted.
type AccountData struct {
	UserID               string          `json:"user_id"`
	TotalCollateralValue decimal.Decimal `json:"total_collateral_value"`
	TotalDebtValue       decimal.Decimal `json:"total_debt_value"`
	AvgCollateralFactor  decimal.Decimal `json:"avg_collateral_factor"`
	HealthFactor         decimal.Decimal `json:"health_factor"`
	RiskPremium          decimal.Decimal `json:"risk_premium"`
	CollateralCount      int             `json:"collateral_count"`
	BorrowCount          int             `json:"borrow_count"`
}

// AccountItem one reserve of a loaded account: the reserve, the config the
// position is pinned to, the position, its pool and the current price.
// Mutations happen on these structs in memory; Dirty marks what Save writes.
type AccountItem struct {
	Reserve  *Reserve
	Config   *ReserveConfig
	Position *Position
	Pool     *Pool
	Price    decimal.Decimal

	Dirty     bool
	PoolDirty bool
}

// UserAccount snapshot of everything needed to evaluate and mutate one
// user's account. Loaded before the tx, written once inside it.
type UserAccount struct {
	UserID string
	Status *PositionStatus
	Items  []*AccountItem

	StatusDirty bool
}

// Item the loaded item for reserveID, or nil.
func (a *UserAccount) Item(reserveID uint64) *AccountItem {
	for _, item := range a.Items {
		if item.Reserve.ID == reserveID {
			return item
		}
	}
	return nil
}

// IAccountService computes account data and maintains premium debt over
// UserAccount snapshots.
type IAccountService interface {
	// LoadAccount reads the status and every flagged reserve's item.
	LoadAccount(ctx context.Context, userID string) (*UserAccount, error)
	// LoadItem returns the account's item for reserveID, loading and
	// attaching it first if the reserve carries no flag yet.
	LoadItem(ctx context.Context, account *UserAccount, reserveID uint64) (*AccountItem, error)
	// Data evaluates the snapshot with each position's pinned config.
	Data(account *UserAccount) *AccountData
	// UpdateRiskPremium re-pins every item to its reserve's active config,
	// recomputes the risk premium and rewrites the premium shares and
	// offset of every borrowed reserve at the new rate.
	UpdateRiskPremium(ctx context.Context, account *UserAccount) (*AccountData, error)
	// Save persists every dirty position, pool and the status.
	Save(ctx context.Context, tx *db.DB, account *UserAccount) error

	GetUserAccountData(ctx context.Context, userID string) (*AccountData, error)
	// RefreshUserAccountData re-pins and rewrites premium debt in its own
	// tx, returning the refreshed data.
	RefreshUserAccountData(ctx context.Context, userID string) (*AccountData, error)
}
