package position

import (
	"colend/core"
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type positionStore struct {
	db *db.DB
}

// statusRow persisted form of core.PositionStatus
type statusRow struct {
	UserID         string `sql:"size:36;PRIMARY_KEY"`
	CollateralBits string `sql:"size:512"`
	BorrowingBits  string `sql:"size:512"`
	HasPremium     bool   `sql:"default:0"`
	Version        int64  `sql:"default:0"`
}

func (statusRow) TableName() string {
	return "position_status"
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.Position{}).AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(statusRow{}).AutoMigrate(statusRow{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Find(ctx context.Context, userID string, reserveID uint64) (*core.Position, error) {
	var position core.Position
	err := s.db.View().Where("user_id=? and reserve_id=?", userID, reserveID).First(&position).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Position{UserID: userID, ReserveID: reserveID}, nil
		}
		return nil, err
	}
	return &position, nil
}

func (s *positionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("user_id=?", userID).Order("reserve_id").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (s *positionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	if position.ID == 0 {
		return tx.Update().Create(position).Error
	}

	version := position.Version
	position.Version++
	updates := tx.Update().Model(core.Position{}).
		Where("id=? and version=?", position.ID, version).
		Update(map[string]interface{}{
			"supplied_shares":  position.SuppliedShares,
			"drawn_shares":     position.DrawnShares,
			"premium_shares":   position.PremiumShares,
			"premium_offset":   position.PremiumOffset,
			"realized_premium": position.RealizedPremium,
			"config_key":       position.ConfigKey,
			"version":          position.Version,
		})
	if updates.Error != nil {
		return updates.Error
	}
	if updates.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}
	return nil
}

func (s *positionStore) Borrowers(ctx context.Context) ([]string, error) {
	var users []string
	// realized premium is debt too, even after the drawn side is cleared
	rows, err := s.db.View().Model(core.Position{}).
		Where("drawn_shares > 0 OR realized_premium > 0").
		Select("DISTINCT user_id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var user string
		if err := rows.Scan(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (s *positionStore) FindStatus(ctx context.Context, userID string) (*core.PositionStatus, error) {
	var row statusRow
	err := s.db.View().Where("user_id=?", userID).First(&row).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return core.NewPositionStatus(userID), nil
		}
		return nil, err
	}

	collateral, err := core.ParseBits(row.CollateralBits)
	if err != nil {
		return nil, err
	}
	borrowing, err := core.ParseBits(row.BorrowingBits)
	if err != nil {
		return nil, err
	}

	return &core.PositionStatus{
		UserID:     row.UserID,
		HasPremium: row.HasPremium,
		Collateral: collateral,
		Borrowing:  borrowing,
		Version:    row.Version,
	}, nil
}

func (s *positionStore) SaveStatus(ctx context.Context, tx *db.DB, status *core.PositionStatus) error {
	row := statusRow{
		UserID:         status.UserID,
		CollateralBits: status.Collateral.Hex(),
		BorrowingBits:  status.Borrowing.Hex(),
		HasPremium:     status.HasPremium,
	}

	if status.Version == 0 {
		var count int
		if err := tx.Update().Model(statusRow{}).Where("user_id=?", status.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			row.Version = 1
			status.Version = 1
			return tx.Update().Create(&row).Error
		}
	}

	version := status.Version
	status.Version++
	row.Version = status.Version
	// map update so a false has_premium is not skipped as blank
	updates := tx.Update().Model(statusRow{}).
		Where("user_id=? and version=?", status.UserID, version).
		Update(map[string]interface{}{
			"collateral_bits": row.CollateralBits,
			"borrowing_bits":  row.BorrowingBits,
			"has_premium":     row.HasPremium,
			"version":         row.Version,
		})
	if updates.Error != nil {
		return updates.Error
	}
	if updates.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}
	return nil
}
