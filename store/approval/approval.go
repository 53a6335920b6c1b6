package approval

import (
	"colend/core"
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type approvalStore struct {
	db *db.DB
}

// New new approval store
func New(db *db.DB) core.IApprovalStore {
	return &approvalStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		return db.Update().Model(core.Approval{}).AutoMigrate(core.Approval{}).Error
	})
}

func (s *approvalStore) Save(ctx context.Context, tx *db.DB, approval *core.Approval) error {
	if approval.ID == 0 {
		return tx.Update().Create(approval).Error
	}

	version := approval.Version
	approval.Version++
	updates := tx.Update().Model(core.Approval{}).
		Where("id=? and version=?", approval.ID, version).
		Update(map[string]interface{}{
			"active":  approval.Active,
			"version": approval.Version,
		})
	if updates.Error != nil {
		return updates.Error
	}
	if updates.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}
	return nil
}

func (s *approvalStore) Find(ctx context.Context, userID, managerID string) (*core.Approval, error) {
	var approval core.Approval
	err := s.db.View().Where("user_id=? and manager_id=?", userID, managerID).First(&approval).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Approval{UserID: userID, ManagerID: managerID}, nil
		}
		return nil, err
	}
	return &approval, nil
}

func (s *approvalStore) FindByUser(ctx context.Context, userID string) ([]*core.Approval, error) {
	var approvals []*core.Approval
	if err := s.db.View().Where("user_id=?", userID).Find(&approvals).Error; err != nil {
		return nil, err
	}
	return approvals, nil
}
