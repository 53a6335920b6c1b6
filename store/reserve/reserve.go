package reserve

import (
	"colend/core"
	"context"

	"github.com/fox-one/pkg/store/db"
)

type reserveStore struct {
	db *db.DB
}

// New new reserve store
func New(db *db.DB) core.IReserveStore {
	return &reserveStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Reserve{})
		if err := tx.AutoMigrate(core.Reserve{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.ReserveConfig{}).AutoMigrate(core.ReserveConfig{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *reserveStore) Create(ctx context.Context, tx *db.DB, reserve *core.Reserve) error {
	return tx.Update().Create(reserve).Error
}

func (s *reserveStore) Find(ctx context.Context, id uint64) (*core.Reserve, error) {
	var reserve core.Reserve
	if err := s.db.View().Where("id=?", id).First(&reserve).Error; err != nil {
		return nil, err
	}
	return &reserve, nil
}

func (s *reserveStore) FindByAsset(ctx context.Context, assetID string) (*core.Reserve, error) {
	var reserve core.Reserve
	if err := s.db.View().Where("asset_id=?", assetID).First(&reserve).Error; err != nil {
		return nil, err
	}
	return &reserve, nil
}

func (s *reserveStore) FindBySymbol(ctx context.Context, symbol string) (*core.Reserve, error) {
	var reserve core.Reserve
	if err := s.db.View().Where("symbol=?", symbol).First(&reserve).Error; err != nil {
		return nil, err
	}
	return &reserve, nil
}

func (s *reserveStore) All(ctx context.Context) ([]*core.Reserve, error) {
	var reserves []*core.Reserve
	if err := s.db.View().Find(&reserves).Error; err != nil {
		return nil, err
	}
	return reserves, nil
}

func (s *reserveStore) Count(ctx context.Context) (uint64, error) {
	var count uint64
	if err := s.db.View().Model(core.Reserve{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *reserveStore) Update(ctx context.Context, tx *db.DB, reserve *core.Reserve) error {
	version := reserve.Version
	reserve.Version++
	// explicit map so false flags are not skipped as blank fields
	updates := tx.Update().Model(core.Reserve{}).
		Where("id=? and version=?", reserve.ID, version).
		Update(map[string]interface{}{
			"paused":            reserve.Paused,
			"frozen":            reserve.Frozen,
			"borrowable":        reserve.Borrowable,
			"collateral_risk":   reserve.CollateralRisk,
			"active_config_key": reserve.ActiveConfigKey,
			"version":           reserve.Version,
		})
	if updates.Error != nil {
		return updates.Error
	}
	if updates.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}
	return nil
}

func (s *reserveStore) CreateConfig(ctx context.Context, tx *db.DB, config *core.ReserveConfig) error {
	return tx.Update().Create(config).Error
}

func (s *reserveStore) FindConfig(ctx context.Context, reserveID uint64, key uint16) (*core.ReserveConfig, error) {
	var config core.ReserveConfig
	if err := s.db.View().Where("reserve_id=? and `key`=?", reserveID, key).First(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

func (s *reserveStore) AllConfigs(ctx context.Context, reserveID uint64) ([]*core.ReserveConfig, error) {
	var configs []*core.ReserveConfig
	if err := s.db.View().Where("reserve_id=?", reserveID).Order("`key`").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

func (s *reserveStore) UpdateConfig(ctx context.Context, tx *db.DB, config *core.ReserveConfig) error {
	version := config.Version
	config.Version++
	updates := tx.Update().Model(core.ReserveConfig{}).
		Where("id=? and version=?", config.ID, version).
		Update(map[string]interface{}{
			"collateral_factor": config.CollateralFactor,
			"version":           config.Version,
		})
	if updates.Error != nil {
		return updates.Error
	}
	if updates.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}
	return nil
}
