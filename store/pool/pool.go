package pool

import (
	"colend/core"
	"context"

	"github.com/fox-one/pkg/store/db"
)

type poolStore struct {
	db *db.DB
}

// New new pool store
func New(db *db.DB) core.IPoolStore {
	return &poolStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		return db.Update().Model(core.Pool{}).AutoMigrate(core.Pool{}).Error
	})
}

func (s *poolStore) Save(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	return tx.Update().Create(pool).Error
}

func (s *poolStore) Find(ctx context.Context, assetID string) (*core.Pool, error) {
	var pool core.Pool
	if err := s.db.View().Where("asset_id=?", assetID).First(&pool).Error; err != nil {
		return nil, err
	}
	return &pool, nil
}

func (s *poolStore) All(ctx context.Context) ([]*core.Pool, error) {
	var pools []*core.Pool
	if err := s.db.View().Find(&pools).Error; err != nil {
		return nil, err
	}
	return pools, nil
}

func (s *poolStore) Update(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	version := pool.Version
	pool.Version++
	updates := tx.Update().Model(core.Pool{}).
		Where("asset_id=? and version=?", pool.AssetID, version).
		Update(map[string]interface{}{
			"total_cash":         pool.TotalCash,
			"total_shares":       pool.TotalShares,
			"total_drawn_assets": pool.TotalDrawnAssets,
			"total_drawn_shares": pool.TotalDrawnShares,
			"premium_shares":     pool.PremiumShares,
			"premium_offset":     pool.PremiumOffset,
			"realized_premium":   pool.RealizedPremium,
			"fee_shares":         pool.FeeShares,
			"deficit":            pool.Deficit,
			"version":            pool.Version,
		})
	if updates.Error != nil {
		return updates.Error
	}
	if updates.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}
	return nil
}
