package price

import (
	"colend/core"
	"context"

	"github.com/fox-one/pkg/store/db"
)

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.IPriceStore {
	return &priceStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		return db.Update().Model(core.Price{}).AutoMigrate(core.Price{}).Error
	})
}

func (s *priceStore) Save(ctx context.Context, tx *db.DB, price *core.Price) error {
	version := price.Version
	price.Version++
	updates := tx.Update().Model(core.Price{}).
		Where("reserve_id=? and version=?", price.ReserveID, version).
		Update(map[string]interface{}{
			"price":   price.Price,
			"version": price.Version,
		})
	if updates.Error != nil {
		return updates.Error
	}
	if updates.RowsAffected == 0 {
		if version == 0 {
			return tx.Update().Create(price).Error
		}
		return db.ErrOptimisticLock
	}
	return nil
}

func (s *priceStore) Find(ctx context.Context, reserveID uint64) (*core.Price, error) {
	var price core.Price
	if err := s.db.View().Where("reserve_id=?", reserveID).First(&price).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (s *priceStore) All(ctx context.Context) ([]*core.Price, error) {
	var prices []*core.Price
	if err := s.db.View().Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}
