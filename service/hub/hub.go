package hub

import (
	"context"

	"colend/core"
	"colend/internal/ledger"
	"colend/pkg/id"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type hubService struct {
	db     *db.DB
	pools  core.IPoolStore
	events core.IEventStore
}

// New new hub service
func New(db *db.DB, pools core.IPoolStore, events core.IEventStore) core.IHubService {
	return &hubService{
		db:     db,
		pools:  pools,
		events: events,
	}
}

func (s *hubService) Pool(ctx context.Context, assetID string) (*core.Pool, error) {
	pool, err := s.pools.Find(ctx, assetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Pool{AssetID: assetID}, nil
		}
		return nil, err
	}
	return pool, nil
}

func (s *hubService) SavePool(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	if pool.ID == 0 {
		return s.pools.Save(ctx, tx, pool)
	}
	return s.pools.Update(ctx, tx, pool)
}

func (s *hubService) Accrue(ctx context.Context, assetID string, interest decimal.Decimal) error {
	if !interest.IsPositive() {
		return core.ErrInvalidAmount
	}

	pool, err := s.pools.Find(ctx, assetID)
	if err != nil {
		return err
	}

	ledger.AccruePool(pool, interest)
	return s.db.Tx(func(tx *db.DB) error {
		if err := s.pools.Update(ctx, tx, pool); err != nil {
			return err
		}
		event := &core.Event{
			TraceID: id.GenTraceID(),
			Action:  core.EventPoolAccrued,
		}
		return s.events.Save(ctx, tx, event.SetData(map[string]interface{}{
			"asset_id": assetID,
			"interest": interest,
		}))
	})
}
