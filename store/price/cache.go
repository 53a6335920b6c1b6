package price

import (
	"context"
	"fmt"
	"time"

	"colend/core"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/singleflight"
)

// Cache wraps a price store with a short lived read cache. Prices are read
// on every account evaluation, so the hot path stays off the db.
func Cache(store core.IPriceStore, exp time.Duration) core.IPriceStore {
	return &cachePriceStore{
		IPriceStore: store,
		cache:       gcache.New(1024).LRU().Build(),
		sf:          &singleflight.Group{},
		exp:         exp,
	}
}

type cachePriceStore struct {
	core.IPriceStore
	cache gcache.Cache
	sf    *singleflight.Group
	exp   time.Duration
}

func (s *cachePriceStore) priceKey(reserveID uint64) string {
	return fmt.Sprintf("price:%d", reserveID)
}

func (s *cachePriceStore) Save(ctx context.Context, tx *db.DB, price *core.Price) error {
	if err := s.IPriceStore.Save(ctx, tx, price); err != nil {
		return err
	}
	s.cache.Remove(s.priceKey(price.ReserveID))
	return nil
}

func (s *cachePriceStore) Find(ctx context.Context, reserveID uint64) (*core.Price, error) {
	key := s.priceKey(reserveID)
	if v, err := s.cache.Get(key); err == nil {
		if price, ok := v.(*core.Price); ok {
			return price, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		price, err := s.IPriceStore.Find(ctx, reserveID)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetWithExpire(key, price, s.exp)
		return price, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*core.Price), nil
}
