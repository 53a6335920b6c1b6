package oracle

import (
	"context"
	"time"

	"colend/core"
	"colend/pkg/id"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type oracleService struct {
	db     *db.DB
	prices core.IPriceStore
	events core.IEventStore
	ttl    time.Duration
}

// New new price oracle service. A price older than ttl is treated as
// missing; ttl <= 0 disables the staleness check.
func New(db *db.DB, prices core.IPriceStore, events core.IEventStore, ttl time.Duration) core.IPriceOracleService {
	return &oracleService{
		db:     db,
		prices: prices,
		events: events,
		ttl:    ttl,
	}
}

func (s *oracleService) GetReservePrice(ctx context.Context, reserveID uint64) (decimal.Decimal, error) {
	price, err := s.prices.Find(ctx, reserveID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, core.ErrInvalidPrice
		}
		return decimal.Zero, err
	}

	if !price.Price.IsPositive() {
		return decimal.Zero, core.ErrInvalidPrice
	}
	if s.ttl > 0 && time.Since(price.UpdatedAt) > s.ttl {
		return decimal.Zero, core.ErrInvalidPrice
	}
	return price.Price, nil
}

func (s *oracleService) SetReservePrice(ctx context.Context, reserveID uint64, value decimal.Decimal) error {
	if !value.IsPositive() {
		return core.ErrInvalidPrice
	}

	price, err := s.prices.Find(ctx, reserveID)
	if err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			return err
		}
		price = &core.Price{ReserveID: reserveID}
	}
	price.Price = value

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.prices.Save(ctx, tx, price); err != nil {
			return err
		}

		event := &core.Event{
			TraceID:   id.GenTraceID(),
			ReserveID: reserveID,
			Action:    core.EventPriceUpdated,
		}
		return s.events.Save(ctx, tx, event.SetData(price))
	})
}
