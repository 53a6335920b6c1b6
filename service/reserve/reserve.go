package reserve

import (
	"context"

	"colend/core"
	"colend/pkg/id"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// maxCollateralRisk caps the risk tier at 1000%.
var maxCollateralRisk = decimal.New(10, 0)

type reserveService struct {
	db       *db.DB
	reserves core.IReserveStore
	events   core.IEventStore
}

// New new reserve service
func New(db *db.DB, reserves core.IReserveStore, events core.IEventStore) core.IReserveService {
	return &reserveService{
		db:       db,
		reserves: reserves,
		events:   events,
	}
}

func (s *reserveService) ListReserve(ctx context.Context, reserve *core.Reserve, config *core.ReserveConfig) (*core.Reserve, error) {
	if !govalidator.IsUUID(reserve.AssetID) {
		return nil, core.ErrInvalidConfig
	}
	if reserve.Symbol == "" || !govalidator.IsAlphanumeric(reserve.Symbol) {
		return nil, core.ErrInvalidConfig
	}
	if reserve.CollateralRisk.IsNegative() || reserve.CollateralRisk.GreaterThan(maxCollateralRisk) {
		return nil, core.ErrInvalidConfig
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.reserves.FindByAsset(ctx, reserve.AssetID); err == nil {
		return nil, core.ErrReserveDuplicated
	} else if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}
	if _, err := s.reserves.FindBySymbol(ctx, reserve.Symbol); err == nil {
		return nil, core.ErrReserveDuplicated
	} else if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	reserve.ActiveConfigKey = 1
	if err := s.db.Tx(func(tx *db.DB) error {
		if err := s.reserves.Create(ctx, tx, reserve); err != nil {
			return err
		}

		config.ReserveID = reserve.ID
		config.Key = 1
		if err := s.reserves.CreateConfig(ctx, tx, config); err != nil {
			return err
		}

		event := &core.Event{
			TraceID:   id.GenTraceID(),
			ReserveID: reserve.ID,
			Action:    core.EventReserveListed,
		}
		return s.events.Save(ctx, tx, event.SetData(reserve))
	}); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Infof("reserve %s listed as %d", reserve.Symbol, reserve.ID)
	return reserve, nil
}

func (s *reserveService) UpdateFlags(ctx context.Context, reserveID uint64, paused, frozen, borrowable bool) error {
	reserve, err := s.findReserve(ctx, reserveID)
	if err != nil {
		return err
	}

	reserve.Paused = paused
	reserve.Frozen = frozen
	reserve.Borrowable = borrowable

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.reserves.Update(ctx, tx, reserve); err != nil {
			return err
		}
		event := &core.Event{
			TraceID:   id.GenTraceID(),
			ReserveID: reserveID,
			Action:    core.EventReserveUpdated,
		}
		return s.events.Save(ctx, tx, event.SetData(reserve))
	})
}

func (s *reserveService) SetCollateralRisk(ctx context.Context, reserveID uint64, risk decimal.Decimal) error {
	if risk.IsNegative() || risk.GreaterThan(maxCollateralRisk) {
		return core.ErrInvalidConfig
	}

	reserve, err := s.findReserve(ctx, reserveID)
	if err != nil {
		return err
	}
	reserve.CollateralRisk = risk

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.reserves.Update(ctx, tx, reserve); err != nil {
			return err
		}
		event := &core.Event{
			TraceID:   id.GenTraceID(),
			ReserveID: reserveID,
			Action:    core.EventReserveUpdated,
		}
		return s.events.Save(ctx, tx, event.SetData(reserve))
	})
}

func (s *reserveService) AddConfigVersion(ctx context.Context, reserveID uint64, config *core.ReserveConfig) (*core.ReserveConfig, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	reserve, err := s.findReserve(ctx, reserveID)
	if err != nil {
		return nil, err
	}
	if reserve.ActiveConfigKey == ^uint16(0) {
		return nil, core.ErrInvalidConfig
	}

	config.ReserveID = reserveID
	config.Key = reserve.ActiveConfigKey + 1
	reserve.ActiveConfigKey = config.Key

	if err := s.db.Tx(func(tx *db.DB) error {
		if err := s.reserves.CreateConfig(ctx, tx, config); err != nil {
			return err
		}
		if err := s.reserves.Update(ctx, tx, reserve); err != nil {
			return err
		}
		event := &core.Event{
			TraceID:   id.GenTraceID(),
			ReserveID: reserveID,
			Action:    core.EventConfigAdded,
		}
		return s.events.Save(ctx, tx, event.SetData(config))
	}); err != nil {
		return nil, err
	}
	return config, nil
}

func (s *reserveService) UpdateConfigVersion(ctx context.Context, reserveID uint64, key uint16, collateralFactor decimal.Decimal) error {
	// a retired version still backs pinned positions; its factor may only
	// move to another non-zero value
	if !collateralFactor.IsPositive() || collateralFactor.GreaterThanOrEqual(decimal.New(1, 0)) {
		return core.ErrInvalidConfig
	}

	config, err := s.reserves.FindConfig(ctx, reserveID, key)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return core.ErrConfigNotFound
		}
		return err
	}

	config.CollateralFactor = collateralFactor
	if err := config.Validate(); err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.reserves.UpdateConfig(ctx, tx, config); err != nil {
			return err
		}
		event := &core.Event{
			TraceID:   id.GenTraceID(),
			ReserveID: reserveID,
			Action:    core.EventConfigUpdated,
		}
		return s.events.Save(ctx, tx, event.SetData(config))
	})
}

func (s *reserveService) findReserve(ctx context.Context, reserveID uint64) (*core.Reserve, error) {
	reserve, err := s.reserves.Find(ctx, reserveID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrReserveNotFound
		}
		return nil, err
	}
	return reserve, nil
}
