package account

import (
	"context"

	"colend/core"
	"colend/internal/ledger"
	"colend/pkg/id"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type accountService struct {
	db        *db.DB
	reserves  core.IReserveStore
	positions core.IPositionStore
	hub       core.IHubService
	oracle    core.IPriceOracleService
	events    core.IEventStore
}

// New new account service
func New(
	db *db.DB,
	reserves core.IReserveStore,
	positions core.IPositionStore,
	hub core.IHubService,
	oracle core.IPriceOracleService,
	events core.IEventStore,
) core.IAccountService {
	return &accountService{
		db:        db,
		reserves:  reserves,
		positions: positions,
		hub:       hub,
		oracle:    oracle,
		events:    events,
	}
}

func (s *accountService) LoadAccount(ctx context.Context, userID string) (*core.UserAccount, error) {
	status, err := s.positions.FindStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	account := &core.UserAccount{
		UserID: userID,
		Status: status,
	}

	count, err := s.reserves.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return account, nil
	}

	// descending walk over the flagged reserves
	cursor := count
	for {
		id, _, _, ok := status.Next(cursor)
		if !ok {
			break
		}
		if _, err := s.loadItem(ctx, account, id); err != nil {
			return nil, err
		}
		if id == 0 {
			break
		}
		cursor = id - 1
	}

	return account, nil
}

func (s *accountService) LoadItem(ctx context.Context, account *core.UserAccount, reserveID uint64) (*core.AccountItem, error) {
	if item := account.Item(reserveID); item != nil {
		return item, nil
	}
	return s.loadItem(ctx, account, reserveID)
}

func (s *accountService) loadItem(ctx context.Context, account *core.UserAccount, reserveID uint64) (*core.AccountItem, error) {
	reserve, err := s.reserves.Find(ctx, reserveID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrReserveNotFound
		}
		return nil, err
	}

	position, err := s.positions.Find(ctx, account.UserID, reserveID)
	if err != nil {
		return nil, err
	}

	key := position.ConfigKey
	if key == 0 {
		key = reserve.ActiveConfigKey
	}
	config, err := s.reserves.FindConfig(ctx, reserveID, key)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrConfigNotFound
		}
		return nil, err
	}

	pool, err := s.hub.Pool(ctx, reserve.AssetID)
	if err != nil {
		return nil, err
	}

	price, err := s.oracle.GetReservePrice(ctx, reserveID)
	if err != nil {
		return nil, err
	}

	item := &core.AccountItem{
		Reserve:  reserve,
		Config:   config,
		Position: position,
		Pool:     pool,
		Price:    price,
	}
	account.Items = append(account.Items, item)
	return item, nil
}

func (s *accountService) Data(account *core.UserAccount) *core.AccountData {
	entries := make([]ledger.Entry, 0, len(account.Items))
	for _, item := range account.Items {
		id := item.Reserve.ID
		entry := ledger.Entry{
			ReserveID:        id,
			Collateral:       account.Status.IsCollateral(id),
			Borrowing:        account.Status.IsBorrowing(id),
			Price:            item.Price,
			CollateralFactor: item.Config.CollateralFactor,
			CollateralRisk:   item.Reserve.CollateralRisk,
		}
		if entry.Collateral {
			entry.CollateralBalance = ledger.PreviewRemoveByShares(item.Pool, item.Position.SuppliedShares)
		}
		if entry.Borrowing {
			drawn := ledger.PreviewRestoreByShares(item.Pool, item.Position.DrawnShares)
			entry.DebtBalance = drawn.Add(ledger.PremiumDebt(item.Pool, item.Position))
		}
		entries = append(entries, entry)
	}

	acc := ledger.Compute(entries)
	return &core.AccountData{
		UserID:               account.UserID,
		TotalCollateralValue: acc.TotalCollateralValue,
		TotalDebtValue:       acc.TotalDebtValue,
		AvgCollateralFactor:  acc.AvgCollateralFactor,
		HealthFactor:         acc.HealthFactor,
		RiskPremium:          acc.RiskPremium,
		CollateralCount:      acc.CollateralCount,
		BorrowCount:          acc.BorrowCount,
	}
}

func (s *accountService) UpdateRiskPremium(ctx context.Context, account *core.UserAccount) (*core.AccountData, error) {
	// re-pin every touched position to the active config version
	for _, item := range account.Items {
		if item.Position.ConfigKey == item.Reserve.ActiveConfigKey {
			continue
		}
		config, err := s.reserves.FindConfig(ctx, item.Reserve.ID, item.Reserve.ActiveConfigKey)
		if err != nil {
			return nil, err
		}
		item.Config = config
		item.Position.ConfigKey = item.Reserve.ActiveConfigKey
		item.Dirty = true
	}

	premium := s.Data(account).RiskPremium

	// rewrite the open premium of every borrowed reserve at the new rate
	for _, item := range account.Items {
		if !account.Status.IsBorrowing(item.Reserve.ID) {
			continue
		}

		ledger.SettlePremium(item.Pool, item.Position)
		shares := ledger.PremiumShares(item.Position.DrawnShares, premium)
		offset := ledger.PreviewDrawByShares(item.Pool, shares)
		ledger.SetPremium(item.Pool, item.Position, shares, offset)
		item.Dirty = true
		item.PoolDirty = true
	}

	if account.Status.HasPremium != premium.IsPositive() {
		account.Status.HasPremium = premium.IsPositive()
		account.StatusDirty = true
	}

	return s.Data(account), nil
}

func (s *accountService) Save(ctx context.Context, tx *db.DB, account *core.UserAccount) error {
	for _, item := range account.Items {
		if item.Dirty {
			if err := s.positions.Save(ctx, tx, item.Position); err != nil {
				return err
			}
			item.Dirty = false
		}
		if item.PoolDirty {
			if err := s.hub.SavePool(ctx, tx, item.Pool); err != nil {
				return err
			}
			item.PoolDirty = false
		}
	}

	if account.StatusDirty {
		if err := s.positions.SaveStatus(ctx, tx, account.Status); err != nil {
			return err
		}
		account.StatusDirty = false
	}
	return nil
}

func (s *accountService) GetUserAccountData(ctx context.Context, userID string) (*core.AccountData, error) {
	account, err := s.LoadAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Data(account), nil
}

func (s *accountService) RefreshUserAccountData(ctx context.Context, userID string) (*core.AccountData, error) {
	account, err := s.LoadAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, err := s.UpdateRiskPremium(ctx, account)
	if err != nil {
		return nil, err
	}

	if err := s.db.Tx(func(tx *db.DB) error {
		if err := s.Save(ctx, tx, account); err != nil {
			return err
		}
		event := &core.Event{
			TraceID: id.GenTraceID(),
			UserID:  userID,
			Action:  core.EventRiskPremiumUpdated,
		}
		return s.events.Save(ctx, tx, event.SetData(data))
	}); err != nil {
		return nil, err
	}
	return data, nil
}
