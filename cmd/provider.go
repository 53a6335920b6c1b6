package cmd

import (
	"time"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func providePriceTTL() time.Duration {
	if cfg.App.PriceTTL <= 0 {
		return 0
	}
	return time.Duration(cfg.App.PriceTTL) * time.Second
}
