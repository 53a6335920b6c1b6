package liquidationconf

import (
	"colend/core"
	"context"
	"encoding/json"

	"github.com/fox-one/pkg/property"
)

const propertyKey = "liquidation_config"

type confStore struct {
	property property.Store
	fallback core.LiquidationConfig
}

// New liquidation config store over a property row; fallback applies until
// governance writes one.
func New(property property.Store, fallback core.LiquidationConfig) core.ILiquidationConfigStore {
	return &confStore{property: property, fallback: fallback}
}

func (s *confStore) Get(ctx context.Context) (*core.LiquidationConfig, error) {
	v, err := s.property.Get(ctx, propertyKey)
	if err != nil {
		return nil, err
	}

	raw := v.String()
	if raw == "" {
		config := s.fallback
		return &config, nil
	}

	var config core.LiquidationConfig
	if err := json.Unmarshal([]byte(raw), &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (s *confStore) Set(ctx context.Context, config *core.LiquidationConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(config)
	if err != nil {
		return err
	}
	return s.property.Save(ctx, propertyKey, string(raw))
}
