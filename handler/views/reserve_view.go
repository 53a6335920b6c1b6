package views

import (
	"colend/core"

	"github.com/shopspring/decimal"
)

// Reserve reserve view
type Reserve struct {
	core.Reserve
	Config *core.ReserveConfig `json:"config,omitempty"`
	Pool   *core.Pool          `json:"pool,omitempty"`
	Price  decimal.Decimal     `json:"price"`

	// Configs every config version, only on the single-reserve endpoint.
	Configs []*core.ReserveConfig `json:"configs,omitempty"`
}
