package views

import (
	"colend/core"

	"github.com/shopspring/decimal"
)

// Position position view with share balances converted to asset amounts
type Position struct {
	core.Position
	Symbol          string          `json:"symbol"`
	SuppliedBalance decimal.Decimal `json:"supplied_balance"`
	DrawnBalance    decimal.Decimal `json:"drawn_balance"`
	PremiumDebt     decimal.Decimal `json:"premium_debt"`
}

// Account account view
type Account struct {
	core.AccountData
	Positions []*Position `json:"positions,omitempty"`
}
