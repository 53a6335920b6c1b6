package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RiskItem one (risk tier, collateral value) pair.
type RiskItem struct {
	Risk  decimal.Decimal
	Value decimal.Decimal
}

// RiskList fixed-capacity append-only list of risk items, sortable by risk
// tier ascending. Built once per account-data pass.
type RiskList struct {
	items []RiskItem
}

// NewRiskList new list with room for capacity items
func NewRiskList(capacity int) *RiskList {
	return &RiskList{items: make([]RiskItem, 0, capacity)}
}

// Append append one pair
func (l *RiskList) Append(risk, value decimal.Decimal) {
	l.items = append(l.items, RiskItem{Risk: risk, Value: value})
}

// Sort orders by risk ascending; ties keep insertion order.
func (l *RiskList) Sort() {
	sort.SliceStable(l.items, func(i, j int) bool {
		return l.items[i].Risk.LessThan(l.items[j].Risk)
	})
}

// Items the backing slice
func (l *RiskList) Items() []RiskItem {
	return l.items
}

// Len item count
func (l *RiskList) Len() int {
	return len(l.items)
}
