package ledger

import (
	"colend/pkg/number"

	"github.com/shopspring/decimal"
)

// Entry one reserve flagged collateral or debt for the user. Balances are
// underlying asset amounts, already converted from shares by the Hub.
type Entry struct {
	ReserveID  uint64
	Collateral bool
	Borrowing  bool

	CollateralBalance decimal.Decimal
	DebtBalance       decimal.Decimal

	Price            decimal.Decimal
	CollateralFactor decimal.Decimal
	CollateralRisk   decimal.Decimal
}

// Account derived account data over a set of entries.
type Account struct {
	TotalCollateralValue decimal.Decimal
	TotalDebtValue       decimal.Decimal
	AvgCollateralFactor  decimal.Decimal
	HealthFactor         decimal.Decimal
	RiskPremium          decimal.Decimal
	CollateralCount      int
	BorrowCount          int
}

// Compute runs the single-pass account-data algorithm. Collateral values
// round down, debt values round up. Health factor is the weighted
// collateral factor sum over total debt value, or MaxHealth with no debt.
func Compute(entries []Entry) Account {
	var acc Account
	acc.TotalCollateralValue = decimal.Zero
	acc.TotalDebtValue = decimal.Zero

	weighted := decimal.Zero
	list := NewRiskList(len(entries))

	for _, e := range entries {
		if e.Collateral && e.CollateralFactor.IsPositive() && e.CollateralBalance.IsPositive() {
			value := number.FloorValue(e.CollateralBalance.Mul(e.Price))
			acc.TotalCollateralValue = acc.TotalCollateralValue.Add(value)
			weighted = weighted.Add(e.CollateralFactor.Mul(value))
			list.Append(e.CollateralRisk, value)
			acc.CollateralCount++
		}
		if e.Borrowing && e.DebtBalance.IsPositive() {
			value := number.CeilValue(e.DebtBalance.Mul(e.Price))
			acc.TotalDebtValue = acc.TotalDebtValue.Add(value)
			acc.BorrowCount++
		}
	}

	if acc.TotalDebtValue.IsPositive() {
		acc.HealthFactor = weighted.DivRound(acc.TotalDebtValue, 16)
	} else {
		acc.HealthFactor = number.MaxHealth
	}

	if acc.TotalCollateralValue.IsPositive() {
		acc.AvgCollateralFactor = weighted.DivRound(acc.TotalCollateralValue, 16)
	} else {
		acc.AvgCollateralFactor = decimal.Zero
	}

	acc.RiskPremium = riskPremium(list, acc.TotalDebtValue)
	return acc
}

// riskPremium consumes collateral value against the debt, cheapest risk
// tier first, and returns the debt-value-weighted average tier of whatever
// collateral actually backs the debt. Consuming low-risk collateral first
// leaves the premium charged against the riskiest remainder.
func riskPremium(list *RiskList, totalDebtValue decimal.Decimal) decimal.Decimal {
	if !totalDebtValue.IsPositive() || list.Len() == 0 {
		return decimal.Zero
	}

	list.Sort()

	remaining := totalDebtValue
	sum := decimal.Zero
	for _, item := range list.Items() {
		if !remaining.IsPositive() {
			break
		}
		used := item.Value
		if used.GreaterThan(remaining) {
			used = remaining
		}
		sum = sum.Add(item.Risk.Mul(used))
		remaining = remaining.Sub(used)
	}

	consumed := totalDebtValue.Sub(remaining)
	if !consumed.IsPositive() {
		return decimal.Zero
	}
	return sum.DivRound(consumed, 16)
}
