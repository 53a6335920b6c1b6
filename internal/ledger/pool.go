package ledger

import (
	"colend/core"
	"colend/pkg/number"

	"github.com/shopspring/decimal"
)

// Pool share mechanics. Supply shares claim TotalCash + TotalDrawnAssets;
// drawn shares owe TotalDrawnAssets. Rounding always favors the pool: minted
// claims round down, minted debts round up, burned claims round up, burned
// debts round down.

const rateDP = 16

// SupplyRate amount of asset one supply share is worth.
func SupplyRate(pool *core.Pool) decimal.Decimal {
	assets := pool.TotalCash.Add(pool.TotalDrawnAssets)
	if !pool.TotalShares.IsPositive() || !assets.IsPositive() {
		return number.One
	}
	return assets.DivRound(pool.TotalShares, rateDP)
}

// DrawRate amount of asset one drawn share owes.
func DrawRate(pool *core.Pool) decimal.Decimal {
	if !pool.TotalDrawnShares.IsPositive() || !pool.TotalDrawnAssets.IsPositive() {
		return number.One
	}
	return pool.TotalDrawnAssets.DivRound(pool.TotalDrawnShares, rateDP)
}

// AddLiquidity deposits amount into the pool, returning supply shares minted.
func AddLiquidity(pool *core.Pool, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}

	shares := number.DivFloor(amount, SupplyRate(pool))
	pool.TotalCash = pool.TotalCash.Add(amount)
	pool.TotalShares = pool.TotalShares.Add(shares)
	return shares, nil
}

// RemoveLiquidity pays amount out of the pool, returning supply shares
// burned.
func RemoveLiquidity(pool *core.Pool, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}
	if amount.GreaterThan(pool.TotalCash) {
		return decimal.Zero, core.ErrInsufficientLiquidity
	}

	shares := number.DivCeil(amount, SupplyRate(pool))
	if shares.GreaterThan(pool.TotalShares) {
		shares = pool.TotalShares
	}
	pool.TotalCash = pool.TotalCash.Sub(amount)
	pool.TotalShares = pool.TotalShares.Sub(shares)
	return shares, nil
}

// RemoveAllLiquidity burns the full share balance, returning the amount paid
// out. Burning everything instead of converting the amount back avoids a
// rounding sliver of shares surviving a full exit.
func RemoveAllLiquidity(pool *core.Pool, shares decimal.Decimal) (decimal.Decimal, error) {
	amount := PreviewRemoveByShares(pool, shares)
	if amount.GreaterThan(pool.TotalCash) {
		return decimal.Zero, core.ErrInsufficientLiquidity
	}

	pool.TotalCash = pool.TotalCash.Sub(amount)
	pool.TotalShares = zeroFloor(pool.TotalShares.Sub(shares))
	return amount, nil
}

// DrawLiquidity lends amount out of the pool, returning drawn shares minted.
func DrawLiquidity(pool *core.Pool, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}
	if amount.GreaterThan(pool.TotalCash) {
		return decimal.Zero, core.ErrInsufficientLiquidity
	}

	shares := number.DivCeil(amount, DrawRate(pool))
	pool.TotalCash = pool.TotalCash.Sub(amount)
	pool.TotalDrawnAssets = pool.TotalDrawnAssets.Add(amount)
	pool.TotalDrawnShares = pool.TotalDrawnShares.Add(shares)
	return shares, nil
}

// RestoreLiquidity repays amount of drawn debt, returning drawn shares
// burned.
func RestoreLiquidity(pool *core.Pool, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}

	shares := number.DivFloor(amount, DrawRate(pool))
	if shares.GreaterThan(pool.TotalDrawnShares) {
		shares = pool.TotalDrawnShares
	}
	pool.TotalCash = pool.TotalCash.Add(amount)
	pool.TotalDrawnAssets = zeroFloor(pool.TotalDrawnAssets.Sub(amount))
	pool.TotalDrawnShares = pool.TotalDrawnShares.Sub(shares)
	return shares, nil
}

// RestoreAllLiquidity burns the full drawn share balance, returning the
// amount owed that came back in.
func RestoreAllLiquidity(pool *core.Pool, shares decimal.Decimal) decimal.Decimal {
	amount := PreviewRestoreByShares(pool, shares)
	pool.TotalCash = pool.TotalCash.Add(amount)
	pool.TotalDrawnAssets = zeroFloor(pool.TotalDrawnAssets.Sub(amount))
	pool.TotalDrawnShares = zeroFloor(pool.TotalDrawnShares.Sub(shares))
	return amount
}

// PreviewRemoveByShares amount the shares pay out today, rounded down.
func PreviewRemoveByShares(pool *core.Pool, shares decimal.Decimal) decimal.Decimal {
	return number.FloorValue(shares.Mul(SupplyRate(pool)))
}

// PreviewRestoreByShares amount the drawn shares owe today, rounded up.
func PreviewRestoreByShares(pool *core.Pool, shares decimal.Decimal) decimal.Decimal {
	return number.CeilValue(shares.Mul(DrawRate(pool)))
}

// PreviewDrawByShares amount the drawn shares are worth today, rounded down.
// The premium offset uses this so the spread between the two roundings never
// becomes instant debt.
func PreviewDrawByShares(pool *core.Pool, shares decimal.Decimal) decimal.Decimal {
	return number.FloorValue(shares.Mul(DrawRate(pool)))
}

// PremiumDebt the position's full premium debt: accrued on the open shares
// plus the realized remainder.
func PremiumDebt(pool *core.Pool, position *core.Position) decimal.Decimal {
	preview := PreviewRestoreByShares(pool, position.PremiumShares)
	return AccruedPremium(preview, position.PremiumOffset).Add(position.RealizedPremium)
}

// SettlePremium folds the accrued part of the position's premium into its
// realized premium, zeroing the open shares and offset on both the position
// and the pool aggregates. Returns the accrued amount folded.
func SettlePremium(pool *core.Pool, position *core.Position) decimal.Decimal {
	preview := PreviewRestoreByShares(pool, position.PremiumShares)
	accrued := AccruedPremium(preview, position.PremiumOffset)

	pool.PremiumShares = zeroFloor(pool.PremiumShares.Sub(position.PremiumShares))
	pool.PremiumOffset = zeroFloor(pool.PremiumOffset.Sub(position.PremiumOffset))
	pool.RealizedPremium = pool.RealizedPremium.Add(accrued)

	position.PremiumShares = decimal.Zero
	position.PremiumOffset = decimal.Zero
	position.RealizedPremium = position.RealizedPremium.Add(accrued)
	return accrued
}

// SetPremium opens fresh premium shares for the position. Call after
// SettlePremium so the old shares are already off the books.
func SetPremium(pool *core.Pool, position *core.Position, shares, offset decimal.Decimal) {
	position.PremiumShares = shares
	position.PremiumOffset = offset
	pool.PremiumShares = pool.PremiumShares.Add(shares)
	pool.PremiumOffset = pool.PremiumOffset.Add(offset)
}

// PayPremium settles amount of the position's realized premium with cash
// entering the pool. Call after SettlePremium; amount must not exceed the
// realized premium.
func PayPremium(pool *core.Pool, position *core.Position, amount decimal.Decimal) {
	if amount.GreaterThan(position.RealizedPremium) {
		amount = position.RealizedPremium
	}
	position.RealizedPremium = position.RealizedPremium.Sub(amount)
	pool.RealizedPremium = zeroFloor(pool.RealizedPremium.Sub(amount))
	pool.TotalCash = pool.TotalCash.Add(amount)
}

// PayFee reassigns already-minted supply shares to the protocol fee bucket.
func PayFee(pool *core.Pool, shares decimal.Decimal) {
	pool.FeeShares = pool.FeeShares.Add(shares)
}

// ReportDeficit writes off the position's remaining drawn debt and realized
// premium as unrecoverable, socializing the loss across suppliers through
// the supply rate. Call after SettlePremium. Returns the amounts written
// off.
func ReportDeficit(pool *core.Pool, position *core.Position) (drawn, premium decimal.Decimal) {
	drawn = PreviewRestoreByShares(pool, position.DrawnShares)
	premium = position.RealizedPremium

	pool.TotalDrawnAssets = zeroFloor(pool.TotalDrawnAssets.Sub(drawn))
	pool.TotalDrawnShares = zeroFloor(pool.TotalDrawnShares.Sub(position.DrawnShares))
	pool.RealizedPremium = zeroFloor(pool.RealizedPremium.Sub(premium))
	pool.Deficit = pool.Deficit.Add(drawn).Add(premium)

	position.DrawnShares = decimal.Zero
	position.RealizedPremium = decimal.Zero
	return drawn, premium
}

// AccruePool adds interest to the drawn side, moving both exchange rates.
func AccruePool(pool *core.Pool, interest decimal.Decimal) {
	pool.TotalDrawnAssets = pool.TotalDrawnAssets.Add(interest)
}

func zeroFloor(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
