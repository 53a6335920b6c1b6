package ledger

import (
	"colend/pkg/number"

	"github.com/shopspring/decimal"
)

// PremiumShares share balance representing a surcharge at rate riskPremium
// over the drawn shares, rounded up against the borrower.
func PremiumShares(drawnShares, riskPremium decimal.Decimal) decimal.Decimal {
	return number.CeilValue(drawnShares.Mul(riskPremium))
}

// AccruedPremium the grown part of a premium position: what the shares
// preview to now, minus the offset taken when they were minted. Clamped at
// zero; the preview is monotone so a negative difference is rounding noise.
func AccruedPremium(preview, offset decimal.Decimal) decimal.Decimal {
	accrued := preview.Sub(offset)
	if accrued.IsNegative() {
		return decimal.Zero
	}
	return accrued
}
