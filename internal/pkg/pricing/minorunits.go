package pricing

import "github.com/shopspring/decimal"

// toMinorUnits converts a major-unit amount to the provider's integer minor
// units (cents).
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
