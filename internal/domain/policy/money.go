package policy

import "github.com/shopspring/decimal"

// MinorUnitPlaces is the number of decimal places of the base currency.
const MinorUnitPlaces = 2

// Percent returns amount*pct/100 rounded half-up to the currency minor unit.
// Amounts handled here are never negative, so decimal's half-away-from-zero
// rounding is half-up.
func Percent(amount decimal.Decimal, pct float64) decimal.Decimal {
	return amount.Mul(decimal.NewFromFloat(pct)).Shift(-2).Round(MinorUnitPlaces)
}

// ToMinor converts an amount to integer minor units, rounding half-up.
func ToMinor(amount decimal.Decimal) int64 {
	return amount.Shift(MinorUnitPlaces).Round(0).IntPart()
}

// FromMinor converts integer minor units back to an amount.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -MinorUnitPlaces)
}
