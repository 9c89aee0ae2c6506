// Package money provides rounding and formatting helpers for monetary
// amounts expressed in major currency units (dollars, not cents).
package money

import (
	"fmt"
	"math"
)

// Currency represents an ISO 4217 currency code
type Currency string

const (
	AUD Currency = "AUD"
	USD Currency = "USD"
	NZD Currency = "NZD"
)

// RoundCents rounds an amount to 2 decimal places (cent precision).
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// RoundRate rounds a decimal fee rate to 4 decimal places, the precision
// used at the boundary between stored whole-number percentages and the
// fee calculator (e.g. 2.20% -> 0.022).
func RoundRate(rate float64) float64 {
	return math.Round(rate*10000) / 10000
}

// PercentToRate converts a whole-number percentage to a decimal fraction.
func PercentToRate(percent float64) float64 {
	return RoundRate(percent / 100)
}

// Clamp bounds an amount between a floor and a ceiling.
func Clamp(amount, floor, ceiling float64) float64 {
	return math.Min(math.Max(amount, floor), ceiling)
}

// IsFinite reports whether an amount is a usable number (not NaN or Inf).
func IsFinite(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

var symbols = map[Currency]string{
	AUD: "$",
	USD: "$",
	NZD: "$",
}

// Format renders an amount with its currency symbol, e.g. "$1196.32".
func Format(amount float64, currency Currency) string {
	symbol, ok := symbols[currency]
	if !ok {
		return fmt.Sprintf("%.2f %s", amount, currency)
	}
	if amount < 0 {
		return fmt.Sprintf("-%s%.2f", symbol, -amount)
	}
	return fmt.Sprintf("%s%.2f", symbol, amount)
}
