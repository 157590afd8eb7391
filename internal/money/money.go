// Package money formats monetary amounts for display.
//
// Aggregation works on plain float64 sums of already-rounded amounts; rounding
// to the currency's minor unit only happens here, at format time.
package money

import (
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when an amount carries no currency.
const DefaultCurrency = gomoney.EUR

func currency(code string) *gomoney.Currency {
	if code == "" {
		code = DefaultCurrency
	}
	// the constructor guarantees a non-nil currency, even for unknown codes
	return gomoney.New(0, code).Currency()
}

// MinorUnits rounds the amount half away from zero to the currency's minor
// unit and returns it as an integer count of that unit (cents for EUR).
func MinorUnits(amount float64, code string) int64 {
	cur := currency(code)
	return decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0).IntPart()
}

// Round rounds the amount to the currency's minor unit.
func Round(amount float64, code string) float64 {
	cur := currency(code)
	return decimal.NewFromFloat(amount).Round(int32(cur.Fraction)).InexactFloat64()
}

// Format renders the amount with the currency's symbol, separators and
// fraction digits.
func Format(amount float64, code string) string {
	cur := currency(code)
	return cur.Formatter().Format(MinorUnits(amount, code))
}

// FormatAbs renders the absolute value of the amount. Loans are stored as
// negative balances but shown as the positive amount owed.
func FormatAbs(amount float64, code string) string {
	if amount < 0 {
		amount = -amount
	}
	return Format(amount, code)
}

// Percent renders a percentage with two decimals, e.g. "12.34%".
func Percent(p float64) string {
	return fmt.Sprintf("%s%%", decimal.NewFromFloat(p).StringFixed(2))
}
