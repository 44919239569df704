// Package money para birimine duyarlı yuvarlama, sembol ve TRY çevrimi sağlar.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	TRY = "TRY"
	USD = "USD"
	EUR = "EUR"
	GBP = "GBP"
	JPY = "JPY"
)

var (
	ErrInvalidNumber = errors.New("invalid number")
	ErrMissingRate   = errors.New("exchange rate required for foreign currency")
)

var hundred = decimal.NewFromInt(100)

// minor units; listede olmayanlar 2 hane
var minorUnits = map[string]int32{
	TRY: 2,
	USD: 2,
	EUR: 2,
	GBP: 2,
	JPY: 0,
}

var symbols = map[string]string{
	TRY: "₺",
	USD: "$",
	EUR: "€",
	GBP: "£",
	JPY: "¥",
}

// Places returns the number of decimal places used for currency.
func Places(currency string) int32 {
	if p, ok := minorUnits[strings.ToUpper(currency)]; ok {
		return p
	}
	return 2
}

// Round rounds amount to the minor unit of currency, half away from zero.
func Round(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(Places(currency))
}

// Round2 is the two-decimal rounding used by every aggregation boundary.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Symbol returns the display symbol, or the code itself when unknown.
func Symbol(currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if s, ok := symbols[code]; ok {
		return s
	}
	return code
}

// Format renders amount as symbol + fixed minor units, e.g. "₺1234.50".
func Format(amount decimal.Decimal, currency string) string {
	return Symbol(currency) + amount.StringFixed(Places(currency))
}

// ToTRY converts amount to lira. TRY amounts pass through untouched; any other
// currency needs a positive rate (TRY per unit) and is rounded to kuruş.
func ToTRY(amount decimal.Decimal, currency string, rate decimal.NullDecimal) (decimal.Decimal, error) {
	if strings.EqualFold(currency, TRY) {
		return amount, nil
	}
	if !rate.Valid || !rate.Decimal.IsPositive() {
		return decimal.Zero, ErrMissingRate
	}
	return Round2(amount.Mul(rate.Decimal)), nil
}

// Percent returns round(amount * rate / 100, 2).
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(rate).Div(hundred))
}

// ParseDecimal accepts "1234.56", "1234,56" and surrounding whitespace.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrInvalidNumber
	}
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			return decimal.Zero, ErrInvalidNumber
		}
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidNumber
	}
	return d, nil
}

// Null wraps d as a valid NullDecimal.
func Null(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// OrZero unwraps n, treating null as zero.
func OrZero(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}
