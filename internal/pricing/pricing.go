package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Quote is the full price breakdown for one checkout, computed exactly once
// from a cart snapshot. Callers must not re-derive any of these fields.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// NewQuote composes Tax and Shipping over a subtotal.
func NewQuote(subtotal, taxRate, freeThreshold, flatRate decimal.Decimal) Quote {
	tax := Tax(subtotal, taxRate)
	shipping := Shipping(subtotal, freeThreshold, flatRate)
	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

// DiscountPercent returns the rounded percentage saved between the original
// and current price. A zero or negative original yields 0 rather than a
// division error. The result is not clamped: current > original produces a
// negative percentage, which callers are expected to avoid.
func DiscountPercent(original, current decimal.Decimal) int64 {
	if original.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return original.Sub(current).
		Div(original).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// Tax returns subtotal * rate.
func Tax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate)
}

// Shipping is free only when the subtotal strictly exceeds the threshold.
// A subtotal exactly at the threshold still pays the flat rate.
func Shipping(subtotal, freeThreshold, flatRate decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(freeThreshold) {
		return decimal.Zero
	}
	return flatRate
}

// FormatCurrency renders an amount for display with zero decimal places,
// grouped per the given BCP 47 locale (en-IN groups lakhs/crores). Unknown
// locales fall back to English, unknown currency codes to INR.
func FormatCurrency(amount decimal.Decimal, locale, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.INR
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}

	p := message.NewPrinter(tag)
	return p.Sprintf("%v%d", currency.Symbol(unit), amount.Round(0).IntPart())
}
