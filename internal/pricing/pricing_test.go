package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, int64(25), DiscountPercent(d("100"), d("75")))
	assert.Equal(t, int64(0), DiscountPercent(d("100"), d("100")))
	assert.Equal(t, int64(0), DiscountPercent(d("0"), d("0")))
	assert.Equal(t, int64(33), DiscountPercent(d("1500"), d("999")))
}

func TestDiscountPercent_NotClamped(t *testing.T) {
	// Current above original is a caller bug; the formula passes the
	// negative percentage through rather than hiding it.
	assert.Equal(t, int64(-50), DiscountPercent(d("100"), d("150")))
}

func TestTax(t *testing.T) {
	assert.True(t, d("81").Equal(Tax(d("450"), d("0.18"))))
	assert.True(t, decimal.Zero.Equal(Tax(decimal.Zero, d("0.18"))))
}

func TestShipping_ThresholdBoundary(t *testing.T) {
	// Exactly at the threshold still pays shipping: strict >, not >=.
	assert.True(t, d("50").Equal(Shipping(d("500"), d("500"), d("50"))))
	assert.True(t, decimal.Zero.Equal(Shipping(d("500.01"), d("500"), d("50"))))
	assert.True(t, d("50").Equal(Shipping(d("499"), d("500"), d("50"))))
}

func TestNewQuote(t *testing.T) {
	// Cart {A: 2 @ 100, B: 1 @ 250} -> subtotal 450.
	q := NewQuote(d("450"), d("0.18"), d("500"), d("50"))

	assert.True(t, d("450").Equal(q.Subtotal))
	assert.True(t, d("81").Equal(q.Tax))
	assert.True(t, d("50").Equal(q.Shipping))
	assert.True(t, d("581").Equal(q.Total))
}

func TestNewQuote_FreeShipping(t *testing.T) {
	q := NewQuote(d("2500"), d("0.18"), d("2000"), d("150"))

	assert.True(t, decimal.Zero.Equal(q.Shipping))
	assert.True(t, d("2950").Equal(q.Total))
}

func TestFormatCurrency(t *testing.T) {
	got := FormatCurrency(d("1250.75"), "en-IN", "INR")

	// Zero decimal places, rounded.
	assert.NotContains(t, got, ".")
	assert.Contains(t, got, "₹")
}

func TestFormatCurrency_UnknownInputsFallBack(t *testing.T) {
	got := FormatCurrency(decimal.Zero, "not-a-locale!!", "???")

	assert.NotEmpty(t, got)
	assert.Contains(t, got, "0")
}
