package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizesCurrency(t *testing.T) {
	m := New(12345, "usd")
	assert.Equal(t, int64(12345), m.Amount)
	assert.Equal(t, "USD", m.Currency)
}

func TestArithmetic(t *testing.T) {
	a := USD(10050)
	b := USD(4925)

	assert.Equal(t, USD(14975), a.Add(b))
	assert.Equal(t, USD(5125), a.Sub(b))
	assert.Equal(t, USD(-5125), b.Sub(a))
	assert.Equal(t, USD(30150), a.Mul(3))
}

func TestArithmeticPanicsOnCurrencyMismatch(t *testing.T) {
	usd := USD(100)
	eur := New(100, "EUR")

	assert.Panics(t, func() { usd.Add(eur) })
	assert.Panics(t, func() { usd.Sub(eur) })
	assert.Panics(t, func() { usd.Cmp(eur) })
}

func TestPredicates(t *testing.T) {
	assert.True(t, Zero("USD").IsZero())
	assert.True(t, USD(1).IsPositive())
	assert.True(t, USD(-1).IsNegative())
	assert.False(t, USD(-1).IsPositive())
	assert.False(t, USD(1).IsNegative())
}

func TestComparisons(t *testing.T) {
	assert.Equal(t, -1, USD(100).Cmp(USD(200)))
	assert.Equal(t, 0, USD(100).Cmp(USD(100)))
	assert.Equal(t, 1, USD(200).Cmp(USD(100)))

	assert.True(t, USD(100).GreaterThanOrEqual(USD(100)))
	assert.True(t, USD(99).LessThan(USD(100)))
	assert.False(t, USD(100).LessThan(USD(100)))
}

func TestSameCurrencyIsCaseInsensitive(t *testing.T) {
	assert.True(t, New(1, "usd").SameCurrency(USD(1)))
	assert.False(t, USD(1).SameCurrency(New(1, "EUR")))
}

func TestApplyRateRoundsHalfUp(t *testing.T) {
	// 10% of 100.05 is 10.005, which rounds up to 10.01.
	rate := decimal.RequireFromString("0.10")
	assert.Equal(t, USD(1001), USD(10005).ApplyRate(rate))

	// 16% VAT on 123.45 is 19.752, rounding to 19.75.
	vat := decimal.RequireFromString("0.16")
	assert.Equal(t, USD(1975), USD(12345).ApplyRate(vat))

	assert.Equal(t, USD(0), USD(10005).ApplyRate(decimal.Zero))
}

func TestPercentOf(t *testing.T) {
	pct := USD(35050).PercentOf(USD(500000))
	assert.Equal(t, "7.01", pct.StringFixed(2))

	// A third rounds half-up at two decimal places.
	third := USD(100).PercentOf(USD(300))
	assert.Equal(t, "33.33", third.StringFixed(2))

	assert.True(t, USD(100).PercentOf(USD(0)).IsZero())
}

func TestDecimalAndString(t *testing.T) {
	m := USD(123456)
	require.Equal(t, "1234.56", m.Decimal().StringFixed(2))
	assert.Equal(t, "1234.56 USD", m.String())
	assert.Equal(t, "-0.05 USD", USD(-5).String())
	assert.Equal(t, "0.00 USD", Zero("USD").String())
}
