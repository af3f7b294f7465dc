package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value as an integer amount of minor units
// (cents for USD) plus an ISO 4217 currency code. All ledger arithmetic is
// integer-only; floating point never touches an amount.
type Money struct {
	Amount   int64  `gorm:"column:amount;type:bigint;not null;default:0" json:"amount"`
	Currency string `gorm:"column:currency;type:varchar(3);not null;default:'USD'" json:"currency"`
}

// New builds a Money value from minor units and a currency code.
func New(minorUnits int64, currency string) Money {
	return Money{Amount: minorUnits, Currency: strings.ToUpper(currency)}
}

// USD builds a Money value in US dollars (cents).
func USD(cents int64) Money { return Money{Amount: cents, Currency: "USD"} }

// Zero returns a zero value in the given currency.
func Zero(currency string) Money {
	return Money{Amount: 0, Currency: strings.ToUpper(currency)}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// IsNegative reports whether the amount is strictly less than zero.
func (m Money) IsNegative() bool { return m.Amount < 0 }

// SameCurrency reports whether both values carry the same currency code.
func (m Money) SameCurrency(other Money) bool {
	return strings.EqualFold(m.Currency, other.Currency)
}

// Add returns m + other. Panics on currency mismatch; callers validate
// currencies before doing ledger math.
func (m Money) Add(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

// Sub returns m - other. Panics on currency mismatch.
func (m Money) Sub(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}
}

// Mul returns m scaled by an integer quantity.
func (m Money) Mul(qty int64) Money {
	return Money{Amount: m.Amount * qty, Currency: m.Currency}
}

// Cmp compares two amounts: -1 if m < other, 0 if equal, +1 if m > other.
// Panics on currency mismatch.
func (m Money) Cmp(other Money) int {
	m.assertSameCurrency(other)
	switch {
	case m.Amount < other.Amount:
		return -1
	case m.Amount > other.Amount:
		return 1
	default:
		return 0
	}
}

// GreaterThanOrEqual reports m >= other.
func (m Money) GreaterThanOrEqual(other Money) bool { return m.Cmp(other) >= 0 }

// LessThan reports m < other.
func (m Money) LessThan(other Money) bool { return m.Cmp(other) < 0 }

// ApplyRate returns rate * m rounded half-up to the minor unit. This is the
// only division-like operation Money supports; it exists for tax and
// percentage calculations.
func (m Money) ApplyRate(rate decimal.Decimal) Money {
	amount := decimal.NewFromInt(m.Amount).Mul(rate).Round(0)
	return Money{Amount: amount.IntPart(), Currency: m.Currency}
}

// PercentOf returns m / total as a percentage with two decimal places,
// rounded half-up. Returns zero when total is zero.
func (m Money) PercentOf(total Money) decimal.Decimal {
	m.assertSameCurrency(total)
	if total.Amount == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(m.Amount).
		Div(decimal.NewFromInt(total.Amount)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// Decimal returns the amount in major units as an exact decimal (e.g.
// 123456 cents -> 1234.56). Display helper only; never fed back into
// ledger arithmetic.
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.Amount).Div(decimal.NewFromInt(100))
}

// String formats the amount for logs and cash-flow descriptions.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(2), m.Currency)
}

func (m Money) assertSameCurrency(other Money) {
	if !m.SameCurrency(other) {
		panic(fmt.Sprintf("money: currency mismatch %s vs %s", m.Currency, other.Currency))
	}
}
