package types

import (
	"fmt"

	ierr "github.com/merchantkit/pricing/internal/errors"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point amount tagged with its currency. Arithmetic across
// currencies is forbidden; convert through the currency service first.
// Amounts keep full precision until the rounder quantizes them at the end of
// a pipeline run.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney creates a Money with a normalized currency code
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{
		Amount:   amount,
		Currency: NormalizeCurrency(currency),
	}
}

// ZeroMoney returns a zero amount in the given currency
func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

// MoneyFromFloat is a convenience constructor for configuration loaded from
// sources that store plain numbers. The float is converted once, at the load
// boundary.
func MoneyFromFloat(amount float64, currency string) Money {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), NormalizeCurrency(m.Currency))
}

// IsZero reports whether the amount is exactly zero
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// IsNegative reports whether the amount is below zero
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// Add returns m + other, failing on a currency mismatch
func (m Money) Add(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.Amount.Add(other.Amount), m.Currency), nil
}

// Sub returns m - other, failing on a currency mismatch
func (m Money) Sub(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.Amount.Sub(other.Amount), m.Currency), nil
}

// MulDecimal scales the amount by a dimensionless factor
func (m Money) MulDecimal(factor decimal.Decimal) Money {
	return NewMoney(m.Amount.Mul(factor), m.Currency)
}

// Neg returns the negated amount
func (m Money) Neg() Money {
	return NewMoney(m.Amount.Neg(), m.Currency)
}

// Cmp compares two same-currency amounts: -1 if m < other, 0 if equal, 1 if greater
func (m Money) Cmp(other Money) (int, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return 0, err
	}
	return m.Amount.Cmp(other.Amount), nil
}

// ClampFloor returns m or zero, whichever is greater. Discount and tax totals
// never go negative.
func (m Money) ClampFloor() Money {
	if m.Amount.IsNegative() {
		return ZeroMoney(m.Currency)
	}
	return m
}

func (m Money) assertSameCurrency(other Money) error {
	if !IsMatchingCurrency(m.Currency, other.Currency) {
		return ierr.NewError("money currency mismatch").
			WithHintf("Cannot combine %s with %s", NormalizeCurrency(m.Currency), NormalizeCurrency(other.Currency)).
			WithReportableDetails(map[string]any{
				"left":  NormalizeCurrency(m.Currency),
				"right": NormalizeCurrency(other.Currency),
			}).
			Mark(ierr.ErrCurrencyMismatch)
	}
	return nil
}
