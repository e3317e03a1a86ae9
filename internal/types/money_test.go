package types

import (
	"testing"

	ierr "github.com/merchantkit/pricing/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyNormalizesCurrency(t *testing.T) {
	m := NewMoney(decimal.NewFromInt(10), " USD ")
	assert.Equal(t, "usd", m.Currency)
}

func TestMoneyAdd(t *testing.T) {
	a := NewMoney(decimal.RequireFromString("10.50"), "usd")
	b := NewMoney(decimal.RequireFromString("4.25"), "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount.Equal(decimal.RequireFromString("14.75")))
	assert.Equal(t, "usd", sum.Currency)
}

func TestMoneyAddCurrencyMismatch(t *testing.T) {
	a := NewMoney(decimal.NewFromInt(10), "usd")
	b := NewMoney(decimal.NewFromInt(10), "eur")

	_, err := a.Add(b)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrCurrencyMismatch))

	_, err = a.Sub(b)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrCurrencyMismatch))

	_, err = a.Cmp(b)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrCurrencyMismatch))
}

func TestMoneySub(t *testing.T) {
	a := NewMoney(decimal.NewFromInt(10), "usd")
	b := NewMoney(decimal.NewFromInt(4), "usd")

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount.Equal(decimal.NewFromInt(6)))
}

func TestMoneyMulDecimal(t *testing.T) {
	m := NewMoney(decimal.RequireFromString("19.99"), "usd")
	scaled := m.MulDecimal(decimal.NewFromInt(3))
	assert.True(t, scaled.Amount.Equal(decimal.RequireFromString("59.97")))
}

func TestMoneyCmp(t *testing.T) {
	a := NewMoney(decimal.NewFromInt(5), "usd")
	b := NewMoney(decimal.NewFromInt(7), "usd")

	cmp, err := a.Cmp(b)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = b.Cmp(a)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)

	cmp, err = a.Cmp(a)
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)
}

func TestMoneyClampFloor(t *testing.T) {
	neg := NewMoney(decimal.NewFromInt(-5), "usd")
	assert.True(t, neg.ClampFloor().IsZero())

	pos := NewMoney(decimal.NewFromInt(5), "usd")
	assert.True(t, pos.ClampFloor().Amount.Equal(decimal.NewFromInt(5)))
}

func TestCurrencyPrecision(t *testing.T) {
	assert.Equal(t, int32(2), GetCurrencyPrecision("usd"))
	assert.Equal(t, int32(0), GetCurrencyPrecision("JPY"))
	assert.Equal(t, int32(3), GetCurrencyPrecision("kwd"))
	// Unknown codes fall back to two decimals
	assert.Equal(t, int32(2), GetCurrencyPrecision("xyz"))
}
