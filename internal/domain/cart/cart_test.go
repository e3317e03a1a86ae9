package cart

import (
	"testing"
	"time"

	"github.com/merchantkit/pricing/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testContext() PricingContext {
	return PricingContext{
		Customer: Customer{ID: "cust_1"},
		Lines: []LineItem{
			{ID: "line_1", ProductID: "prod_1", Quantity: 2, UnitPrice: decimal.RequireFromString("19.99"), Weight: decimal.RequireFromString("0.5")},
			{ID: "line_2", ProductID: "prod_2", Quantity: 1, UnitPrice: decimal.NewFromInt(5)},
		},
		Currency: "usd",
		Now:      time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestContextDerivedTotals(t *testing.T) {
	pctx := testContext()

	assert.True(t, pctx.Subtotal().Equal(decimal.RequireFromString("44.98")))
	assert.Equal(t, int64(3), pctx.TotalQuantity())
	assert.True(t, pctx.TotalWeight().Equal(decimal.NewFromInt(1)))
}

func TestMutationInvalidatesResult(t *testing.T) {
	c := NewCart(testContext())
	assert.Equal(t, CartStatusDraft, c.Status)

	c.AttachResult(&PricingResult{ID: "price_1"})
	assert.Equal(t, CartStatusPriced, c.Status)

	mutations := []struct {
		name   string
		mutate func(*Cart)
	}{
		{"coupon code", func(c *Cart) { c.SetCouponCode("SAVE10") }},
		{"shipping address", func(c *Cart) { c.SetShippingAddress(types.Address{Country: "US"}) }},
		{"shipping method", func(c *Cart) { c.SetShippingMethod("method_express") }},
		{"lines", func(c *Cart) { c.SetLines(nil) }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			c.AttachResult(&PricingResult{ID: "price_n"})
			tt.mutate(c)
			assert.Equal(t, CartStatusDraft, c.Status)
			assert.Nil(t, c.Result)
		})
	}
}
