package cart

import (
	"time"

	"github.com/merchantkit/pricing/internal/types"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// LineItem is one cart line as seen by pricing. UnitPrice is in the catalog
// currency of the pricing context; Weight is per unit.
type LineItem struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	VariantID     string          `json:"variant_id"`
	CategoryIDs   []string        `json:"category_ids"`
	TaxCategoryID string          `json:"tax_category_id"`
	Quantity      int64           `json:"quantity" validate:"gt=0"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Weight        decimal.Decimal `json:"weight"`
	IsOnSale      bool            `json:"is_on_sale"`
}

// Total returns the unrounded line total
func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Customer is the slice of the customer profile pricing consults
type Customer struct {
	ID           string `json:"id"`
	Tier         string `json:"tier"`
	IsFirstOrder bool   `json:"is_first_order"`
}

// PricingContext is the immutable input to one pipeline run. Two runs over
// equal contexts and equal configuration snapshots produce identical results.
type PricingContext struct {
	Customer            Customer      `json:"customer"`
	Lines               []LineItem    `json:"lines" validate:"dive"`
	ShippingAddress     types.Address `json:"shipping_address"`
	BillingAddress      types.Address `json:"billing_address"`
	Currency            string        `json:"currency" validate:"required"`
	PresentmentCurrency string        `json:"presentment_currency"`
	CouponCode          string        `json:"coupon_code"`
	ShippingMethodID    string        `json:"shipping_method_id"`
	Now                 time.Time     `json:"now" validate:"required"`
}

// Subtotal returns the unrounded sum of line totals
func (c PricingContext) Subtotal() decimal.Decimal {
	return lo.Reduce(c.Lines, func(acc decimal.Decimal, l LineItem, _ int) decimal.Decimal {
		return acc.Add(l.Total())
	}, decimal.Zero)
}

// TotalQuantity returns the sum of line quantities
func (c PricingContext) TotalQuantity() int64 {
	return lo.Reduce(c.Lines, func(acc int64, l LineItem, _ int) int64 {
		return acc + l.Quantity
	}, int64(0))
}

// TotalWeight returns the total package weight
func (c PricingContext) TotalWeight() decimal.Decimal {
	return lo.Reduce(c.Lines, func(acc decimal.Decimal, l LineItem, _ int) decimal.Decimal {
		return acc.Add(l.Weight.Mul(decimal.NewFromInt(l.Quantity)))
	}, decimal.Zero)
}
