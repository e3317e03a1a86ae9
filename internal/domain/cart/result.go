package cart

import (
	"github.com/merchantkit/pricing/internal/types"

	"github.com/shopspring/decimal"
)

// AppliedDiscount is one resolved discount application inside a result
type AppliedDiscount struct {
	DiscountID      string             `json:"discount_id"`
	Code            string             `json:"code,omitempty"`
	Type            types.DiscountType `json:"type"`
	Amount          decimal.Decimal    `json:"amount"`
	AffectedLineIDs []string           `json:"affected_line_ids,omitempty"`
}

// TaxLine is one breakdown row for invoice display
type TaxLine struct {
	TaxRateID     string             `json:"tax_rate_id"`
	Name          string             `json:"name"`
	Jurisdiction  string             `json:"jurisdiction,omitempty"`
	Component     types.GSTComponent `json:"component,omitempty"`
	Rate          decimal.Decimal    `json:"rate"`
	TaxableAmount decimal.Decimal    `json:"taxable_amount"`
	Amount        decimal.Decimal    `json:"amount"`
}

// PricingFlag marks a non-fatal condition the caller should surface
type PricingFlag string

const (
	// FlagTaxZoneNotFound: no tax zone matched, tax priced as zero
	FlagTaxZoneNotFound PricingFlag = "tax_zone_not_found"
	// FlagShippingZoneNotFound: no shipping zone matched, shipping priced as zero
	FlagShippingZoneNotFound PricingFlag = "shipping_zone_not_found"
	// FlagCouponRejected: the supplied coupon code was rejected, see CouponRejection
	FlagCouponRejected PricingFlag = "coupon_rejected"
)

// CouponRejection carries the shopper-facing reason a coupon was dropped
type CouponRejection struct {
	Code      string `json:"code"`
	ErrorCode string `json:"error_code"`
	Reason    string `json:"reason"`
}

// PricingResult is the assembled output of one pipeline run. It is created
// fresh each run and never mutated in place; a new result replaces the old
// one on every cart change.
type PricingResult struct {
	ID                  string            `json:"id"`
	Currency            string            `json:"currency"`
	Subtotal            decimal.Decimal   `json:"subtotal"`
	DiscountTotal       decimal.Decimal   `json:"discount_total"`
	AppliedDiscounts    []AppliedDiscount `json:"applied_discounts"`
	TaxTotal            decimal.Decimal   `json:"tax_total"`
	TaxBreakdown        []TaxLine         `json:"tax_breakdown"`
	ShippingTotal       decimal.Decimal   `json:"shipping_total"`
	GrandTotal          decimal.Decimal   `json:"grand_total"`
	FreeShippingApplied bool              `json:"free_shipping_applied"`
	Flags               []PricingFlag     `json:"flags,omitempty"`
	CouponRejection     *CouponRejection  `json:"coupon_rejection,omitempty"`
}
