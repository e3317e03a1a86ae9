package taxrate

import (
	"time"

	"github.com/merchantkit/pricing/internal/types"

	"github.com/shopspring/decimal"
)

// TaxCategory marks a group of products taxable or exempt. Every line
// resolves to exactly one category, explicitly or through the store default.
type TaxCategory struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	IsTaxExempt bool         `json:"is_tax_exempt"`
	Status      types.Status `json:"status"`
}

// IsActive reports whether the category participates in tax resolution
func (c *TaxCategory) IsActive() bool {
	return c.Status == types.StatusActive
}

// TaxRate is one ordered rate configured for a (zone, category) pair.
// Non-compound rates compute against the original taxable base; compound
// rates compute against base plus tax accumulated so far. A GST-treated rate
// splits its percentage by jurisdiction (CGST+SGST intra-state, IGST
// inter-state).
type TaxRate struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Code          string             `json:"code"`
	ZoneID        string             `json:"zone_id"`
	TaxCategoryID string             `json:"tax_category_id"`
	RateType      types.TaxRateType  `json:"rate_type"`
	Percentage    decimal.Decimal    `json:"percentage"`
	FixedValue    decimal.Decimal    `json:"fixed_value"`
	IsCompound    bool               `json:"is_compound"`
	TaxShipping   bool               `json:"tax_shipping"`
	MinimumAmount *decimal.Decimal   `json:"minimum_amount"`
	MaximumAmount *decimal.Decimal   `json:"maximum_amount"`
	Priority      int                `json:"priority"`
	Jurisdiction  string             `json:"jurisdiction"`
	GSTTreatment  types.GSTTreatment `json:"gst_treatment"`
	ValidFrom     *time.Time         `json:"valid_from"`
	ValidTo       *time.Time         `json:"valid_to"`
	Status        types.Status       `json:"status"`
}

// IsActive reports whether the rate participates in tax computation
func (r *TaxRate) IsActive() bool {
	return r.Status == types.StatusActive
}

// IsEffective reports whether now falls inside the rate's validity window
func (r *TaxRate) IsEffective(now time.Time) bool {
	if r.ValidFrom != nil && r.ValidFrom.After(now) {
		return false
	}
	if r.ValidTo != nil && r.ValidTo.Before(now) {
		return false
	}
	return true
}

// ClampTax applies the configured minimum/maximum bounds to a computed tax
// amount.
func (r *TaxRate) ClampTax(amount decimal.Decimal) decimal.Decimal {
	if r.MinimumAmount != nil && amount.LessThan(*r.MinimumAmount) {
		return *r.MinimumAmount
	}
	if r.MaximumAmount != nil && amount.GreaterThan(*r.MaximumAmount) {
		return *r.MaximumAmount
	}
	return amount
}
