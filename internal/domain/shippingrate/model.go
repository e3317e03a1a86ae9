package shippingrate

import (
	"github.com/merchantkit/pricing/internal/types"

	"github.com/shopspring/decimal"
)

// ShippingMethod is a shopper-facing delivery option (e.g. standard, express).
// Its cost comes from the rate configured for (zone, method).
type ShippingMethod struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	SortOrder int          `json:"sort_order"`
	Status    types.Status `json:"status"`
}

// IsActive reports whether the method can be offered at checkout
func (m *ShippingMethod) IsActive() bool {
	return m.Status == types.StatusActive
}

// ShippingRate is the cost formula configured for a (zone, method) pair:
//
//	base + weight*perWeight + items*perItem + orderAmount*percentage/100 + handling
//
// clamped to [MinimumCost, MaximumCost]. Weight/order-amount bounds gate
// applicability; a rate whose bounds reject the cart is simply not offered.
type ShippingRate struct {
	ID                    string           `json:"id"`
	ZoneID                string           `json:"zone_id"`
	MethodID              string           `json:"method_id"`
	Currency              string           `json:"currency"`
	BaseRate              decimal.Decimal  `json:"base_rate"`
	PerWeightRate         decimal.Decimal  `json:"per_weight_rate"`
	PerItemRate           decimal.Decimal  `json:"per_item_rate"`
	PercentageRate        decimal.Decimal  `json:"percentage_rate"`
	HandlingFee           decimal.Decimal  `json:"handling_fee"`
	MinimumWeight         *decimal.Decimal `json:"minimum_weight"`
	MaximumWeight         *decimal.Decimal `json:"maximum_weight"`
	MinimumOrderAmount    *decimal.Decimal `json:"minimum_order_amount"`
	MaximumOrderAmount    *decimal.Decimal `json:"maximum_order_amount"`
	MinimumCost           *decimal.Decimal `json:"minimum_cost"`
	MaximumCost           *decimal.Decimal `json:"maximum_cost"`
	FreeShippingThreshold *decimal.Decimal `json:"free_shipping_threshold"`
	Status                types.Status     `json:"status"`
}

// IsActive reports whether the rate participates in shipping computation
func (r *ShippingRate) IsActive() bool {
	return r.Status == types.StatusActive
}

// AppliesTo reports whether the package weight and order amount fall inside
// the rate's configured bounds.
func (r *ShippingRate) AppliesTo(weight, orderAmount decimal.Decimal) bool {
	if r.MinimumWeight != nil && weight.LessThan(*r.MinimumWeight) {
		return false
	}
	if r.MaximumWeight != nil && weight.GreaterThan(*r.MaximumWeight) {
		return false
	}
	if r.MinimumOrderAmount != nil && orderAmount.LessThan(*r.MinimumOrderAmount) {
		return false
	}
	if r.MaximumOrderAmount != nil && orderAmount.GreaterThan(*r.MaximumOrderAmount) {
		return false
	}
	return true
}

// Cost evaluates the rate formula and applies the min/max cost clamp
func (r *ShippingRate) Cost(weight decimal.Decimal, itemCount int64, orderAmount decimal.Decimal) decimal.Decimal {
	cost := r.BaseRate.
		Add(weight.Mul(r.PerWeightRate)).
		Add(decimal.NewFromInt(itemCount).Mul(r.PerItemRate)).
		Add(orderAmount.Mul(r.PercentageRate).Div(decimal.NewFromInt(100))).
		Add(r.HandlingFee)

	if r.MinimumCost != nil && cost.LessThan(*r.MinimumCost) {
		cost = *r.MinimumCost
	}
	if r.MaximumCost != nil && cost.GreaterThan(*r.MaximumCost) {
		cost = *r.MaximumCost
	}
	return cost
}

// QualifiesForFreeShipping reports whether the order amount clears the rate's
// own free-shipping threshold.
func (r *ShippingRate) QualifiesForFreeShipping(orderAmount decimal.Decimal) bool {
	return r.FreeShippingThreshold != nil && orderAmount.GreaterThanOrEqual(*r.FreeShippingThreshold)
}
