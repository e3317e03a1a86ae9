package types

import (
	"github.com/samber/lo"
)

// DiscountType represents the kind of discount and how its amount is computed
type DiscountType string

const (
	// DiscountTypePercentage takes a percentage off the eligible line subtotal
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeFixedAmount takes a fixed amount off the eligible line subtotal
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
	// DiscountTypeBuyXGetY discounts Y units for every X eligible units bought
	DiscountTypeBuyXGetY DiscountType = "buy_x_get_y"
	// DiscountTypeFreeShipping waives shipping cost without touching the discount total
	DiscountTypeFreeShipping DiscountType = "free_shipping"
	// DiscountTypeBundle discounts a configured product bundle bought together
	DiscountTypeBundle DiscountType = "bundle"
	// DiscountTypeVolumeTiers applies tiered percentages by total eligible quantity
	DiscountTypeVolumeTiers DiscountType = "volume_tiers"
	// DiscountTypeTradeIn credits a fixed trade-in allowance
	DiscountTypeTradeIn DiscountType = "trade_in"
	// DiscountTypeReferral rewards referred customers on their first order
	DiscountTypeReferral DiscountType = "referral"
	// DiscountTypeLoyalty rewards customers of a configured tier
	DiscountTypeLoyalty DiscountType = "loyalty"
	// DiscountTypeCartAbandonment is a recovery incentive delivered by code
	DiscountTypeCartAbandonment DiscountType = "cart_abandonment"
	// DiscountTypeOverstockClearance discounts configured clearance products
	DiscountTypeOverstockClearance DiscountType = "overstock_clearance"
	// DiscountTypeEarlyPayment rewards prepaid orders
	DiscountTypeEarlyPayment DiscountType = "early_payment"
)

func (t DiscountType) String() string {
	return string(t)
}

func (t DiscountType) Validate() error {
	allowed := []DiscountType{
		DiscountTypePercentage,
		DiscountTypeFixedAmount,
		DiscountTypeBuyXGetY,
		DiscountTypeFreeShipping,
		DiscountTypeBundle,
		DiscountTypeVolumeTiers,
		DiscountTypeTradeIn,
		DiscountTypeReferral,
		DiscountTypeLoyalty,
		DiscountTypeCartAbandonment,
		DiscountTypeOverstockClearance,
		DiscountTypeEarlyPayment,
	}
	if !lo.Contains(allowed, t) {
		return errInvalidEnum("discount_type", string(t))
	}
	return nil
}

// DiscountScope represents what part of the order a discount targets
type DiscountScope string

const (
	DiscountScopeOrder    DiscountScope = "order"
	DiscountScopeProduct  DiscountScope = "product"
	DiscountScopeCategory DiscountScope = "category"
	DiscountScopeShipping DiscountScope = "shipping"
)

func (s DiscountScope) String() string {
	return string(s)
}

func (s DiscountScope) Validate() error {
	allowed := []DiscountScope{
		DiscountScopeOrder,
		DiscountScopeProduct,
		DiscountScopeCategory,
		DiscountScopeShipping,
	}
	if !lo.Contains(allowed, s) {
		return errInvalidEnum("discount_scope", string(s))
	}
	return nil
}

// StackingPolicy decides the base combinable discounts are computed against.
// The engine defaults to remaining_amount: each combinable discount sees the
// subtotal reduced by the discounts applied before it.
type StackingPolicy string

const (
	// StackingPolicyOriginalBase computes every combinable discount against the
	// undiscounted eligible subtotal
	StackingPolicyOriginalBase StackingPolicy = "original_base"
	// StackingPolicyRemainingAmount computes each combinable discount against
	// the amount remaining after prior discounts
	StackingPolicyRemainingAmount StackingPolicy = "remaining_amount"
)

func (p StackingPolicy) String() string {
	return string(p)
}

func (p StackingPolicy) Validate() error {
	allowed := []StackingPolicy{
		StackingPolicyOriginalBase,
		StackingPolicyRemainingAmount,
	}
	if !lo.Contains(allowed, p) {
		return errInvalidEnum("stacking_policy", string(p))
	}
	return nil
}
