package cart

import (
	"github.com/merchantkit/pricing/internal/types"
)

// CartStatus is the pricing state of a cart aggregate
type CartStatus string

const (
	// CartStatusDraft: the cart has been mutated since it was last priced
	CartStatusDraft CartStatus = "draft"
	// CartStatusPriced: the attached result matches the current context
	CartStatusPriced CartStatus = "priced"
)

// Cart is the aggregate the checkout service holds between recomputations.
// Any mutation of the pricing inputs drops the attached result and returns
// the cart to draft; the result itself is replaced wholesale, never edited.
type Cart struct {
	ID      string         `json:"id"`
	Status  CartStatus     `json:"status"`
	Context PricingContext `json:"context"`
	Result  *PricingResult `json:"result,omitempty"`
}

// NewCart creates an empty draft cart
func NewCart(context PricingContext) *Cart {
	return &Cart{
		ID:      types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CART),
		Status:  CartStatusDraft,
		Context: context,
	}
}

// AttachResult stores a fresh pricing result and marks the cart priced
func (c *Cart) AttachResult(result *PricingResult) {
	c.Result = result
	c.Status = CartStatusPriced
}

// invalidate drops the stale result after any input mutation
func (c *Cart) invalidate() {
	c.Result = nil
	c.Status = CartStatusDraft
}

// SetCouponCode replaces the coupon code and invalidates the result
func (c *Cart) SetCouponCode(code string) {
	c.Context.CouponCode = code
	c.invalidate()
}

// SetShippingAddress replaces the shipping address and invalidates the result
func (c *Cart) SetShippingAddress(address types.Address) {
	c.Context.ShippingAddress = address
	c.invalidate()
}

// SetShippingMethod replaces the chosen method and invalidates the result
func (c *Cart) SetShippingMethod(methodID string) {
	c.Context.ShippingMethodID = methodID
	c.invalidate()
}

// SetLines replaces the line items and invalidates the result
func (c *Cart) SetLines(lines []LineItem) {
	c.Context.Lines = lines
	c.invalidate()
}
