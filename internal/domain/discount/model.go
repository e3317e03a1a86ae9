package discount

import (
	"time"

	"github.com/merchantkit/pricing/internal/types"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Discount is a configured promotion. Value is interpreted per Type:
// a percentage for percentage-like types, a fixed amount (in Currency) for
// amount-like types. Eligibility predicates are evaluated by the resolver
// against an immutable pricing context; the model only answers questions
// about its own configuration.
type Discount struct {
	ID           string              `json:"id"`
	Code         string              `json:"code"`
	Name         string              `json:"name"`
	Type         types.DiscountType  `json:"type"`
	Scope        types.DiscountScope `json:"scope"`
	Value        decimal.Decimal     `json:"value"`
	Currency     string              `json:"currency"`
	CanCombine   bool                `json:"can_combine"`
	Priority     int                 `json:"priority"`
	RequiresCode bool                `json:"requires_code"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	TotalUsageLimit  *int `json:"total_usage_limit"`
	PerCustomerLimit *int `json:"per_customer_limit"`
	UsageCount       int  `json:"usage_count"`
	// Version guards concurrent usage-count increments (optimistic concurrency)
	Version int `json:"version"`

	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	MaxOrderAmount *decimal.Decimal `json:"max_order_amount"`
	MinQuantity    *int             `json:"min_quantity"`
	MaxQuantity    *int             `json:"max_quantity"`

	IncludedProductIDs  []string `json:"included_product_ids"`
	ExcludedProductIDs  []string `json:"excluded_product_ids"`
	IncludedCategoryIDs []string `json:"included_category_ids"`
	ExcludedCategoryIDs []string `json:"excluded_category_ids"`
	ExcludeSaleItems    bool     `json:"exclude_sale_items"`

	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount"`

	RequiredTier   *string `json:"required_tier"`
	FirstOrderOnly bool    `json:"first_order_only"`

	// BuyXGetY configuration
	BuyQuantity        int             `json:"buy_quantity"`
	GetQuantity        int             `json:"get_quantity"`
	GetProductIDs      []string        `json:"get_product_ids"`
	GetDiscountPercent decimal.Decimal `json:"get_discount_percent"`

	// VolumeTiers configuration, ordered ascending by MinQuantity
	VolumeTiers []VolumeTier `json:"volume_tiers"`

	Status types.Status `json:"status"`
}

// VolumeTier maps a minimum eligible quantity to a percentage off
type VolumeTier struct {
	MinQuantity int             `json:"min_quantity"`
	Percent     decimal.Decimal `json:"percent"`
}

// New creates an active discount with a generated id and a generated
// shopper-facing code. Campaigns that bring their own code overwrite Code
// after construction.
func New(name string, discountType types.DiscountType, value decimal.Decimal) *Discount {
	return &Discount{
		ID:     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DISCOUNT),
		Code:   types.GenerateDiscountCode(""),
		Name:   name,
		Type:   discountType,
		Value:  value,
		Status: types.StatusActive,
	}
}

// IsActive reports whether the discount participates in resolution
func (d *Discount) IsActive() bool {
	return d.Status == types.StatusActive
}

// IsLive reports whether now falls inside the discount's date window.
// Open-ended bounds are allowed on either side.
func (d *Discount) IsLive(now time.Time) bool {
	if d.StartDate != nil && now.Before(*d.StartDate) {
		return false
	}
	if d.EndDate != nil && now.After(*d.EndDate) {
		return false
	}
	return true
}

// IsExhausted reports whether the global usage limit has been reached
func (d *Discount) IsExhausted() bool {
	return d.TotalUsageLimit != nil && d.UsageCount >= *d.TotalUsageLimit
}

// AppliesToProduct checks the product/category include and exclude lists.
// Empty include lists mean "any product".
func (d *Discount) AppliesToProduct(productID string, categoryIDs []string) bool {
	if lo.Contains(d.ExcludedProductIDs, productID) {
		return false
	}
	if len(lo.Intersect(d.ExcludedCategoryIDs, categoryIDs)) > 0 {
		return false
	}
	if len(d.IncludedProductIDs) > 0 && !lo.Contains(d.IncludedProductIDs, productID) {
		return false
	}
	if len(d.IncludedCategoryIDs) > 0 && len(lo.Intersect(d.IncludedCategoryIDs, categoryIDs)) == 0 {
		return false
	}
	return true
}

// ClampAmount applies the configured per-discount cap and floors at zero
func (d *Discount) ClampAmount(amount decimal.Decimal) decimal.Decimal {
	if d.MaxDiscountAmount != nil && amount.GreaterThan(*d.MaxDiscountAmount) {
		amount = *d.MaxDiscountAmount
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
