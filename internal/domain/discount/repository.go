package discount

import (
	"context"
)

// Repository provides access to configured discounts and the per-customer
// usage history the eligibility filter consults. Resolution only reads;
// UpdateUsage is called by the redemption service when an order finalizes.
type Repository interface {
	Get(ctx context.Context, id string) (*Discount, error)
	GetByCode(ctx context.Context, code string) (*Discount, error)
	ListActive(ctx context.Context) ([]*Discount, error)
	// CustomerUsageCount returns how many finalized orders of this customer
	// have redeemed the discount
	CustomerUsageCount(ctx context.Context, discountID, customerID string) (int, error)
	// UpdateUsage persists a usage-count increment guarded by the version the
	// caller read; implementations return ErrVersionConflict when the stored
	// version moved.
	UpdateUsage(ctx context.Context, discountID string, expectedVersion int) error
}
