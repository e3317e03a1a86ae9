package taxrate

import (
	"context"
)

// Repository provides read access to tax categories and the rates configured
// per (zone, category) pair.
type Repository interface {
	GetCategory(ctx context.Context, id string) (*TaxCategory, error)
	// ListRates returns the rates configured for the zone+category pair, in
	// no particular order; the calculator sorts by priority.
	ListRates(ctx context.Context, zoneID, taxCategoryID string) ([]*TaxRate, error)
}
