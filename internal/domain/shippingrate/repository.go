package shippingrate

import (
	"context"
)

// Repository provides read access to shipping methods and the rates
// configured per (zone, method) pair.
type Repository interface {
	GetMethod(ctx context.Context, id string) (*ShippingMethod, error)
	ListMethods(ctx context.Context) ([]*ShippingMethod, error)
	ListRates(ctx context.Context, zoneID, methodID string) ([]*ShippingRate, error)
}
