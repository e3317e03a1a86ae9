package exchangerate

import (
	"context"
)

// Repository provides read access to the configured exchange-rate edges
type Repository interface {
	// ListByPair returns all edges from one currency to another, any status,
	// any window; the converter filters and picks the latest effective one.
	ListByPair(ctx context.Context, fromCurrency, toCurrency string) ([]*ExchangeRate, error)
}
