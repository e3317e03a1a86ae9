package testutil

import (
	"context"
	"sync"

	"github.com/merchantkit/pricing/internal/domain/exchangerate"
	"github.com/merchantkit/pricing/internal/types"
)

// InMemoryExchangeRateStore implements exchangerate.Repository
type InMemoryExchangeRateStore struct {
	mu    sync.RWMutex
	rates []*exchangerate.ExchangeRate
}

// NewInMemoryExchangeRateStore creates a new in-memory exchange rate store
func NewInMemoryExchangeRateStore() *InMemoryExchangeRateStore {
	return &InMemoryExchangeRateStore{}
}

// Add seeds an exchange rate edge into the store
func (s *InMemoryExchangeRateStore) Add(r *exchangerate.ExchangeRate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = append(s.rates, r)
}

// Clear removes all edges from the store
func (s *InMemoryExchangeRateStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = nil
}

func (s *InMemoryExchangeRateStore) ListByPair(ctx context.Context, fromCurrency, toCurrency string) ([]*exchangerate.ExchangeRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*exchangerate.ExchangeRate
	for _, r := range s.rates {
		if types.IsMatchingCurrency(r.FromCurrency, fromCurrency) &&
			types.IsMatchingCurrency(r.ToCurrency, toCurrency) {
			result = append(result, r)
		}
	}
	return result, nil
}
