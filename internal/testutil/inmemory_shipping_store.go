package testutil

import (
	"context"
	"sync"

	"github.com/merchantkit/pricing/internal/domain/shippingrate"
	ierr "github.com/merchantkit/pricing/internal/errors"
)

// InMemoryShippingStore implements shippingrate.Repository
type InMemoryShippingStore struct {
	mu      sync.RWMutex
	methods map[string]*shippingrate.ShippingMethod
	rates   []*shippingrate.ShippingRate
}

// NewInMemoryShippingStore creates a new in-memory shipping store
func NewInMemoryShippingStore() *InMemoryShippingStore {
	return &InMemoryShippingStore{
		methods: make(map[string]*shippingrate.ShippingMethod),
	}
}

// AddMethod seeds a shipping method into the store
func (s *InMemoryShippingStore) AddMethod(m *shippingrate.ShippingMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.methods[m.ID] = m
}

// AddRate seeds a shipping rate into the store
func (s *InMemoryShippingStore) AddRate(r *shippingrate.ShippingRate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = append(s.rates, r)
}

// Clear removes all methods and rates from the store
func (s *InMemoryShippingStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.methods = make(map[string]*shippingrate.ShippingMethod)
	s.rates = nil
}

func (s *InMemoryShippingStore) GetMethod(ctx context.Context, id string) (*shippingrate.ShippingMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.methods[id]
	if !ok {
		return nil, ierr.NewError("shipping method not found").
			WithReportableDetails(map[string]any{"method_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return m, nil
}

func (s *InMemoryShippingStore) ListMethods(ctx context.Context) ([]*shippingrate.ShippingMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*shippingrate.ShippingMethod
	for _, m := range s.methods {
		result = append(result, m)
	}
	return result, nil
}

func (s *InMemoryShippingStore) ListRates(ctx context.Context, zoneID, methodID string) ([]*shippingrate.ShippingRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*shippingrate.ShippingRate
	for _, r := range s.rates {
		if r.ZoneID == zoneID && r.MethodID == methodID {
			result = append(result, r)
		}
	}
	return result, nil
}
