package testutil

import (
	"context"
	"sync"

	"github.com/merchantkit/pricing/internal/domain/taxrate"
	ierr "github.com/merchantkit/pricing/internal/errors"
)

// InMemoryTaxStore implements taxrate.Repository
type InMemoryTaxStore struct {
	mu         sync.RWMutex
	categories map[string]*taxrate.TaxCategory
	rates      []*taxrate.TaxRate
}

// NewInMemoryTaxStore creates a new in-memory tax store
func NewInMemoryTaxStore() *InMemoryTaxStore {
	return &InMemoryTaxStore{
		categories: make(map[string]*taxrate.TaxCategory),
	}
}

// AddCategory seeds a tax category into the store
func (s *InMemoryTaxStore) AddCategory(c *taxrate.TaxCategory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

// AddRate seeds a tax rate into the store
func (s *InMemoryTaxStore) AddRate(r *taxrate.TaxRate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = append(s.rates, r)
}

// Clear removes all categories and rates from the store
func (s *InMemoryTaxStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = make(map[string]*taxrate.TaxCategory)
	s.rates = nil
}

func (s *InMemoryTaxStore) GetCategory(ctx context.Context, id string) (*taxrate.TaxCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, ierr.NewError("tax category not found").
			WithReportableDetails(map[string]any{"tax_category_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return c, nil
}

func (s *InMemoryTaxStore) ListRates(ctx context.Context, zoneID, taxCategoryID string) ([]*taxrate.TaxRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*taxrate.TaxRate
	for _, r := range s.rates {
		if r.ZoneID == zoneID && r.TaxCategoryID == taxCategoryID {
			result = append(result, r)
		}
	}
	return result, nil
}
