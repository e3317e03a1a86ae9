package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/merchantkit/pricing/internal/domain/discount"
	ierr "github.com/merchantkit/pricing/internal/errors"
)

// InMemoryDiscountStore implements discount.Repository
type InMemoryDiscountStore struct {
	mu        sync.RWMutex
	discounts map[string]*discount.Discount
	// usage[discountID][customerID] = finalized-order count
	usage map[string]map[string]int
}

// NewInMemoryDiscountStore creates a new in-memory discount store
func NewInMemoryDiscountStore() *InMemoryDiscountStore {
	return &InMemoryDiscountStore{
		discounts: make(map[string]*discount.Discount),
		usage:     make(map[string]map[string]int),
	}
}

// Add seeds a discount into the store
func (s *InMemoryDiscountStore) Add(d *discount.Discount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discounts[d.ID] = d
}

// SetCustomerUsage seeds per-customer usage history
func (s *InMemoryDiscountStore) SetCustomerUsage(discountID, customerID string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usage[discountID] == nil {
		s.usage[discountID] = make(map[string]int)
	}
	s.usage[discountID][customerID] = count
}

// Clear removes all discounts and usage history from the store
func (s *InMemoryDiscountStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discounts = make(map[string]*discount.Discount)
	s.usage = make(map[string]map[string]int)
}

func copyDiscount(d *discount.Discount) *discount.Discount {
	if d == nil {
		return nil
	}
	clone := *d
	return &clone
}

func (s *InMemoryDiscountStore) Get(ctx context.Context, id string) (*discount.Discount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.discounts[id]
	if !ok {
		return nil, ierr.NewError("discount not found").
			WithReportableDetails(map[string]any{"discount_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyDiscount(d), nil
}

func (s *InMemoryDiscountStore) GetByCode(ctx context.Context, code string) (*discount.Discount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.discounts {
		if strings.EqualFold(d.Code, code) {
			return copyDiscount(d), nil
		}
	}
	return nil, ierr.NewError("discount not found").
		WithReportableDetails(map[string]any{"code": code}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryDiscountStore) ListActive(ctx context.Context) ([]*discount.Discount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*discount.Discount
	for _, d := range s.discounts {
		if d.IsActive() {
			result = append(result, copyDiscount(d))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *InMemoryDiscountStore) CustomerUsageCount(ctx context.Context, discountID, customerID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usage[discountID][customerID], nil
}

func (s *InMemoryDiscountStore) UpdateUsage(ctx context.Context, discountID string, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.discounts[discountID]
	if !ok {
		return ierr.NewError("discount not found").
			WithReportableDetails(map[string]any{"discount_id": discountID}).
			Mark(ierr.ErrNotFound)
	}
	if d.Version != expectedVersion {
		return ierr.NewError("discount version moved").
			WithReportableDetails(map[string]any{
				"discount_id": discountID,
				"expected":    expectedVersion,
				"actual":      d.Version,
			}).
			Mark(ierr.ErrVersionConflict)
	}

	d.UsageCount++
	d.Version++
	return nil
}
