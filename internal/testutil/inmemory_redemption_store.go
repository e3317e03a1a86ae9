package testutil

import (
	"context"
	"sync"

	"github.com/merchantkit/pricing/internal/domain/redemption"
	ierr "github.com/merchantkit/pricing/internal/errors"
)

// InMemoryRedemptionStore implements redemption.Repository
type InMemoryRedemptionStore struct {
	mu    sync.RWMutex
	byKey map[string]*redemption.Redemption
}

// NewInMemoryRedemptionStore creates a new in-memory redemption store
func NewInMemoryRedemptionStore() *InMemoryRedemptionStore {
	return &InMemoryRedemptionStore{
		byKey: make(map[string]*redemption.Redemption),
	}
}

// Clear removes all redemption records from the store
func (s *InMemoryRedemptionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey = make(map[string]*redemption.Redemption)
}

func (s *InMemoryRedemptionStore) Create(ctx context.Context, r *redemption.Redemption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[r.IdempotencyKey]; ok {
		return ierr.NewError("redemption already recorded").
			WithReportableDetails(map[string]any{"idempotency_key": r.IdempotencyKey}).
			Mark(ierr.ErrAlreadyExists)
	}
	clone := *r
	s.byKey[r.IdempotencyKey] = &clone
	return nil
}

func (s *InMemoryRedemptionStore) GetByIdempotencyKey(ctx context.Context, key string) (*redemption.Redemption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byKey[key]
	if !ok {
		return nil, ierr.NewError("redemption not found").
			WithReportableDetails(map[string]any{"idempotency_key": key}).
			Mark(ierr.ErrNotFound)
	}
	clone := *r
	return &clone, nil
}

func (s *InMemoryRedemptionStore) ListByOrder(ctx context.Context, orderID string) ([]*redemption.Redemption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*redemption.Redemption
	for _, r := range s.byKey {
		if r.OrderID == orderID {
			clone := *r
			result = append(result, &clone)
		}
	}
	return result, nil
}

// Count returns the number of stored redemption records
func (s *InMemoryRedemptionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}
