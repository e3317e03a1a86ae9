package testutil

import (
	"context"
	"sync"

	"github.com/merchantkit/pricing/internal/domain/zone"
	ierr "github.com/merchantkit/pricing/internal/errors"
	"github.com/merchantkit/pricing/internal/types"
)

// InMemoryZoneStore implements zone.Repository
type InMemoryZoneStore struct {
	mu    sync.RWMutex
	zones map[string]*zone.Zone
}

// NewInMemoryZoneStore creates a new in-memory zone store
func NewInMemoryZoneStore() *InMemoryZoneStore {
	return &InMemoryZoneStore{
		zones: make(map[string]*zone.Zone),
	}
}

// Add seeds a zone into the store
func (s *InMemoryZoneStore) Add(z *zone.Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones[z.ID] = z
}

// Clear removes all zones from the store
func (s *InMemoryZoneStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones = make(map[string]*zone.Zone)
}

func (s *InMemoryZoneStore) Get(ctx context.Context, id string) (*zone.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	z, ok := s.zones[id]
	if !ok {
		return nil, ierr.NewError("zone not found").
			WithReportableDetails(map[string]any{"zone_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return z, nil
}

func (s *InMemoryZoneStore) ListByKind(ctx context.Context, kind types.ZoneKind) ([]*zone.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*zone.Zone
	for _, z := range s.zones {
		if z.Kind == kind {
			result = append(result, z)
		}
	}
	return result, nil
}
