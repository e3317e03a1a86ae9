package service

import (
	"context"
	"sort"
	"time"

	"github.com/merchantkit/pricing/internal/cache"
	"github.com/merchantkit/pricing/internal/domain/zone"
	ierr "github.com/merchantkit/pricing/internal/errors"
	"github.com/merchantkit/pricing/internal/types"

	"github.com/samber/lo"
)

// zoneSetTTL bounds how long a decoded zone set is reused before the
// repository is consulted again
const zoneSetTTL = 5 * time.Minute

type ZoneService interface {
	// Match resolves the single best zone of the given kind for an address.
	// Selection is deterministic: highest priority wins, ties break on lowest
	// sort order, then lowest id; the default zone is the last resort.
	Match(ctx context.Context, address types.Address, kind types.ZoneKind) (*zone.Zone, error)
}

type zoneService struct {
	ServiceParams
}

// NewZoneService creates a new instance of ZoneService
func NewZoneService(params ServiceParams) ZoneService {
	return &zoneService{
		ServiceParams: params,
	}
}

func (s *zoneService) Match(ctx context.Context, address types.Address, kind types.ZoneKind) (*zone.Zone, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.listZones(ctx, kind)
	if err != nil {
		return nil, err
	}

	matches := lo.Filter(candidates, func(z *zone.Zone, _ int) bool {
		return z.Matches(address)
	})

	if len(matches) > 0 {
		sort.Slice(matches, func(i, j int) bool {
			if matches[i].Priority != matches[j].Priority {
				return matches[i].Priority > matches[j].Priority
			}
			if matches[i].SortOrder != matches[j].SortOrder {
				return matches[i].SortOrder < matches[j].SortOrder
			}
			return matches[i].ID < matches[j].ID
		})
		return matches[0], nil
	}

	// No inclusion match: fall back to the default zone of this kind
	defaults := lo.Filter(candidates, func(z *zone.Zone, _ int) bool {
		return z.IsActive() && z.IsDefault
	})
	if len(defaults) > 0 {
		sort.Slice(defaults, func(i, j int) bool {
			return defaults[i].ID < defaults[j].ID
		})
		return defaults[0], nil
	}

	return nil, ierr.NewError("no zone matched the address").
		WithHintf("No %s zone covers this destination", kind).
		WithReportableDetails(map[string]any{
			"kind":    kind,
			"country": address.NormalizedCountry(),
			"state":   address.NormalizedState(),
		}).
		Mark(ierr.ErrZoneNotFound)
}

// listZones serves the decoded zone set from the snapshot cache, falling back
// to the repository on a miss.
func (s *zoneService) listZones(ctx context.Context, kind types.ZoneKind) ([]*zone.Zone, error) {
	cacheKey := cache.GenerateKey(cache.PrefixZoneSet, kind)
	if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
		if zones, ok := cached.([]*zone.Zone); ok {
			return zones, nil
		}
	}

	zones, err := s.ZoneRepo.ListByKind(ctx, kind)
	if err != nil {
		s.Logger.Errorw("failed to list zones",
			"error", err,
			"kind", kind,
		)
		return nil, err
	}

	s.Cache.Set(ctx, cacheKey, zones, zoneSetTTL)
	return zones, nil
}
