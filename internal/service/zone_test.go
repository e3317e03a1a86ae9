package service

import (
	"testing"

	"github.com/merchantkit/pricing/internal/domain/zone"
	ierr "github.com/merchantkit/pricing/internal/errors"
	"github.com/merchantkit/pricing/internal/testutil"
	"github.com/merchantkit/pricing/internal/types"

	"github.com/stretchr/testify/suite"
)

type ZoneServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ZoneService
}

func TestZoneService(t *testing.T) {
	suite.Run(t, new(ZoneServiceSuite))
}

func (s *ZoneServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewZoneService(ServiceParams{
		Logger:   s.GetLogger(),
		Config:   s.GetConfig(),
		Cache:    s.GetCache(),
		ZoneRepo: s.GetStores().ZoneRepo,
	})
}

func (s *ZoneServiceSuite) zoneStore() *testutil.InMemoryZoneStore {
	return s.GetStores().ZoneRepo.(*testutil.InMemoryZoneStore)
}

func (s *ZoneServiceSuite) TestHighestPriorityWins() {
	s.zoneStore().Add(&zone.Zone{
		ID:        "zone_us",
		Kind:      types.ZoneKindTax,
		Priority:  1,
		Countries: []string{"US"},
		Status:    types.StatusActive,
	})
	s.zoneStore().Add(&zone.Zone{
		ID:        "zone_ca_state",
		Kind:      types.ZoneKindTax,
		Priority:  10,
		Countries: []string{"US"},
		States:    []string{"CA"},
		Status:    types.StatusActive,
	})

	matched, err := s.service.Match(s.GetContext(), types.Address{
		Country: "US",
		State:   "CA",
		City:    "San Francisco",
	}, types.ZoneKindTax)
	s.NoError(err)
	s.Equal("zone_ca_state", matched.ID)
}

func (s *ZoneServiceSuite) TestPriorityTieBreaksOnSortOrderThenID() {
	s.zoneStore().Add(&zone.Zone{
		ID:        "zone_b",
		Kind:      types.ZoneKindTax,
		Priority:  5,
		SortOrder: 2,
		Countries: []string{"US"},
		Status:    types.StatusActive,
	})
	s.zoneStore().Add(&zone.Zone{
		ID:        "zone_a",
		Kind:      types.ZoneKindTax,
		Priority:  5,
		SortOrder: 1,
		Countries: []string{"US"},
		Status:    types.StatusActive,
	})
	s.zoneStore().Add(&zone.Zone{
		ID:        "zone_c",
		Kind:      types.ZoneKindTax,
		Priority:  5,
		SortOrder: 1,
		Countries: []string{"US"},
		Status:    types.StatusActive,
	})

	matched, err := s.service.Match(s.GetContext(), types.Address{Country: "us"}, types.ZoneKindTax)
	s.NoError(err)
	s.Equal("zone_a", matched.ID)
}

func (s *ZoneServiceSuite) TestPostalPatternMatching() {
	s.zoneStore().Add(&zone.Zone{
		ID:             "zone_bay_area",
		Kind:           types.ZoneKindShipping,
		Countries:      []string{"US"},
		PostalPatterns: []string{"94*"},
		Status:         types.StatusActive,
	})

	tests := []struct {
		name    string
		postal  string
		matches bool
	}{
		{"prefix match", "94110", true},
		{"prefix match with space", "94 110", true},
		{"no match", "10001", false},
		{"exact prefix only", "90210", false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			matched, err := s.service.Match(s.GetContext(), types.Address{
				Country:    "US",
				PostalCode: tt.postal,
			}, types.ZoneKindShipping)
			if tt.matches {
				s.NoError(err)
				s.Equal("zone_bay_area", matched.ID)
			} else {
				s.Error(err)
				s.True(ierr.IsZoneNotFound(err))
			}
		})
	}
}

func (s *ZoneServiceSuite) TestSuffixAndSingleCharPatterns() {
	s.zoneStore().Add(&zone.Zone{
		ID:             "zone_suffix",
		Kind:           types.ZoneKindShipping,
		Countries:      []string{"GB"},
		PostalPatterns: []string{"*1AA", "SW1A?AA"},
		Status:         types.StatusActive,
	})

	matched, err := s.service.Match(s.GetContext(), types.Address{
		Country:    "GB",
		PostalCode: "EC1A 1AA",
	}, types.ZoneKindShipping)
	s.NoError(err)
	s.Equal("zone_suffix", matched.ID)

	matched, err = s.service.Match(s.GetContext(), types.Address{
		Country:    "GB",
		PostalCode: "SW1A 2AA",
	}, types.ZoneKindShipping)
	s.NoError(err)
	s.Equal("zone_suffix", matched.ID)
}

func (s *ZoneServiceSuite) TestExclusionVetoesMatch() {
	s.zoneStore().Add(&zone.Zone{
		ID:             "zone_us_no_ak",
		Kind:           types.ZoneKindShipping,
		Countries:      []string{"US"},
		ExcludedStates: []string{"AK"},
		Status:         types.StatusActive,
	})

	_, err := s.service.Match(s.GetContext(), types.Address{
		Country: "US",
		State:   "ak",
	}, types.ZoneKindShipping)
	s.Error(err)
	s.True(ierr.IsZoneNotFound(err))

	matched, err := s.service.Match(s.GetContext(), types.Address{
		Country: "US",
		State:   "OR",
	}, types.ZoneKindShipping)
	s.NoError(err)
	s.Equal("zone_us_no_ak", matched.ID)
}

func (s *ZoneServiceSuite) TestExcludedPostalCodeVetoes() {
	s.zoneStore().Add(&zone.Zone{
		ID:                  "zone_metro",
		Kind:                types.ZoneKindShipping,
		Countries:           []string{"US"},
		PostalPatterns:      []string{"94*"},
		ExcludedPostalCodes: []string{"94999"},
		Status:              types.StatusActive,
	})

	_, err := s.service.Match(s.GetContext(), types.Address{
		Country:    "US",
		PostalCode: "94999",
	}, types.ZoneKindShipping)
	s.True(ierr.IsZoneNotFound(err))
}

func (s *ZoneServiceSuite) TestDefaultZoneFallback() {
	s.zoneStore().Add(&zone.Zone{
		ID:        "zone_eu",
		Kind:      types.ZoneKindTax,
		Countries: []string{"DE", "FR"},
		Status:    types.StatusActive,
	})
	s.zoneStore().Add(&zone.Zone{
		ID:        "zone_rest_of_world",
		Kind:      types.ZoneKindTax,
		IsDefault: true,
		Status:    types.StatusActive,
	})

	matched, err := s.service.Match(s.GetContext(), types.Address{Country: "JP"}, types.ZoneKindTax)
	s.NoError(err)
	s.Equal("zone_rest_of_world", matched.ID)
}

func (s *ZoneServiceSuite) TestNoZoneMatched() {
	s.zoneStore().Add(&zone.Zone{
		ID:        "zone_us",
		Kind:      types.ZoneKindTax,
		Countries: []string{"US"},
		Status:    types.StatusActive,
	})

	_, err := s.service.Match(s.GetContext(), types.Address{Country: "JP"}, types.ZoneKindTax)
	s.Error(err)
	s.True(ierr.IsZoneNotFound(err))
}

func (s *ZoneServiceSuite) TestInactiveZoneNeverMatches() {
	s.zoneStore().Add(&zone.Zone{
		ID:        "zone_archived",
		Kind:      types.ZoneKindTax,
		Countries: []string{"US"},
		Status:    types.StatusInactive,
	})

	_, err := s.service.Match(s.GetContext(), types.Address{Country: "US"}, types.ZoneKindTax)
	s.True(ierr.IsZoneNotFound(err))
}

func (s *ZoneServiceSuite) TestKindIsolation() {
	s.zoneStore().Add(&zone.Zone{
		ID:        "zone_ship_us",
		Kind:      types.ZoneKindShipping,
		Countries: []string{"US"},
		Status:    types.StatusActive,
	})

	_, err := s.service.Match(s.GetContext(), types.Address{Country: "US"}, types.ZoneKindTax)
	s.True(ierr.IsZoneNotFound(err))

	matched, err := s.service.Match(s.GetContext(), types.Address{Country: "US"}, types.ZoneKindShipping)
	s.NoError(err)
	s.Equal("zone_ship_us", matched.ID)
}
