package zone

import (
	"path"
	"strings"

	"github.com/merchantkit/pricing/internal/types"

	"github.com/samber/lo"
)

// Zone is a prioritized geographic rule set used to select tax or shipping
// configuration for an address. Inclusion lists are ANDed; an empty list
// means "any". Exclusion lists veto an otherwise matching address.
type Zone struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Kind                types.ZoneKind `json:"kind"`
	Priority            int            `json:"priority"`
	SortOrder           int            `json:"sort_order"`
	IsDefault           bool           `json:"is_default"`
	Countries           []string       `json:"countries"`
	States              []string       `json:"states"`
	PostalPatterns      []string       `json:"postal_patterns"`
	Cities              []string       `json:"cities"`
	ExcludedCountries   []string       `json:"excluded_countries"`
	ExcludedStates      []string       `json:"excluded_states"`
	ExcludedPostalCodes []string       `json:"excluded_postal_codes"`
	Status              types.Status   `json:"status"`
}

// IsActive reports whether the zone participates in matching
func (z *Zone) IsActive() bool {
	return z.Status == types.StatusActive
}

// Matches reports whether the address satisfies every inclusion rule and
// no exclusion rule.
func (z *Zone) Matches(address types.Address) bool {
	if !z.IsActive() {
		return false
	}

	country := address.NormalizedCountry()
	state := address.NormalizedState()
	city := address.NormalizedCity()
	postal := address.NormalizedPostalCode()

	if len(z.Countries) > 0 && !lo.Contains(normalizeUpper(z.Countries), country) {
		return false
	}
	if len(z.States) > 0 && !lo.Contains(normalizeUpper(z.States), state) {
		return false
	}
	if len(z.PostalPatterns) > 0 && !matchesAnyPattern(z.PostalPatterns, postal) {
		return false
	}
	if len(z.Cities) > 0 && !lo.Contains(normalizeLower(z.Cities), city) {
		return false
	}

	if lo.Contains(normalizeUpper(z.ExcludedCountries), country) {
		return false
	}
	if lo.Contains(normalizeUpper(z.ExcludedStates), state) {
		return false
	}
	if matchesAnyPattern(z.ExcludedPostalCodes, postal) {
		return false
	}

	return true
}

// matchesAnyPattern matches a normalized postal code against glob patterns
// supporting `*` and `?`. Exact codes in the list behave as exact matches.
// A malformed pattern never matches.
func matchesAnyPattern(patterns []string, postal string) bool {
	for _, pattern := range patterns {
		pattern = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(pattern), " ", ""))
		if pattern == "" {
			continue
		}
		if ok, err := path.Match(pattern, postal); err == nil && ok {
			return true
		}
	}
	return false
}

func normalizeUpper(values []string) []string {
	return lo.Map(values, func(v string, _ int) string {
		return strings.ToUpper(strings.TrimSpace(v))
	})
}

func normalizeLower(values []string) []string {
	return lo.Map(values, func(v string, _ int) string {
		return strings.ToLower(strings.TrimSpace(v))
	})
}
