package types

import "strings"

// Address is the subset of a postal address zone matching cares about.
// Country and state are compared case-insensitively; postal codes are
// compared against glob patterns.
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country" validate:"len=2"`
}

// NormalizedCountry returns the upper-cased ISO country code
func (a Address) NormalizedCountry() string {
	return strings.ToUpper(strings.TrimSpace(a.Country))
}

// NormalizedState returns the upper-cased state/province code
func (a Address) NormalizedState() string {
	return strings.ToUpper(strings.TrimSpace(a.State))
}

// NormalizedCity returns the lower-cased city name
func (a Address) NormalizedCity() string {
	return strings.ToLower(strings.TrimSpace(a.City))
}

// NormalizedPostalCode returns the upper-cased postal code with spaces removed
func (a Address) NormalizedPostalCode() string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(a.PostalCode), " ", ""))
}
