package domain

import (
	"slices"
	"strings"
)

// Address holds the address breakdown returned by a reverse lookup.
// All fields are optional.
type Address struct {
	City         string `json:"city,omitempty"`
	Town         string `json:"town,omitempty"`
	Village      string `json:"village,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	Suburb       string `json:"suburb,omitempty"`
	District     string `json:"district,omitempty"`
	County       string `json:"county,omitempty"`
	State        string `json:"state,omitempty"`
	Country      string `json:"country,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
	Road         string `json:"road,omitempty"`
}

// localityFields lists the locality-level fields in priority order.
var localityFields = []func(Address) string{
	func(a Address) string { return a.City },
	func(a Address) string { return a.Town },
	func(a Address) string { return a.Village },
	func(a Address) string { return a.Municipality },
	func(a Address) string { return a.Suburb },
	func(a Address) string { return a.District },
	func(a Address) string { return a.County },
}

// Locality returns the first non-empty locality-level field, or "" if none is set.
func (a Address) Locality() string {
	for _, field := range localityFields {
		if v := strings.TrimSpace(field(a)); v != "" {
			return v
		}
	}
	return ""
}

// FormatLabel builds the display label "<locality>, <region>, <country>".
// Empty parts are skipped and a part equal to one already chosen is dropped.
// The boolean is false when none of locality, region, or country is present.
func FormatLabel(a Address) (string, bool) {
	candidates := []string{
		a.Locality(),
		strings.TrimSpace(a.State),
		strings.TrimSpace(a.Country),
	}

	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" || slices.Contains(parts, c) {
			continue
		}
		parts = append(parts, c)
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ", "), true
}
