package models

// MaxPriceUnbounded is the default upper price bound. It is kept as a plain
// value rather than a nil bound so filters round-trip through query strings
// and the frontend unchanged; the bound is inclusive.
const MaxPriceUnbounded int64 = 2_000_000_000

// SearchFilters is the set of constraints and the sort order applied to the
// catalog. Empty strings and zero thresholds mean "no constraint".
type SearchFilters struct {
	Query        string        `json:"query"`
	PropertyType PropertyType  `json:"propertyType"`
	Status       ListingStatus `json:"status"`
	City         string        `json:"city"`
	SortBy       SortOrder     `json:"sortBy"`
	MinPrice     int64         `json:"minPrice"`
	MaxPrice     int64         `json:"maxPrice"`
	Bedrooms     int           `json:"bedrooms"`
	Bathrooms    int           `json:"bathrooms"`
}

// DefaultFilters returns the reset state: every constraint off, newest first.
func DefaultFilters() SearchFilters {
	return SearchFilters{
		MinPrice: 0,
		MaxPrice: MaxPriceUnbounded,
		SortBy:   SortNewest,
	}
}

// HasActive reports whether any constraint differs from the reset state.
// The sort order is not a constraint.
func (f SearchFilters) HasActive() bool {
	return f.Query != "" ||
		f.PropertyType != "" ||
		f.Status != "" ||
		f.MinPrice > 0 ||
		f.MaxPrice < MaxPriceUnbounded ||
		f.City != "" ||
		f.Bedrooms > 0 ||
		f.Bathrooms > 0
}
