package search

import (
	"slices"

	"github.com/stwalsh4118/homestead/internal/models"
)

// Cities returns the distinct, non-empty cities in catalog, sorted.
func Cities(catalog []models.Property) []string {
	seen := make(map[string]struct{}, len(catalog))
	cities := make([]string, 0)

	for i := range catalog {
		city := catalog[i].Location.City
		if city == "" {
			continue
		}
		if _, ok := seen[city]; ok {
			continue
		}
		seen[city] = struct{}{}
		cities = append(cities, city)
	}

	slices.Sort(cities)
	return cities
}

// Page is a window over an ordered result.
type Page struct {
	Properties []models.Property
	Total      int
	Offset     int
	HasMore    bool
}

// Paginate slices results for "load more" style presentation. A limit of
// zero or less returns everything from offset onwards. The order of results
// is preserved.
func Paginate(results []models.Property, offset, limit int) Page {
	total := len(results)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}

	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	return Page{
		Properties: results[offset:end:end],
		Total:      total,
		Offset:     offset,
		HasMore:    end < total,
	}
}
