// Package search filters and orders a property catalog.
//
// Everything here is a pure function of its arguments: the catalog is never
// modified and no state is kept between calls, so Apply can be run once per
// keystroke from concurrent requests without coordination.
package search

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/stwalsh4118/homestead/internal/models"
)

// predicate reports whether a property satisfies one filter constraint.
type predicate func(p *models.Property) bool

// Apply returns the properties of catalog that satisfy every active
// constraint in f, ordered by f.SortBy. Records with equal sort keys keep
// their catalog order. The result is never nil.
//
// An inverted price range (MinPrice > MaxPrice) matches nothing.
func Apply(catalog []models.Property, f models.SearchFilters) []models.Property {
	preds := predicates(f)

	result := make([]models.Property, 0, len(catalog))
	for i := range catalog {
		if matchesAll(&catalog[i], preds) {
			result = append(result, catalog[i])
		}
	}

	slices.SortStableFunc(result, comparator(f.SortBy))
	return result
}

func matchesAll(p *models.Property, preds []predicate) bool {
	for _, match := range preds {
		if !match(p) {
			return false
		}
	}
	return true
}

// predicates builds the active predicate set for f. The price range is
// always active.
func predicates(f models.SearchFilters) []predicate {
	preds := make([]predicate, 0, 7)

	if f.Query != "" {
		preds = append(preds, textMatch(f.Query))
	}
	if f.PropertyType != "" {
		preds = append(preds, func(p *models.Property) bool {
			return p.PropertyType == f.PropertyType
		})
	}
	if f.Status != "" {
		preds = append(preds, func(p *models.Property) bool {
			return p.Status == f.Status
		})
	}

	minPrice, maxPrice := f.MinPrice, f.MaxPrice
	preds = append(preds, func(p *models.Property) bool {
		return p.Price >= minPrice && p.Price <= maxPrice
	})

	if f.City != "" {
		preds = append(preds, func(p *models.Property) bool {
			return p.Location.City == f.City
		})
	}
	if f.Bedrooms > 0 {
		preds = append(preds, atLeast(f.Bedrooms, func(p *models.Property) *int { return p.Bedrooms }))
	}
	if f.Bathrooms > 0 {
		preds = append(preds, atLeast(f.Bathrooms, func(p *models.Property) *int { return p.Bathrooms }))
	}

	return preds
}

// textMatch matches query against title, description, city and district
// using Unicode case folding.
func textMatch(query string) predicate {
	// cases.Caser is stateful; one per Apply call keeps Apply re-entrant.
	fold := cases.Fold()
	needle := fold.String(query)

	return func(p *models.Property) bool {
		for _, field := range [...]string{p.Title, p.Description, p.Location.City, p.Location.District} {
			if strings.Contains(fold.String(field), needle) {
				return true
			}
		}
		return false
	}
}

// atLeast requires the optional count returned by field to be present and
// no smaller than threshold. A missing count never satisfies a positive
// threshold.
func atLeast(threshold int, field func(p *models.Property) *int) predicate {
	return func(p *models.Property) bool {
		v := field(p)
		return v != nil && *v >= threshold
	}
}

// comparator returns the ordering for sortBy. Unknown or empty values fall
// back to newest first.
func comparator(sortBy models.SortOrder) func(a, b models.Property) int {
	switch sortBy {
	case models.SortOldest:
		return func(a, b models.Property) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case models.SortPriceAsc:
		return func(a, b models.Property) int {
			return compareInt64(a.Price, b.Price)
		}
	case models.SortPriceDesc:
		return func(a, b models.Property) int {
			return compareInt64(b.Price, a.Price)
		}
	default:
		return func(a, b models.Property) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
