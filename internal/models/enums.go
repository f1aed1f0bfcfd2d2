package models

import (
	"database/sql/driver"
	"fmt"
)

// PropertyType classifies a listing.
type PropertyType string

// Supported property types.
const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeCommercial PropertyType = "commercial"
)

// Valid reports whether t is one of the supported property types.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeLand, PropertyTypeCommercial:
		return true
	}
	return false
}

// Scan implements sql.Scanner so unknown values in the properties table
// surface as scan errors instead of silently leaking into the catalog.
func (t *PropertyType) Scan(value interface{}) error {
	s, err := scanEnumString(value, "PropertyType")
	if err != nil {
		return err
	}
	v := PropertyType(s)
	if !v.Valid() {
		return fmt.Errorf("invalid property type %q", s)
	}
	*t = v
	return nil
}

// Value implements driver.Valuer.
func (t PropertyType) Value() (driver.Value, error) {
	return string(t), nil
}

// ListingStatus is the market status of a listing.
type ListingStatus string

// Supported listing statuses.
const (
	StatusForSale ListingStatus = "for-sale"
	StatusForRent ListingStatus = "for-rent"
	StatusSold    ListingStatus = "sold"
	StatusRented  ListingStatus = "rented"
)

// Valid reports whether s is one of the supported listing statuses.
func (s ListingStatus) Valid() bool {
	switch s {
	case StatusForSale, StatusForRent, StatusSold, StatusRented:
		return true
	}
	return false
}

// Scan implements sql.Scanner.
func (s *ListingStatus) Scan(value interface{}) error {
	str, err := scanEnumString(value, "ListingStatus")
	if err != nil {
		return err
	}
	v := ListingStatus(str)
	if !v.Valid() {
		return fmt.Errorf("invalid listing status %q", str)
	}
	*s = v
	return nil
}

// Value implements driver.Valuer.
func (s ListingStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// SortOrder selects how search results are ordered.
type SortOrder string

// Supported sort orders. SortNewest is the default.
const (
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

// Valid reports whether o is a known sort order.
func (o SortOrder) Valid() bool {
	switch o {
	case SortNewest, SortOldest, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

func scanEnumString(value interface{}, name string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("failed to scan %s: value is NULL", name)
	default:
		return "", fmt.Errorf("failed to scan %s: expected string, got %T", name, value)
	}
}
