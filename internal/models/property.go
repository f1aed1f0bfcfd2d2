package models

import (
	"time"
)

// Location is the free-text address of a listing.
type Location struct {
	City     string `json:"city" yaml:"city"`
	District string `json:"district" yaml:"district"`
	Address  string `json:"address" yaml:"address"`
}

// Agent is the summary of the user who published a listing.
type Agent struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email,omitempty" yaml:"email"`
	Phone string `json:"phone,omitempty" yaml:"phone"`
}

// Property is a single listing in the catalog.
// Bedrooms and Bathrooms are pointers: nil means "not applicable"
// (land, commercial plots) and is distinct from zero.
type Property struct {
	CreatedAt    time.Time     `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt" yaml:"updatedAt"`
	Agent        *Agent        `json:"agent,omitempty" yaml:"agent"`
	Bedrooms     *int          `json:"bedrooms,omitempty" yaml:"bedrooms"`
	Bathrooms    *int          `json:"bathrooms,omitempty" yaml:"bathrooms"`
	Location     Location      `json:"location" yaml:"location"`
	ID           string        `json:"id" yaml:"id"`
	Title        string        `json:"title" yaml:"title"`
	Description  string        `json:"description" yaml:"description"`
	PropertyType PropertyType  `json:"propertyType" yaml:"propertyType"`
	Status       ListingStatus `json:"status" yaml:"status"`
	AgentID      string        `json:"agentId,omitempty" yaml:"agentId"`
	Images       []string      `json:"images" yaml:"images"`
	Amenities    []string      `json:"amenities" yaml:"amenities"`
	Price        int64         `json:"price" yaml:"price"`
	Area         float64       `json:"area" yaml:"area"`
	IsApproved   bool          `json:"isApproved" yaml:"isApproved"`
}

// IntPtr returns a pointer to v. Handy for building Bedrooms/Bathrooms.
func IntPtr(v int) *int {
	return &v
}
