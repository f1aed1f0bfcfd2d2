package repository

import (
	"context"

	"github.com/stwalsh4118/homestead/internal/models"
)

// PropertyRepository defines the interface for catalog access.
type PropertyRepository interface {
	// List returns the full catalog in catalog order. The order is defined by
	// the source: file order for YAML catalogs, creation time then id for Postgres.
	// Returns an empty slice, never nil, when the catalog is empty.
	List(ctx context.Context) ([]models.Property, error)

	// FindByID returns the listing with the given id.
	// Returns nil, nil if no listing is found (not an error).
	FindByID(ctx context.Context, id string) (*models.Property, error)
}
