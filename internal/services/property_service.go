package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/stwalsh4118/homestead/internal/logger"
	"github.com/stwalsh4118/homestead/internal/metrics"
	"github.com/stwalsh4118/homestead/internal/models"
	"github.com/stwalsh4118/homestead/internal/repository"
	"github.com/stwalsh4118/homestead/internal/search"
)

// DefaultFeaturedCount matches the three cards on the landing page.
const DefaultFeaturedCount = 3

// Service-level errors
var (
	ErrPropertyNotFound = errors.New("property not found")
)

// SearchResult is the full ordered outcome of a catalog search.
type SearchResult struct {
	Filters          models.SearchFilters
	Properties       []models.Property
	Total            int
	HasActiveFilters bool
}

// PropertyService defines the interface for listing business logic.
type PropertyService interface {
	// Search applies filters to the displayable catalog.
	// Returns an empty result (not an error) when nothing matches, including
	// for an inverted price range.
	Search(ctx context.Context, filters models.SearchFilters) (*SearchResult, error)

	// Featured returns the first limit displayable listings in catalog order.
	// A limit of zero or less uses the configured default.
	Featured(ctx context.Context, limit int) ([]models.Property, error)

	// GetByID returns a displayable listing.
	// Returns ErrPropertyNotFound if it does not exist or is hidden.
	GetByID(ctx context.Context, id string) (*models.Property, error)

	// Cities returns the distinct cities of the displayable catalog.
	Cities(ctx context.Context) ([]string, error)
}

// Options configures the property service.
type Options struct {
	// ApprovedOnly hides listings whose IsApproved flag is false.
	ApprovedOnly  bool
	FeaturedCount int
	// Metrics is optional.
	Metrics *metrics.Metrics
}

type propertyService struct {
	repo repository.PropertyRepository
	log  *logger.Logger
	opts Options
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(repo repository.PropertyRepository, log *logger.Logger, opts Options) PropertyService {
	if opts.FeaturedCount <= 0 {
		opts.FeaturedCount = DefaultFeaturedCount
	}
	return &propertyService{
		repo: repo,
		log:  log,
		opts: opts,
	}
}

// Search loads the catalog and runs it through the query engine.
func (s *propertyService) Search(ctx context.Context, filters models.SearchFilters) (*SearchResult, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	if filters.MinPrice > filters.MaxPrice {
		s.log.Debug("Inverted price range, no listing can match", map[string]interface{}{
			"min_price": filters.MinPrice,
			"max_price": filters.MaxPrice,
		})
	}

	matched := search.Apply(catalog, filters)
	active := filters.HasActive()

	s.log.Info("Catalog search completed", map[string]interface{}{
		"query":    filters.Query,
		"sort":     filters.SortBy,
		"filtered": active,
		"catalog":  len(catalog),
		"matched":  len(matched),
	})

	if m := s.opts.Metrics; m != nil {
		sortLabel := string(filters.SortBy)
		if !filters.SortBy.Valid() {
			sortLabel = string(models.SortNewest)
		}
		m.SearchesTotal.WithLabelValues(sortLabel, strconv.FormatBool(active)).Inc()
		m.SearchResults.Observe(float64(len(matched)))
	}

	return &SearchResult{
		Filters:          filters,
		Properties:       matched,
		Total:            len(matched),
		HasActiveFilters: active,
	}, nil
}

// Featured returns the head of the displayable catalog.
func (s *propertyService) Featured(ctx context.Context, limit int) ([]models.Property, error) {
	if limit <= 0 {
		limit = s.opts.FeaturedCount
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	if len(catalog) > limit {
		catalog = catalog[:limit]
	}

	s.log.Debug("Featured listings selected", map[string]interface{}{
		"limit": limit,
		"count": len(catalog),
	})

	return catalog, nil
}

// GetByID looks up a single listing and applies the approval policy.
func (s *propertyService) GetByID(ctx context.Context, id string) (*models.Property, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load property", err, map[string]interface{}{
			"property_id": id,
		})
		return nil, fmt.Errorf("failed to load property: %w", err)
	}

	// Repository returns nil, nil when no listing found
	if p == nil || !s.visible(p) {
		s.log.Debug("Property not found", map[string]interface{}{
			"property_id": id,
			"hidden":      p != nil,
		})
		return nil, ErrPropertyNotFound
	}

	return p, nil
}

// Cities returns the city facet for the displayable catalog.
func (s *propertyService) Cities(ctx context.Context) ([]string, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return search.Cities(catalog), nil
}

// catalog loads the full catalog and drops listings hidden by policy.
func (s *propertyService) catalog(ctx context.Context) ([]models.Property, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Failed to load catalog", err, nil)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if !s.opts.ApprovedOnly {
		return all, nil
	}

	visible := make([]models.Property, 0, len(all))
	for i := range all {
		if s.visible(&all[i]) {
			visible = append(visible, all[i])
		}
	}
	return visible, nil
}

func (s *propertyService) visible(p *models.Property) bool {
	return !s.opts.ApprovedOnly || p.IsApproved
}
