package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/stwalsh4118/homestead/internal/errors"
	"github.com/stwalsh4118/homestead/internal/middleware"
	"github.com/stwalsh4118/homestead/internal/models"
	"github.com/stwalsh4118/homestead/internal/search"
	"github.com/stwalsh4118/homestead/internal/services"
)

// PropertyHandler handles listing-related HTTP requests.
type PropertyHandler struct {
	service services.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(service services.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		service: service,
	}
}

// SearchRequest represents the query parameters for the search endpoint.
type SearchRequest struct {
	Query        string `form:"query" binding:"max=200"`
	PropertyType string `form:"propertyType" binding:"omitempty,oneof=apartment house land commercial"`
	Status       string `form:"status" binding:"omitempty,oneof=for-sale for-rent sold rented"`
	City         string `form:"city" binding:"max=100"`
	SortBy       string `form:"sortBy" binding:"omitempty,oneof=newest oldest price-asc price-desc"`
	MinPrice     int64  `form:"minPrice" binding:"min=0"`
	MaxPrice     int64  `form:"maxPrice" binding:"min=0"`
	Bedrooms     int    `form:"bedrooms" binding:"min=0"`
	Bathrooms    int    `form:"bathrooms" binding:"min=0"`
	Offset       int    `form:"offset" binding:"min=0"`
	Limit        int    `form:"limit" binding:"min=0,max=100"`
}

// Filters converts the request into engine filters, filling unset fields
// from the reset state. A missing, empty or zero maxPrice is a cleared
// price field and means no upper bound.
func (r SearchRequest) Filters() models.SearchFilters {
	f := models.DefaultFilters()
	f.Query = r.Query
	f.PropertyType = models.PropertyType(r.PropertyType)
	f.Status = models.ListingStatus(r.Status)
	f.City = r.City
	f.MinPrice = r.MinPrice
	if r.MaxPrice > 0 {
		f.MaxPrice = r.MaxPrice
	}
	f.Bedrooms = r.Bedrooms
	f.Bathrooms = r.Bathrooms
	if r.SortBy != "" {
		f.SortBy = models.SortOrder(r.SortBy)
	}
	return f
}

// FeaturedRequest represents the query parameters for the featured endpoint.
type FeaturedRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=12"`
}

// PropertyData is the listing DTO sent to the frontend. Moderation state
// stays internal.
type PropertyData struct {
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Agent        *models.Agent   `json:"agent,omitempty"`
	Bedrooms     *int            `json:"bedrooms,omitempty"`
	Bathrooms    *int            `json:"bathrooms,omitempty"`
	Location     models.Location `json:"location"`
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	PropertyType string          `json:"propertyType"`
	Status       string          `json:"status"`
	Images       []string        `json:"images"`
	Amenities    []string        `json:"amenities"`
	Price        int64           `json:"price"`
	Area         float64         `json:"area"`
}

// SearchResponse represents the response for the search endpoint.
type SearchResponse struct {
	Properties       []PropertyData       `json:"properties"`
	Filters          models.SearchFilters `json:"filters"`
	Count            int                  `json:"count"`
	Total            int                  `json:"total"`
	Offset           int                  `json:"offset"`
	HasMore          bool                 `json:"hasMore"`
	HasActiveFilters bool                 `json:"hasActiveFilters"`
}

// ListResponse represents a plain list of listings.
type ListResponse struct {
	Properties []PropertyData `json:"properties"`
	Count      int            `json:"count"`
}

// PropertyResponse represents the response for a single listing.
type PropertyResponse struct {
	Property PropertyData `json:"property"`
}

// CitiesResponse represents the city facet.
type CitiesResponse struct {
	Cities []string `json:"cities"`
	Count  int      `json:"count"`
}

// FiltersResponse carries the reset-state filters.
type FiltersResponse struct {
	Filters models.SearchFilters `json:"filters"`
}

// Search handles GET /api/v1/properties.
// It filters and orders the catalog, then returns the requested window.
func (h *PropertyHandler) Search(c *gin.Context) {
	var req SearchRequest
	if !bindQuery(c, &req) {
		return
	}

	filters := req.Filters()

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Processing property search", map[string]interface{}{
			"query":     filters.Query,
			"sort":      filters.SortBy,
			"min_price": filters.MinPrice,
			"max_price": filters.MaxPrice,
			"offset":    req.Offset,
			"limit":     req.Limit,
		})
	}

	result, err := h.service.Search(c.Request.Context(), filters)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to search properties", err)
		return
	}

	page := search.Paginate(result.Properties, req.Offset, req.Limit)

	c.JSON(http.StatusOK, SearchResponse{
		Properties:       mapPropertiesToDTO(page.Properties),
		Filters:          result.Filters,
		Count:            len(page.Properties),
		Total:            page.Total,
		Offset:           page.Offset,
		HasMore:          page.HasMore,
		HasActiveFilters: result.HasActiveFilters,
	})
}

// Featured handles GET /api/v1/properties/featured.
func (h *PropertyHandler) Featured(c *gin.Context) {
	var req FeaturedRequest
	if !bindQuery(c, &req) {
		return
	}

	props, err := h.service.Featured(c.Request.Context(), req.Limit)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to load featured properties", err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Properties: mapPropertiesToDTO(props),
		Count:      len(props),
	})
}

// Cities handles GET /api/v1/properties/cities.
func (h *PropertyHandler) Cities(c *gin.Context) {
	cities, err := h.service.Cities(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to load cities", err)
		return
	}

	c.JSON(http.StatusOK, CitiesResponse{
		Cities: cities,
		Count:  len(cities),
	})
}

// DefaultFilters handles GET /api/v1/properties/filters/default.
// The frontend uses it to reset its filter form.
func (h *PropertyHandler) DefaultFilters(c *gin.Context) {
	c.JSON(http.StatusOK, FiltersResponse{
		Filters: models.DefaultFilters(),
	})
}

// GetByID handles GET /api/v1/properties/:id.
func (h *PropertyHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "Property not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to load property", err)
		return
	}

	c.JSON(http.StatusOK, PropertyResponse{
		Property: mapPropertyToDTO(p),
	})
}

// bindQuery binds query parameters into req and writes the error response
// when binding fails.
func bindQuery(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindQuery(req)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		apierrors.ValidationError(c, validationErrors)
		return false
	}

	// Parse failures such as minPrice=abc
	apierrors.BadRequest(c, "Invalid query parameters", map[string]interface{}{
		"reason": err.Error(),
	})
	return false
}

// mapPropertiesToDTO never returns nil so empty results encode as [].
func mapPropertiesToDTO(props []models.Property) []PropertyData {
	out := make([]PropertyData, 0, len(props))
	for i := range props {
		out = append(out, mapPropertyToDTO(&props[i]))
	}
	return out
}

func mapPropertyToDTO(p *models.Property) PropertyData {
	return PropertyData{
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Agent:        p.Agent,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Location:     p.Location,
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		PropertyType: string(p.PropertyType),
		Status:       string(p.Status),
		Images:       nonNil(p.Images),
		Amenities:    nonNil(p.Amenities),
		Price:        p.Price,
		Area:         p.Area,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
