package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/stwalsh4118/homestead/internal/logger"
	"github.com/stwalsh4118/homestead/internal/metrics"
	"github.com/stwalsh4118/homestead/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockPropertyRepository is a mock implementation of PropertyRepository for testing
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) List(ctx context.Context) ([]models.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	props, ok := args.Get(0).([]models.Property)
	if !ok {
		return nil, args.Error(1)
	}
	return props, args.Error(1)
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	p, ok := args.Get(0).(*models.Property)
	if !ok {
		return nil, args.Error(1)
	}
	return p, args.Error(1)
}

func fixtureCatalog() []models.Property {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	return []models.Property{
		{ID: "1", Title: "Luxury Villa", Location: models.Location{City: "Kampala"}, Price: 900, PropertyType: models.PropertyTypeHouse, Status: models.StatusForSale, Bedrooms: models.IntPtr(5), IsApproved: true, CreatedAt: day(1)},
		{ID: "2", Title: "City Flat", Location: models.Location{City: "Entebbe"}, Price: 100, PropertyType: models.PropertyTypeApartment, Status: models.StatusForRent, Bedrooms: models.IntPtr(2), IsApproved: true, CreatedAt: day(2)},
		{ID: "3", Title: "Hidden Luxury Duplex", Location: models.Location{City: "Wakiso"}, Price: 500, PropertyType: models.PropertyTypeHouse, Status: models.StatusForSale, Bedrooms: models.IntPtr(4), IsApproved: false, CreatedAt: day(3)},
		{ID: "4", Title: "Farm Land", Location: models.Location{City: "Kampala"}, Price: 300, PropertyType: models.PropertyTypeLand, Status: models.StatusForSale, IsApproved: true, CreatedAt: day(4)},
	}
}

func ids(props []models.Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}

func newTestService(repo *MockPropertyRepository, opts Options) PropertyService {
	return NewPropertyService(repo, logger.New("test"), opts)
}

func TestSearch_DefaultFilters(t *testing.T) {
	// Arrange
	mockRepo := new(MockPropertyRepository)
	service := newTestService(mockRepo, Options{ApprovedOnly: true})
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(fixtureCatalog(), nil)

	// Act
	result, err := service.Search(ctx, models.DefaultFilters())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "2", "1"}, ids(result.Properties), "approved listings, newest first")
	assert.Equal(t, 3, result.Total)
	assert.False(t, result.HasActiveFilters)
	mockRepo.AssertExpectations(t)
}

func TestSearch_ApprovalPolicyDisabled(t *testing.T) {
	mockRepo := new(MockPropertyRepository)
	service := newTestService(mockRepo, Options{ApprovedOnly: false})
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(fixtureCatalog(), nil)

	result, err := service.Search(ctx, models.DefaultFilters())

	require.NoError(t, err)
	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(result.Properties))
}

func TestSearch_UnapprovedNeverMatches(t *testing.T) {
	mockRepo := new(MockPropertyRepository)
	service := newTestService(mockRepo, Options{ApprovedOnly: true})
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(fixtureCatalog(), nil)

	f := models.DefaultFilters()
	f.Query = "luxury"
	result, err := service.Search(ctx, f)

	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(result.Properties))
	assert.True(t, result.HasActiveFilters)
	assert.Equal(t, f, result.Filters)
}

func TestSearch_InvertedPriceRange(t *testing.T) {
	mockRepo := new(MockPropertyRepository)
	service := newTestService(mockRepo, Options{ApprovedOnly: true})
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(fixtureCatalog(), nil)

	f := models.DefaultFilters()
	f.MinPrice = 500_000
	f.MaxPrice = 100_000
	result, err := service.Search(ctx, f)

	// Inverted range is not an error
	require.NoError(t, err)
	require.NotNil(t, result.Properties)
	assert.Empty(t, result.Properties)
	assert.Equal(t, 0, result.Total)
}

func TestSearch_RepositoryError(t *testing.T) {
	mockRepo := new(MockPropertyRepository)
	service := newTestService(mockRepo, Options{ApprovedOnly: true})
	ctx := context.Background()

	dbErr := errors.New("connection refused")
	mockRepo.On("List", ctx).Return(nil, dbErr)

	result, err := service.Search(ctx, models.DefaultFilters())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "failed to load catalog")
}

func TestSearch_RecordsMetrics(t *testing.T) {
	mockRepo := new(MockPropertyRepository)
	m := metrics.New()
	service := newTestService(mockRepo, Options{ApprovedOnly: true, Metrics: m})
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(fixtureCatalog(), nil)

	f := models.DefaultFilters()
	f.City = "Kampala"
	f.SortBy = models.SortPriceAsc
	_, err := service.Search(ctx, f)
	require.NoError(t, err)

	// Unknown sort orders are counted as the default
	_, err = service.Search(ctx, models.SearchFilters{MaxPrice: models.MaxPriceUnbounded, SortBy: "bogus"})
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesTotal.WithLabelValues("price-asc", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesTotal.WithLabelValues("newest", "false")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SearchResults))
}

func TestFeatured(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "default count", limit: 0, want: []string{"1", "2", "4"}},
		{name: "explicit limit", limit: 2, want: []string{"1", "2"}},
		{name: "limit beyond catalog", limit: 10, want: []string{"1", "2", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPropertyRepository)
			service := newTestService(mockRepo, Options{ApprovedOnly: true})
			ctx := context.Background()

			mockRepo.On("List", ctx).Return(fixtureCatalog(), nil)

			got, err := service.Featured(ctx, tt.limit)

			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got), "featured keeps catalog order")
		})
	}
}

func TestFeatured_ConfiguredCount(t *testing.T) {
	mockRepo := new(MockPropertyRepository)
	service := newTestService(mockRepo, Options{ApprovedOnly: false, FeaturedCount: 1})
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(fixtureCatalog(), nil)

	got, err := service.Featured(ctx, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestGetByID_Success(t *testing.T) {
	mockRepo := new(MockPropertyRepository)
	service := newTestService(mockRepo, Options{ApprovedOnly: true})
	ctx := context.Background()

	expected := fixtureCatalog()[0]
	mockRepo.On("FindByID", ctx, "1").Return(&expected, nil)

	p, err := service.GetByID(ctx, "1")

	require.NoError(t, err)
	assert.Equal(t, "Luxury Villa", p.Title)
	mockRepo.AssertExpectations(t)
}

func TestGetByID_NotFound(t *testing.T) {
	mockRepo := new(MockPropertyRepository)
	service := newTestService(mockRepo, Options{ApprovedOnly: true})
	ctx := context.Background()

	// Repository returns nil, nil when no listing found
	mockRepo.On("FindByID", ctx, "missing").Return(nil, nil)

	p, err := service.GetByID(ctx, "missing")

	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestGetByID_HiddenListing(t *testing.T) {
	mockRepo := new(MockPropertyRepository)
	service := newTestService(mockRepo, Options{ApprovedOnly: true})
	ctx := context.Background()

	hidden := fixtureCatalog()[2]
	mockRepo.On("FindByID", ctx, "3").Return(&hidden, nil)

	p, err := service.GetByID(ctx, "3")

	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestGetByID_RepositoryError(t *testing.T) {
	mockRepo := new(MockPropertyRepository)
	service := newTestService(mockRepo, Options{ApprovedOnly: true})
	ctx := context.Background()

	dbErr := errors.New("timeout")
	mockRepo.On("FindByID", ctx, "1").Return(nil, dbErr)

	p, err := service.GetByID(ctx, "1")

	assert.Nil(t, p)
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrPropertyNotFound)
}

func TestCities(t *testing.T) {
	mockRepo := new(MockPropertyRepository)
	service := newTestService(mockRepo, Options{ApprovedOnly: true})
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(fixtureCatalog(), nil)

	cities, err := service.Cities(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"Entebbe", "Kampala"}, cities, "hidden listing's city is not offered")
}
