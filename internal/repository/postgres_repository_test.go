package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/homestead/internal/config"
	"github.com/stwalsh4118/homestead/internal/database"
	"github.com/stwalsh4118/homestead/internal/models"
)

// getTestConfig returns database configuration for integration tests.
func getTestConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "host.docker.internal"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		Name:     getEnvOrDefault("DB_NAME", "homestead"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		PoolMin:  1,
		PoolMax:  5,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// setupTestRepository connects to the test database, applies the schema and
// inserts two fixture listings. Skipped unless HOMESTEAD_TEST_DB is set.
func setupTestRepository(t *testing.T) PropertyRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if os.Getenv("HOMESTEAD_TEST_DB") == "" {
		t.Skip("Skipping integration test: HOMESTEAD_TEST_DB not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, getTestConfig())
	require.NoError(t, err, "Failed to create database connection")
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))

	cleanup := func() {
		_, _ = db.Pool.Exec(ctx, `DELETE FROM properties WHERE id IN ('repo-test-1', 'repo-test-2')`)
		_, _ = db.Pool.Exec(ctx, `DELETE FROM users WHERE id = 'repo-test-agent'`)
	}
	cleanup()
	t.Cleanup(cleanup)

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO users (id, email, name, phone, role)
		VALUES ('repo-test-agent', 'agent@repo.test', 'Test Agent', '+256700000009', 'agent')`)
	require.NoError(t, err, "Failed to insert test agent")

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO properties (
			id, title, description, city, district, address, price, property_type, status,
			bedrooms, bathrooms, area, images, amenities, agent_id, is_approved, created_at, updated_at
		) VALUES
		('repo-test-1', 'Test House', 'A house', 'Kampala', 'Bugolobi', 'Luthuli Ave', 300000000, 'house', 'for-sale',
		 3, 2, 210, ARRAY['/a.jpg'], ARRAY['Garden'], 'repo-test-agent', TRUE, $1, $1),
		('repo-test-2', 'Test Plot', 'Some land', 'Mbarara', 'Kakoba', 'High St', 50000000, 'land', 'for-sale',
		 NULL, NULL, 1000, '{}', '{}', NULL, TRUE, $2, $2)`,
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err, "Failed to insert test properties")

	return NewPostgresPropertyRepository(db)
}

func TestPostgresRepository_FindByID(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	p, err := repo.FindByID(ctx, "repo-test-1")
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "Test House", p.Title)
	assert.Equal(t, "Bugolobi", p.Location.District)
	assert.Equal(t, models.PropertyTypeHouse, p.PropertyType)
	assert.Equal(t, models.StatusForSale, p.Status)
	require.NotNil(t, p.Bedrooms)
	assert.Equal(t, 3, *p.Bedrooms)
	assert.Equal(t, []string{"/a.jpg"}, p.Images)
	require.NotNil(t, p.Agent)
	assert.Equal(t, "Test Agent", p.Agent.Name)

	plot, err := repo.FindByID(ctx, "repo-test-2")
	require.NoError(t, err)
	require.NotNil(t, plot)
	assert.Nil(t, plot.Bedrooms, "NULL bedrooms must scan to nil")
	assert.Nil(t, plot.Agent)
	assert.Empty(t, plot.Images)
}

func TestPostgresRepository_FindByID_NotFound(t *testing.T) {
	repo := setupTestRepository(t)

	p, err := repo.FindByID(context.Background(), "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestPostgresRepository_List(t *testing.T) {
	repo := setupTestRepository(t)

	props, err := repo.List(context.Background())
	require.NoError(t, err)

	var order []string
	for _, p := range props {
		if p.ID == "repo-test-1" || p.ID == "repo-test-2" {
			order = append(order, p.ID)
		}
	}
	assert.Equal(t, []string{"repo-test-1", "repo-test-2"}, order, "catalog order follows created_at")
}

func TestPostgresRepository_ContextCancellation(t *testing.T) {
	repo := setupTestRepository(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx)
	assert.Error(t, err)
}
