package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stwalsh4118/homestead/internal/database"
	"github.com/stwalsh4118/homestead/internal/models"
)

// selectProperties is shared by List and FindByID. Agent columns come from
// a LEFT JOIN and are NULL for listings without an agent.
const selectProperties = `
	SELECT
		p.id,
		p.title,
		p.description,
		p.city,
		p.district,
		p.address,
		p.price,
		p.property_type,
		p.status,
		p.bedrooms,
		p.bathrooms,
		p.area,
		p.images,
		p.amenities,
		p.agent_id,
		u.name,
		u.email,
		u.phone,
		p.is_approved,
		p.created_at,
		p.updated_at
	FROM properties p
	LEFT JOIN users u ON u.id = p.agent_id
`

// postgresRepository reads the catalog from the properties table.
type postgresRepository struct {
	db *database.Database
}

// NewPostgresPropertyRepository creates a PropertyRepository backed by Postgres.
func NewPostgresPropertyRepository(db *database.Database) PropertyRepository {
	return &postgresRepository{
		db: db,
	}
}

// List loads every listing ordered by creation time, then id, so the catalog
// order is stable across calls.
func (r *postgresRepository) List(ctx context.Context) ([]models.Property, error) {
	rows, err := r.db.Pool.Query(ctx, selectProperties+` ORDER BY p.created_at, p.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	results := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		results = append(results, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}

	return results, nil
}

// FindByID loads a single listing.
func (r *postgresRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	row := r.db.Pool.QueryRow(ctx, selectProperties+` WHERE p.id = $1`, id)

	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property %s: %w", id, err)
	}

	return p, nil
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var (
		p          models.Property
		agentID    *string
		agentName  *string
		agentEmail *string
		agentPhone *string
	)

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Location.City,
		&p.Location.District,
		&p.Location.Address,
		&p.Price,
		&p.PropertyType,
		&p.Status,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.Area,
		&p.Images,
		&p.Amenities,
		&agentID,
		&agentName,
		&agentEmail,
		&agentPhone,
		&p.IsApproved,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if agentID != nil {
		p.AgentID = *agentID
		p.Agent = &models.Agent{
			ID:    *agentID,
			Name:  deref(agentName),
			Email: deref(agentEmail),
			Phone: deref(agentPhone),
		}
	}

	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
