package repository

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stwalsh4118/homestead/internal/models"
)

// ErrInvalidCatalog is returned when a catalog file cannot be used.
var ErrInvalidCatalog = errors.New("invalid catalog")

//go:embed seed/catalog.yaml
var seedCatalog []byte

// catalogFile is the on-disk YAML layout.
type catalogFile struct {
	Properties []models.Property `yaml:"properties"`
}

// memoryRepository serves a fixed catalog held in memory. It is read-only
// after construction and safe for concurrent use.
type memoryRepository struct {
	catalog []models.Property
	byID    map[string]int
}

// NewMemoryPropertyRepository creates a repository over props, which are
// validated and copied. The given order is the catalog order.
func NewMemoryPropertyRepository(props []models.Property) (PropertyRepository, error) {
	if err := validateCatalog(props); err != nil {
		return nil, err
	}

	catalog := cloneCatalog(props)
	byID := make(map[string]int, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = i
	}

	return &memoryRepository{catalog: catalog, byID: byID}, nil
}

// LoadCatalogFile reads a YAML catalog from path.
func LoadCatalogFile(path string) ([]models.Property, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return DecodeCatalog(data)
}

// OpenMemoryCatalog builds a memory repository from the YAML file at path,
// or from the bundled seed catalog when path is empty.
func OpenMemoryCatalog(path string) (PropertyRepository, error) {
	var (
		props []models.Property
		err   error
	)
	if path == "" {
		props, err = LoadSeedCatalog()
	} else {
		props, err = LoadCatalogFile(path)
	}
	if err != nil {
		return nil, err
	}
	return NewMemoryPropertyRepository(props)
}

// LoadSeedCatalog returns the catalog bundled with the binary.
func LoadSeedCatalog() ([]models.Property, error) {
	return DecodeCatalog(seedCatalog)
}

// DecodeCatalog parses a YAML catalog. Unknown fields are rejected so typos
// in hand-edited files do not silently drop data.
func DecodeCatalog(data []byte) ([]models.Property, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := validateCatalog(file.Properties); err != nil {
		return nil, err
	}
	if file.Properties == nil {
		file.Properties = []models.Property{}
	}
	return file.Properties, nil
}

// List returns a copy of the catalog so callers cannot mutate it.
func (r *memoryRepository) List(_ context.Context) ([]models.Property, error) {
	return cloneCatalog(r.catalog), nil
}

// FindByID returns a copy of the listing with the given id.
func (r *memoryRepository) FindByID(_ context.Context, id string) (*models.Property, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	p := cloneProperty(&r.catalog[i])
	return &p, nil
}

// cloneCatalog deep-copies props into a new non-nil slice.
func cloneCatalog(props []models.Property) []models.Property {
	out := make([]models.Property, len(props))
	for i := range props {
		out[i] = cloneProperty(&props[i])
	}
	return out
}

// cloneProperty copies p including the values behind its pointer and
// slice fields, so the copy shares no memory with the stored catalog.
func cloneProperty(p *models.Property) models.Property {
	c := *p
	if p.Bedrooms != nil {
		c.Bedrooms = models.IntPtr(*p.Bedrooms)
	}
	if p.Bathrooms != nil {
		c.Bathrooms = models.IntPtr(*p.Bathrooms)
	}
	if p.Agent != nil {
		agent := *p.Agent
		c.Agent = &agent
	}
	c.Images = slices.Clone(p.Images)
	c.Amenities = slices.Clone(p.Amenities)
	return c
}

// validateCatalog enforces the record invariants the search engine relies on.
func validateCatalog(props []models.Property) error {
	seen := make(map[string]struct{}, len(props))
	var problems []string

	for i := range props {
		p := &props[i]
		where := fmt.Sprintf("property %d", i)
		if p.ID != "" {
			where = fmt.Sprintf("property %q", p.ID)
		}

		if strings.TrimSpace(p.ID) == "" {
			problems = append(problems, where+": id is required")
		} else if _, dup := seen[p.ID]; dup {
			problems = append(problems, where+": duplicate id")
		}
		seen[p.ID] = struct{}{}

		if !p.PropertyType.Valid() {
			problems = append(problems, fmt.Sprintf("%s: unknown property type %q", where, p.PropertyType))
		}
		if !p.Status.Valid() {
			problems = append(problems, fmt.Sprintf("%s: unknown status %q", where, p.Status))
		}
		if p.Price < 0 {
			problems = append(problems, where+": price must be non-negative")
		}
		if p.Area <= 0 {
			problems = append(problems, where+": area must be positive")
		}
		if p.Bedrooms != nil && *p.Bedrooms < 0 {
			problems = append(problems, where+": bedrooms must be non-negative")
		}
		if p.Bathrooms != nil && *p.Bathrooms < 0 {
			problems = append(problems, where+": bathrooms must be non-negative")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return nil
}
