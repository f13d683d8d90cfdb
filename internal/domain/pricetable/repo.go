package pricetable

import (
	"context"

	"frostdesk/internal/core/id"
	"frostdesk/internal/domain"
)

// Repository defines the interface for price table persistence.
type Repository interface {
	domain.CatalogRepository[*PriceRow]

	// ListByYear retrieves all rows for a price year, with components.
	ListByYear(ctx context.Context, year int) ([]*PriceRow, error)

	// GetComponents loads the components of a single row.
	GetComponents(ctx context.Context, rowID id.ID) ([]Component, error)

	// SaveComponents replaces the components of a row.
	SaveComponents(ctx context.Context, rowID id.ID, components []Component) error
}
