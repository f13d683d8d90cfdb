package affiliate

import (
	"context"

	"frostdesk/internal/domain"
)

// Repository defines the interface for Affiliate persistence.
type Repository interface {
	domain.CatalogRepository[*Affiliate]

	// ListOrdered retrieves active affiliates sorted by priority, then name.
	ListOrdered(ctx context.Context) ([]*Affiliate, error)
}
