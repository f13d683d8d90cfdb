package warehouse

import (
	"frostdesk/internal/domain"
)

// Repository defines the interface for stored item persistence.
type Repository interface {
	domain.CatalogRepository[*StoredItem]
}
