package orders

import (
	"context"
	"time"

	"frostdesk/internal/core/id"
	"frostdesk/internal/domain"
)

// Repository defines the interface for Order persistence.
type Repository interface {
	// Create inserts the order with its work items and quote
	Create(ctx context.Context, order *Order) error

	// GetByID retrieves the order including work items and quote
	GetByID(ctx context.Context, id id.ID) (*Order, error)

	// Update rewrites the order header and table parts
	Update(ctx context.Context, order *Order) error

	// List retrieves order headers with filtering
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Order], error)

	// ListForMonth retrieves full orders whose install completion date falls
	// into the given month, excluding cancelled ones
	ListForMonth(ctx context.Context, year int, month time.Month) ([]*Order, error)
}
