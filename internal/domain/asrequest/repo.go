package asrequest

import (
	"context"

	"frostdesk/internal/core/id"
	"frostdesk/internal/domain"
)

// Repository defines the interface for AS ticket persistence.
type Repository interface {
	Create(ctx context.Context, req *ASRequest) error

	GetByID(ctx context.Context, id id.ID) (*ASRequest, error)

	Update(ctx context.Context, req *ASRequest) error

	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*ASRequest], error)

	// ListForSettlement retrieves tickets that are completed or settled and
	// carry the given "YYYY-MM" settlement month tag
	ListForSettlement(ctx context.Context, monthTag string) ([]*ASRequest, error)
}
