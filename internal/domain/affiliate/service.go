package affiliate

import (
	"context"
	"fmt"

	"frostdesk/internal/core/numerator"
	"frostdesk/internal/core/tx"
	"frostdesk/internal/domain"
)

// Service provides business logic for the Affiliate catalog.
type Service struct {
	*domain.CatalogService[*Affiliate]
	repo Repository
}

// NewService creates a new Affiliate service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Affiliate]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "affiliate",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate generates a code when not provided.
func (s *Service) prepareForCreate(ctx context.Context, a *Affiliate) error {
	if a.Code == "" {
		code, err := s.NextCode(ctx, "AFF")
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		a.Code = code
	}
	return nil
}

// Ordering loads the current settlement emission ordering.
func (s *Service) Ordering(ctx context.Context) (Ordering, error) {
	items, err := s.repo.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("load affiliate ordering: %w", err)
	}
	return BuildOrdering(items), nil
}
