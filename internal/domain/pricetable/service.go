package pricetable

import (
	"context"
	"fmt"

	"frostdesk/internal/core/id"
	"frostdesk/internal/core/numerator"
	"frostdesk/internal/core/tx"
	"frostdesk/internal/domain"
)

// Service provides business logic for the price table.
type Service struct {
	*domain.CatalogService[*PriceRow]
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new price table service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*PriceRow]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "price_row",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, row *PriceRow) error {
	if row.Code == "" {
		code, err := s.NextCode(ctx, "PRC")
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		row.Code = code
	}
	return nil
}

// CreateWithComponents persists a row and its components atomically.
func (s *Service) CreateWithComponents(ctx context.Context, row *PriceRow) error {
	if err := s.Create(ctx, row); err != nil {
		return err
	}
	if len(row.Components) == 0 {
		return nil
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SaveComponents(ctx, row.ID, row.Components)
	})
}

// UpdateWithComponents rewrites a row and replaces its components
// atomically.
func (s *Service) UpdateWithComponents(ctx context.Context, row *PriceRow) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.Update(ctx, row); err != nil {
			return err
		}
		return s.repo.SaveComponents(ctx, row.ID, row.Components)
	})
}

// GetWithComponents retrieves a row including its components.
func (s *Service) GetWithComponents(ctx context.Context, rowID id.ID) (*PriceRow, error) {
	row, err := s.GetByID(ctx, rowID)
	if err != nil {
		return nil, err
	}
	components, err := s.repo.GetComponents(ctx, rowID)
	if err != nil {
		return nil, fmt.Errorf("get components: %w", err)
	}
	row.Components = components
	return row, nil
}

// LookupForYear loads the set-model index used by settlement generation.
func (s *Service) LookupForYear(ctx context.Context, year int) (Lookup, error) {
	rows, err := s.repo.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("load price table %d: %w", year, err)
	}
	return BuildLookup(rows), nil
}
