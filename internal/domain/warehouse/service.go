package warehouse

import (
	"context"
	"fmt"
	"time"

	"frostdesk/internal/core/id"
	"frostdesk/internal/core/numerator"
	"frostdesk/internal/core/tx"
	"frostdesk/internal/domain"
)

// Service provides business logic for the warehouse.
type Service struct {
	*domain.CatalogService[*StoredItem]
	repo Repository
}

// NewService creates a new warehouse service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*StoredItem]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "stored_item",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, item *StoredItem) error {
	if item.Code == "" {
		code, err := s.NextCode(ctx, "WH")
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		item.Code = code
	}
	return nil
}

// Release hands a stored item back out of the warehouse.
func (s *Service) Release(ctx context.Context, itemID id.ID, at time.Time) error {
	item, err := s.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := item.Release(at); err != nil {
		return err
	}
	return s.Update(ctx, item)
}

// Scrap disposes of a stored item.
func (s *Service) Scrap(ctx context.Context, itemID id.ID, at time.Time) error {
	item, err := s.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := item.Scrap(at); err != nil {
		return err
	}
	return s.Update(ctx, item)
}
