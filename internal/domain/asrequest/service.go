package asrequest

import (
	"context"
	"fmt"
	"time"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/id"
	"frostdesk/internal/core/numerator"
	"frostdesk/internal/core/tx"
	"frostdesk/internal/domain"
)

// Service provides business logic for AS tickets.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator numerator.Generator

	// now is swappable for tests
	now func() time.Time
}

// NewService creates a new AS ticket service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: gen,
		now:       time.Now,
	}
}

// Create validates and persists a new ticket.
func (s *Service) Create(ctx context.Context, req *ASRequest) error {
	if err := req.Validate(ctx); err != nil {
		return err
	}

	if req.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("AS"), req.Date)
		if err != nil {
			return fmt.Errorf("generate ticket number: %w", err)
		}
		req.Number = number
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, req); err != nil {
			return fmt.Errorf("create as_request: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a ticket.
func (s *Service) GetByID(ctx context.Context, reqID id.ID) (*ASRequest, error) {
	req, err := s.repo.GetByID(ctx, reqID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("as_request", reqID.String())
		}
		return nil, err
	}
	return req, nil
}

// Update persists field changes. Status is changed via Transition only.
func (s *Service) Update(ctx context.Context, req *ASRequest) error {
	if err := req.Validate(ctx); err != nil {
		return err
	}

	current, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if current.Status != req.Status {
		return apperror.NewInvalidTransition("as_request",
			string(current.Status), string(req.Status)).
			WithDetail("hint", "use the transition endpoint for status changes")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, req); err != nil {
			return fmt.Errorf("update as_request: %w", err)
		}
		return nil
	})
}

// Transition moves a ticket one step forward in its lifecycle.
func (s *Service) Transition(ctx context.Context, reqID id.ID, to Status) (*ASRequest, error) {
	req, err := s.GetByID(ctx, reqID)
	if err != nil {
		return nil, err
	}

	if err := req.Transition(to, s.now()); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, req); err != nil {
			return fmt.Errorf("update as_request status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// List retrieves tickets with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*ASRequest], error) {
	return s.repo.List(ctx, filter)
}

// ListForSettlement retrieves the tickets feeding settlement for a month.
func (s *Service) ListForSettlement(ctx context.Context, year int, month time.Month) ([]*ASRequest, error) {
	return s.repo.ListForSettlement(ctx, SettlementMonth(year, month))
}
