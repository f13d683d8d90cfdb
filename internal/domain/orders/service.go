package orders

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

// Service provides business logic for orders.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator numerator.Generator
}

// NewService creates a new order service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: gen,
	}
}

// Create validates and persists a new order, numbering it when needed.
func (s *Service) Create(ctx context.Context, order *Order) error {
	if err := order.Validate(ctx); err != nil {
		return err
	}

	if order.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ORD"), order.Date)
		if err != nil {
			return fmt.Errorf("generate order number: %w", err)
		}
		order.Number = number
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
}

// GetByID retrieves an order with its work items and quote.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, err
	}
	return order, nil
}

// Update persists changes to an order. Cancelled orders are read-only.
func (s *Service) Update(ctx context.Context, order *Order) error {
	if err := order.Validate(ctx); err != nil {
		return err
	}

	current, err := s.GetByID(ctx, order.ID)
	if err != nil {
		return err
	}
	if current.IsCancelled() {
		return apperror.NewBusinessRule(apperror.CodeOrderCancelled,
			"cancelled order cannot be modified").
			WithDetail("id", order.ID.String())
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return nil
	})
}

// Schedule moves the order to scheduled and records the planned install date.
func (s *Service) Schedule(ctx context.Context, orderID id.ID, date time.Time) error {
	return s.transition(ctx, orderID, StatusScheduled, func(o *Order) {
		o.InstallScheduleDate = &date
	})
}

// CompleteInstall moves the order to installed and records the completion
// date, which fixes the order's settlement month.
func (s *Service) CompleteInstall(ctx context.Context, orderID id.ID, date time.Time) error {
	return s.transition(ctx, orderID, StatusInstalled, func(o *Order) {
		o.InstallCompletionDate = &date
	})
}

// Cancel cancels the order. Orders are never hard-deleted.
func (s *Service) Cancel(ctx context.Context, orderID id.ID) error {
	return s.transition(ctx, orderID, StatusCancelled, nil)
}

func (s *Service) transition(ctx context.Context, orderID id.ID, to Status, apply func(*Order)) error {
	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !CanTransition(order.Status, to) {
		return apperror.NewInvalidTransition("order", string(order.Status), string(to))
	}
	order.Status = to
	if apply != nil {
		apply(order)
	}
	order.Touch()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, order); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return nil
	})
}

// List retrieves order headers with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Order], error) {
	return s.repo.List(ctx, filter)
}

// ListForMonth retrieves the orders feeding the settlement pipeline for a
// month: install completed in that month, not cancelled.
func (s *Service) ListForMonth(ctx context.Context, year int, month time.Month) ([]*Order, error) {
	return s.repo.ListForMonth(ctx, year, month)
}
