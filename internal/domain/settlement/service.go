package settlement

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/tx"
	"frostdesk/internal/domain/affiliate"
	"frostdesk/internal/domain/asrequest"
	"frostdesk/internal/domain/orders"
	"frostdesk/internal/domain/pricetable"
)

// OrderSource supplies the orders feeding a month's report.
type OrderSource interface {
	ListForMonth(ctx context.Context, year int, month time.Month) ([]*orders.Order, error)
}

// TicketSource supplies AS tickets eligible for a month's settlement.
type TicketSource interface {
	ListForSettlement(ctx context.Context, year int, month time.Month) ([]*asrequest.ASRequest, error)
}

// PriceSource supplies the price table lookup for a year.
type PriceSource interface {
	LookupForYear(ctx context.Context, year int) (pricetable.Lookup, error)
}

// AffiliateSource supplies the emission ordering.
type AffiliateSource interface {
	Ordering(ctx context.Context) (affiliate.Ordering, error)
}

// Service runs the settlement pipeline and manages report lifecycle:
// absent -> generated -> edited, with rewrite as the only way back to a
// freshly generated state.
type Service struct {
	reports   Repository
	archiver  Archiver
	orders    OrderSource
	tickets   TicketSource
	prices    PriceSource
	partners  AffiliateSource
	txManager tx.Manager
}

// NewService creates a settlement service.
func NewService(
	reports Repository,
	archiver Archiver,
	orderSrc OrderSource,
	ticketSrc TicketSource,
	priceSrc PriceSource,
	affiliateSrc AffiliateSource,
	txManager tx.Manager,
) *Service {
	return &Service{
		reports:   reports,
		archiver:  archiver,
		orders:    orderSrc,
		tickets:   ticketSrc,
		prices:    priceSrc,
		partners:  affiliateSrc,
		txManager: txManager,
	}
}

// Generate runs the full pipeline for a month and persists the snapshot.
// Fails with REPORT_ALREADY_GENERATED when a report exists for the period.
func (s *Service) Generate(ctx context.Context, year int, month time.Month) (*ExpenseReport, error) {
	if _, err := s.reports.GetByPeriod(ctx, year, month); err == nil {
		return nil, apperror.NewReportExists(year, int(month))
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	report, err := s.derive(ctx, year, month)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.reports.Create(ctx, report); err != nil {
			return fmt.Errorf("persist report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Get retrieves the snapshot for a period.
func (s *Service) Get(ctx context.Context, year int, month time.Month) (*ExpenseReport, error) {
	report, err := s.reports.GetByPeriod(ctx, year, month)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewReportNotFound(year, int(month))
		}
		return nil, err
	}
	return report, nil
}

// Rewrite discards the existing snapshot and regenerates from current live
// order and AS data. The old snapshot is archived in compressed form for
// audit but is unrecoverable through the report API. Two concurrent
// rewrites race with last-write-wins.
func (s *Service) Rewrite(ctx context.Context, year int, month time.Month) (*ExpenseReport, error) {
	old, err := s.Get(ctx, year, month)
	if err != nil {
		return nil, err
	}

	report, err := s.derive(ctx, year, month)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.archiver.Archive(ctx, old); err != nil {
			return fmt.Errorf("archive old snapshot: %w", err)
		}
		if err := s.reports.Delete(ctx, old.ID); err != nil {
			return fmt.Errorf("delete old snapshot: %w", err)
		}
		if err := s.reports.Create(ctx, report); err != nil {
			return fmt.Errorf("persist rewritten report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// SaveEdited replaces the report's items with the submitted list (row
// add/remove/reorder happen client-side), re-derives every row, recomputes
// totals and groups, and persists with the edited status.
func (s *Service) SaveEdited(ctx context.Context, year int, month time.Month, items []LineItem) (*ExpenseReport, error) {
	report, err := s.Get(ctx, year, month)
	if err != nil {
		return nil, err
	}

	ordering, err := s.partners.Ordering(ctx)
	if err != nil {
		return nil, err
	}

	report.Items = RecalculateAll(items)
	report.Totals = SumTotals(report.Items)
	report.Groups = GroupItems(report.Items, ordering)
	report.MarkEdited()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.reports.Update(ctx, report); err != nil {
			return fmt.Errorf("persist edited report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// MonthlySettlement computes the per-affiliate AS payable blocks for a
// month on demand. Nothing is persisted.
func (s *Service) MonthlySettlement(ctx context.Context, year int, month time.Month) ([]AffiliateGroup, error) {
	var (
		tickets  []*asrequest.ASRequest
		ordering affiliate.Ordering
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tickets, err = s.tickets.ListForSettlement(gctx, year, month)
		return err
	})
	g.Go(func() error {
		var err error
		ordering, err = s.partners.Ordering(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return GroupTickets(tickets, ordering), nil
}

// derive fetches the month's inputs concurrently and runs the three
// pipeline stages.
func (s *Service) derive(ctx context.Context, year int, month time.Month) (*ExpenseReport, error) {
	var (
		monthOrders []*orders.Order
		tickets     []*asrequest.ASRequest
		prices      pricetable.Lookup
		ordering    affiliate.Ordering
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		monthOrders, err = s.orders.ListForMonth(gctx, year, month)
		return err
	})
	g.Go(func() error {
		var err error
		tickets, err = s.tickets.ListForSettlement(gctx, year, month)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = s.prices.LookupForYear(gctx, year)
		return err
	})
	g.Go(func() error {
		var err error
		ordering, err = s.partners.Ordering(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch settlement inputs: %w", err)
	}

	report := NewExpenseReport(year, month)
	report.Items = GenerateRows(Input{
		MonthTag: asrequest.SettlementMonth(year, month),
		Orders:   monthOrders,
		Tickets:  tickets,
		Prices:   prices,
		Ordering: ordering,
	})
	report.Totals = SumTotals(report.Items)
	report.Groups = GroupItems(report.Items, ordering)
	return report, nil
}
