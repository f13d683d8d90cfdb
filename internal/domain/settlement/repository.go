package settlement

import (
	"context"
	"time"

	"frostdesk/internal/core/id"
)

// Repository defines the interface for expense report persistence.
type Repository interface {
	// GetByPeriod retrieves the report for a (year, month) with its items,
	// totals and groups, or a not-found error when absent
	GetByPeriod(ctx context.Context, year int, month time.Month) (*ExpenseReport, error)

	// Create persists a freshly generated snapshot
	Create(ctx context.Context, report *ExpenseReport) error

	// Update rewrites the report's items, totals, groups and status
	Update(ctx context.Context, report *ExpenseReport) error

	// Delete removes the report and its items (used by rewrite)
	Delete(ctx context.Context, reportID id.ID) error
}

// Archiver stores a compressed copy of a snapshot about to be destroyed by
// a rewrite. The report itself stays unrecoverable through the regular API.
type Archiver interface {
	Archive(ctx context.Context, report *ExpenseReport) error
}
