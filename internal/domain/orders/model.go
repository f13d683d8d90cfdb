// Package orders manages customer purchase orders: work items, customer
// quotes and lifecycle dates. Orders are never deleted, only cancelled.
package orders

import (
	"context"
	"time"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/entity"
	"frostdesk/internal/core/money"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusReceived  Status = "received"
	StatusScheduled Status = "scheduled"
	StatusInstalled Status = "installed"
	StatusCancelled Status = "cancelled"
)

// allowedTransitions lists the forward moves of the order lifecycle.
// Cancellation is possible until installation completes.
var allowedTransitions = map[Status][]Status{
	StatusReceived:  {StatusScheduled, StatusCancelled},
	StatusScheduled: {StatusInstalled, StatusCancelled},
	StatusInstalled: {},
	StatusCancelled: {},
}

// CanTransition reports whether the move from -> to is legal.
func CanTransition(from, to Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// WorkType classifies a work item.
type WorkType string

const (
	WorkNewInstall WorkType = "new_install"
	WorkRelocate   WorkType = "relocate"
	WorkRemoval    WorkType = "removal"
)

// WorkItem is one work position of an order: what to do with which
// equipment and how many units.
type WorkItem struct {
	WorkType WorkType `db:"work_type" json:"workType"`

	// EquipmentCategory is the unit form factor (wall, stand, ceiling, system)
	EquipmentCategory string `db:"equipment_category" json:"equipmentCategory"`

	// SetModel is the manufacturer set model, matched against the price table
	SetModel string `db:"set_model" json:"setModel"`

	// ComponentModel is the raw component designation when the item is a
	// loose component rather than a full set
	ComponentModel string `db:"component_model" json:"componentModel,omitempty"`

	Quantity int `db:"quantity" json:"quantity"`

	// StoredUnitPrice is the per-unit purchase price recorded on the item
	// itself. Used when the set model is absent from the price table.
	StoredUnitPrice money.Amount `db:"stored_unit_price" json:"storedUnitPrice"`
}

// QuoteLineKind separates equipment positions from installation work in a
// customer quote.
type QuoteLineKind string

const (
	QuoteEquipment QuoteLineKind = "equipment"
	QuoteInstall   QuoteLineKind = "install"
)

// QuoteLine is a single priced position of a customer quote.
type QuoteLine struct {
	Kind      QuoteLineKind `db:"kind" json:"kind"`
	Name      string        `db:"name" json:"name"`
	UnitPrice money.Amount  `db:"unit_price" json:"unitPrice"`
	Quantity  int           `db:"quantity" json:"quantity"`
}

// Total returns the line amount.
func (l QuoteLine) Total() money.Amount {
	return l.UnitPrice * int64(l.Quantity)
}

// Quote is the customer quote attached to an order.
type Quote struct {
	Lines []QuoteLine `json:"lines"`

	// ProfitMarkupRate is applied on top of the full quote subtotal
	ProfitMarkupRate float64 `json:"profitMarkupRate"`
}

// EquipmentSubtotal sums the equipment lines only.
func (q *Quote) EquipmentSubtotal() money.Amount {
	var sum money.Amount
	for _, l := range q.Lines {
		if l.Kind == QuoteEquipment {
			sum += l.Total()
		}
	}
	return sum
}

// Subtotal sums all quote lines before markup.
func (q *Quote) Subtotal() money.Amount {
	var sum money.Amount
	for _, l := range q.Lines {
		sum += l.Total()
	}
	return sum
}

// SubtotalWithMarkup returns the quote subtotal with the profit markup
// applied.
func (q *Quote) SubtotalWithMarkup() money.Amount {
	return money.RoundRate(q.Subtotal(), 1+q.ProfitMarkupRate)
}

// InstallSales is the sales amount of the installation line: the marked-up
// quote subtotal minus the equipment subtotal.
func (q *Quote) InstallSales() money.Amount {
	return q.SubtotalWithMarkup() - q.EquipmentSubtotal()
}

// Order is a customer purchase order document.
type Order struct {
	entity.Document

	// Affiliate the order is billed under
	Affiliate string `db:"affiliate" json:"affiliate"`

	// BusinessName is the customer/site name
	BusinessName string `db:"business_name" json:"businessName"`

	// Supplier of the ordered equipment
	Supplier string `db:"supplier" json:"supplier,omitempty"`

	Status Status `db:"status" json:"status"`

	// InstallScheduleDate is when installation is planned
	InstallScheduleDate *time.Time `db:"install_schedule_date" json:"installScheduleDate,omitempty"`

	// InstallCompletionDate determines the settlement month of the order
	InstallCompletionDate *time.Time `db:"install_completion_date" json:"installCompletionDate,omitempty"`

	// InstallCost is the recorded installation cost; a zero cost emits no
	// installation settlement line
	InstallCost money.Amount `db:"install_cost" json:"installCost"`

	// WorkItems is the order's table part (stored separately)
	WorkItems []WorkItem `db:"-" json:"workItems"`

	// Quote is optional; nil when no customer quote was prepared
	Quote *Quote `db:"-" json:"quote,omitempty"`
}

// NewOrder creates an order in the received state.
func NewOrder(affiliate, businessName string) *Order {
	return &Order{
		Document:     entity.NewDocument(),
		Affiliate:    affiliate,
		BusinessName: businessName,
		Status:       StatusReceived,
		WorkItems:    make([]WorkItem, 0),
	}
}

// Validate implements entity.Validatable interface.
func (o *Order) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}
	if o.Affiliate == "" {
		return apperror.NewValidation("affiliate is required").
			WithDetail("field", "affiliate")
	}
	if o.BusinessName == "" {
		return apperror.NewValidation("business name is required").
			WithDetail("field", "businessName")
	}
	if o.Status == "" {
		o.Status = StatusReceived
	}
	for i, wi := range o.WorkItems {
		if wi.Quantity <= 0 {
			return apperror.NewValidation("work item quantity must be positive").
				WithDetail("index", i)
		}
	}
	return nil
}

// IsCancelled reports whether the order is cancelled.
func (o *Order) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// NewInstallCount returns the total quantity of new-installation work items.
// The row generator uses it to infer the set quantity of an aggregated line.
func (o *Order) NewInstallCount() int {
	var n int
	for _, wi := range o.WorkItems {
		if wi.WorkType == WorkNewInstall {
			n += wi.Quantity
		}
	}
	return n
}

// SettlementMonthMatches reports whether the order's install completion date
// falls into the given (year, month).
func (o *Order) SettlementMonthMatches(year int, month time.Month) bool {
	if o.InstallCompletionDate == nil {
		return false
	}
	d := *o.InstallCompletionDate
	return d.Year() == year && d.Month() == month
}
