package dto

import (
	"time"

	"frostdesk/internal/core/money"
	"frostdesk/internal/domain/orders"
)

// WorkItemRequest describes one work position of an order.
type WorkItemRequest struct {
	WorkType          string       `json:"workType" binding:"required,oneof=new_install relocate removal"`
	EquipmentCategory string       `json:"equipmentCategory"`
	SetModel          string       `json:"setModel"`
	ComponentModel    string       `json:"componentModel"`
	Quantity          int          `json:"quantity" binding:"required,min=1"`
	StoredUnitPrice   money.Amount `json:"storedUnitPrice" binding:"min=0"`
}

func (r WorkItemRequest) toWorkItem() orders.WorkItem {
	return orders.WorkItem{
		WorkType:          orders.WorkType(r.WorkType),
		EquipmentCategory: r.EquipmentCategory,
		SetModel:          r.SetModel,
		ComponentModel:    r.ComponentModel,
		Quantity:          r.Quantity,
		StoredUnitPrice:   r.StoredUnitPrice,
	}
}

// QuoteLineRequest is a single priced quote position.
type QuoteLineRequest struct {
	Kind      string       `json:"kind" binding:"required,oneof=equipment install"`
	Name      string       `json:"name" binding:"required"`
	UnitPrice money.Amount `json:"unitPrice" binding:"min=0"`
	Quantity  int          `json:"quantity" binding:"required,min=1"`
}

// QuoteRequest carries a full customer quote. Also the payload of the
// quote auto-save endpoint.
type QuoteRequest struct {
	Lines            []QuoteLineRequest `json:"lines"`
	ProfitMarkupRate float64            `json:"profitMarkupRate" binding:"min=0"`
}

// ToQuote maps the request to a domain quote.
func (r QuoteRequest) ToQuote() *orders.Quote {
	q := &orders.Quote{ProfitMarkupRate: r.ProfitMarkupRate}
	for _, l := range r.Lines {
		q.Lines = append(q.Lines, orders.QuoteLine{
			Kind:      orders.QuoteLineKind(l.Kind),
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}
	return q
}

// CreateOrderRequest for creating orders.
type CreateOrderRequest struct {
	Affiliate    string            `json:"affiliate" binding:"required"`
	BusinessName string            `json:"businessName" binding:"required"`
	Supplier     string            `json:"supplier"`
	Date         *time.Time        `json:"date"`
	Comment      string            `json:"comment"`
	InstallCost  money.Amount      `json:"installCost" binding:"min=0"`
	WorkItems    []WorkItemRequest `json:"workItems"`
	Quote        *QuoteRequest     `json:"quote"`
}

// ToEntity maps the request to a domain order.
func (r CreateOrderRequest) ToEntity() *orders.Order {
	o := orders.NewOrder(r.Affiliate, r.BusinessName)
	o.Supplier = r.Supplier
	o.Comment = r.Comment
	o.InstallCost = r.InstallCost
	if r.Date != nil {
		o.Date = *r.Date
	}
	for _, wi := range r.WorkItems {
		o.WorkItems = append(o.WorkItems, wi.toWorkItem())
	}
	if r.Quote != nil {
		o.Quote = r.Quote.ToQuote()
	}
	return o
}

// UpdateOrderRequest for updating orders. Status moves go through the
// dedicated lifecycle endpoints, not through update.
type UpdateOrderRequest struct {
	Affiliate    *string           `json:"affiliate"`
	BusinessName *string           `json:"businessName"`
	Supplier     *string           `json:"supplier"`
	Date         *time.Time        `json:"date"`
	Comment      *string           `json:"comment"`
	InstallCost  *money.Amount     `json:"installCost"`
	WorkItems    []WorkItemRequest `json:"workItems"`
	Quote        *QuoteRequest     `json:"quote"`
	Version      int               `json:"version" binding:"required,min=1"`
}

// ApplyTo copies set fields onto an existing order.
func (r UpdateOrderRequest) ApplyTo(o *orders.Order) {
	if r.Affiliate != nil {
		o.Affiliate = *r.Affiliate
	}
	if r.BusinessName != nil {
		o.BusinessName = *r.BusinessName
	}
	if r.Supplier != nil {
		o.Supplier = *r.Supplier
	}
	if r.Date != nil {
		o.Date = *r.Date
	}
	if r.Comment != nil {
		o.Comment = *r.Comment
	}
	if r.InstallCost != nil {
		o.InstallCost = *r.InstallCost
	}
	if r.WorkItems != nil {
		o.WorkItems = o.WorkItems[:0]
		for _, wi := range r.WorkItems {
			o.WorkItems = append(o.WorkItems, wi.toWorkItem())
		}
	}
	if r.Quote != nil {
		o.Quote = r.Quote.ToQuote()
	}
	o.Version = r.Version
}

// ScheduleOrderRequest for POST /orders/:id/schedule.
type ScheduleOrderRequest struct {
	Date time.Time `json:"date" binding:"required"`
}

// CompleteInstallRequest for POST /orders/:id/complete.
type CompleteInstallRequest struct {
	Date time.Time `json:"date" binding:"required"`
}
