package dto

import (
	"frostdesk/internal/core/money"
	"frostdesk/internal/domain/settlement"
)

// LineItemRequest carries one edited report row. Derived fields
// (totals, margins) are recomputed server-side; only the raw inputs
// matter here.
type LineItemRequest struct {
	BusinessName string `json:"businessName"`
	Affiliate    string `json:"affiliate" binding:"required"`
	Supplier     string `json:"supplier"`
	ItemType     string `json:"itemType"`
	Spec         string `json:"spec"`

	Quantity int `json:"quantity" binding:"min=0"`

	ListPrice    money.Amount `json:"listPrice" binding:"min=0"`
	DiscountRate float64      `json:"discountRate" binding:"min=0,max=1"`

	PurchaseUnitPrice money.Amount `json:"purchaseUnitPrice" binding:"min=0"`
	SalesUnitPrice    money.Amount `json:"salesUnitPrice" binding:"min=0"`

	IncentiveGradeRate  float64      `json:"incentiveGradeRate" binding:"min=0"`
	IncentiveItemAmount money.Amount `json:"incentiveItemAmount"`

	Source            string `json:"source"`
	PricingIncomplete bool   `json:"pricingIncomplete"`
}

// ToLineItem maps the request to a domain line item.
func (r LineItemRequest) ToLineItem() settlement.LineItem {
	source := settlement.LineSource(r.Source)
	if source == "" {
		source = settlement.SourceManual
	}
	return settlement.LineItem{
		BusinessName:        r.BusinessName,
		Affiliate:           r.Affiliate,
		Supplier:            r.Supplier,
		ItemType:            r.ItemType,
		Spec:                r.Spec,
		Quantity:            r.Quantity,
		ListPrice:           r.ListPrice,
		DiscountRate:        r.DiscountRate,
		PurchaseUnitPrice:   r.PurchaseUnitPrice,
		SalesUnitPrice:      r.SalesUnitPrice,
		IncentiveGradeRate:  r.IncentiveGradeRate,
		IncentiveItemAmount: r.IncentiveItemAmount,
		Source:              source,
		PricingIncomplete:   r.PricingIncomplete,
	}
}

// SaveEditedReportRequest for PUT /settlement/reports/:year/:month.
type SaveEditedReportRequest struct {
	Items []LineItemRequest `json:"items" binding:"required"`
}

// ToLineItems maps all rows.
func (r SaveEditedReportRequest) ToLineItems() []settlement.LineItem {
	items := make([]settlement.LineItem, 0, len(r.Items))
	for _, li := range r.Items {
		items = append(items, li.ToLineItem())
	}
	return items
}
