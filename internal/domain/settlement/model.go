// Package settlement implements the monthly expense-report derivation
// pipeline: row generation from orders and AS tickets, per-line derived
// field computation, and per-affiliate aggregation with truncation and VAT.
package settlement

import (
	"context"
	"time"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/entity"
	"frostdesk/internal/core/money"
)

// LineSource tags where a report line came from.
type LineSource string

const (
	SourceOrderEquipment LineSource = "order_equipment"
	SourceOrderInstall   LineSource = "order_install"
	SourceASService      LineSource = "as_service"
	SourceManual         LineSource = "manual"
)

// LineItem is one flat row of an expense report. Every field is declared
// explicitly with a defined zero default; missing pricing is signalled by
// PricingIncomplete, never by zero values alone.
type LineItem struct {
	// LineNo is the emission order, monotonically increasing within a report
	LineNo int `db:"line_no" json:"lineNo"`

	BusinessName string `db:"business_name" json:"businessName"`
	Affiliate    string `db:"affiliate" json:"affiliate"`
	Supplier     string `db:"supplier" json:"supplier"`

	// ItemType is the display classification (set model, install, AS)
	ItemType string `db:"item_type" json:"itemType"`

	// Spec is the model/specification text shown on the row
	Spec string `db:"spec" json:"spec"`

	Quantity int `db:"quantity" json:"quantity"`

	ListPrice    money.Amount `db:"list_price" json:"listPrice"`
	DiscountRate float64      `db:"discount_rate" json:"discountRate"`

	PurchaseUnitPrice  money.Amount `db:"purchase_unit_price" json:"purchaseUnitPrice"`
	PurchaseTotalPrice money.Amount `db:"purchase_total_price" json:"purchaseTotalPrice"`

	MarginRate float64 `db:"margin_rate" json:"marginRate"`

	SalesUnitPrice  money.Amount `db:"sales_unit_price" json:"salesUnitPrice"`
	SalesTotalPrice money.Amount `db:"sales_total_price" json:"salesTotalPrice"`

	FrontMarginUnit  money.Amount `db:"front_margin_unit" json:"frontMarginUnit"`
	FrontMarginTotal money.Amount `db:"front_margin_total" json:"frontMarginTotal"`

	IncentiveGradeRate   float64      `db:"incentive_grade_rate" json:"incentiveGradeRate"`
	IncentiveGradeAmount money.Amount `db:"incentive_grade_amount" json:"incentiveGradeAmount"`
	IncentiveItemAmount  money.Amount `db:"incentive_item_amount" json:"incentiveItemAmount"`

	TotalMargin money.Amount `db:"total_margin" json:"totalMargin"`

	Source LineSource `db:"source" json:"source"`

	// PricingIncomplete marks rows whose set model was absent from the price
	// table, so sales-side values await manual entry
	PricingIncomplete bool `db:"pricing_incomplete" json:"pricingIncomplete"`
}

// Totals is the report-wide total row.
type Totals struct {
	PurchaseTotal       money.Amount `db:"purchase_total" json:"purchaseTotal"`
	SalesTotal          money.Amount `db:"sales_total" json:"salesTotal"`
	FrontMarginTotal    money.Amount `db:"front_margin_total" json:"frontMarginTotal"`
	IncentiveGradeTotal money.Amount `db:"incentive_grade_total" json:"incentiveGradeTotal"`
	TotalMargin         money.Amount `db:"total_margin" json:"totalMargin"`
}

// AffiliateGroup is a per-affiliate payable block. The raw group sum is
// truncated to the lower 1,000 before VAT, per group rather than globally.
type AffiliateGroup struct {
	Affiliate string `db:"affiliate" json:"affiliate"`

	// RawSum is the untruncated group sum
	RawSum money.Amount `db:"raw_sum" json:"rawSum"`

	// Subtotal = floor(RawSum / 1000) × 1000
	Subtotal money.Amount `db:"subtotal" json:"subtotal"`

	// GrandTotal = round(Subtotal × 1.1)
	GrandTotal money.Amount `db:"grand_total" json:"grandTotal"`

	// VAT = GrandTotal − Subtotal, stored explicitly
	VAT money.Amount `db:"vat" json:"vat"`
}

// NewAffiliateGroup derives the truncated subtotal, VAT-inclusive grand
// total and VAT figure from a raw sum.
func NewAffiliateGroup(affiliateName string, rawSum money.Amount) AffiliateGroup {
	subtotal := money.TruncateToThousand(rawSum)
	grand := money.AddVAT(subtotal)
	return AffiliateGroup{
		Affiliate:  affiliateName,
		RawSum:     rawSum,
		Subtotal:   subtotal,
		GrandTotal: grand,
		VAT:        grand - subtotal,
	}
}

// ReportStatus is the expense report lifecycle state. An absent report has
// no row at all.
type ReportStatus string

const (
	ReportGenerated ReportStatus = "generated"
	ReportEdited    ReportStatus = "edited"
)

// ExpenseReport is the monthly settlement snapshot keyed by (year, month).
// It is frozen at generation time and never reconciled with live order/AS
// data; only an explicit rewrite or manual edit changes it.
type ExpenseReport struct {
	entity.BaseDocument

	Year  int        `db:"year" json:"year"`
	Month time.Month `db:"month" json:"month"`

	Status ReportStatus `db:"status" json:"status"`

	Items  []LineItem       `db:"-" json:"items"`
	Totals Totals           `db:"-" json:"totals"`
	Groups []AffiliateGroup `db:"-" json:"groups"`
}

// NewExpenseReport creates an empty generated report for a period.
func NewExpenseReport(year int, month time.Month) *ExpenseReport {
	return &ExpenseReport{
		BaseDocument: entity.NewBaseDocument(),
		Year:         year,
		Month:        month,
		Status:       ReportGenerated,
	}
}

// Validate implements entity.Validatable interface.
func (r *ExpenseReport) Validate(ctx context.Context) error {
	if r.Year < 2000 || r.Year > 2100 {
		return apperror.NewValidation("year out of range").
			WithDetail("field", "year").
			WithDetail("value", r.Year)
	}
	if r.Month < time.January || r.Month > time.December {
		return apperror.NewValidation("month out of range").
			WithDetail("field", "month").
			WithDetail("value", int(r.Month))
	}
	if r.Status != ReportGenerated && r.Status != ReportEdited {
		return apperror.NewValidation("unknown report status").
			WithDetail("value", string(r.Status))
	}
	return nil
}

// MarkEdited flips the report into the edited state.
func (r *ExpenseReport) MarkEdited() {
	r.Status = ReportEdited
	r.Touch()
}
