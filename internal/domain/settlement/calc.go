package settlement

import (
	"frostdesk/internal/core/money"
)

// Recalculate recomputes every dependent field of a line item from its
// independent fields (list price, discount rate, quantity, sales unit price,
// incentive grade rate, incentive item amount).
//
// The function is pure and idempotent: it takes and returns the item by
// value, and applying it twice yields an identical result.
func Recalculate(li LineItem) LineItem {
	// Purchase unit is only derived when both inputs are meaningful;
	// otherwise the stored value stands (manual or component-sourced price).
	if li.ListPrice > 0 && li.DiscountRate > 0 {
		li.PurchaseUnitPrice = money.DiscountedUnit(li.ListPrice, li.DiscountRate)
	}

	qty := int64(li.Quantity)
	li.PurchaseTotalPrice = li.PurchaseUnitPrice * qty
	li.SalesTotalPrice = li.SalesUnitPrice * qty

	if li.SalesTotalPrice > 0 {
		li.MarginRate = 1 - float64(li.PurchaseUnitPrice)/float64(li.SalesUnitPrice)
	} else {
		li.MarginRate = 0
	}

	li.FrontMarginUnit = li.SalesUnitPrice - li.PurchaseUnitPrice
	li.FrontMarginTotal = li.FrontMarginUnit * qty

	li.IncentiveGradeAmount = money.RoundRate(li.PurchaseTotalPrice, li.IncentiveGradeRate)

	li.TotalMargin = li.FrontMarginTotal + li.IncentiveGradeAmount + li.IncentiveItemAmount

	return li
}

// RecalculateAll applies Recalculate to every item, renumbering lines to
// keep the monotonic emission order after client-side add/remove/reorder.
func RecalculateAll(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, li := range items {
		li = Recalculate(li)
		li.LineNo = i + 1
		out[i] = li
	}
	return out
}
