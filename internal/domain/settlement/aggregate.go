package settlement

import (
	"frostdesk/internal/core/money"
	"frostdesk/internal/domain/affiliate"
	"frostdesk/internal/domain/asrequest"
)

// SumTotals produces the report-wide total row. Summation is over integer
// amounts, so it is independent of item order.
func SumTotals(items []LineItem) Totals {
	var t Totals
	for _, li := range items {
		t.PurchaseTotal += li.PurchaseTotalPrice
		t.SalesTotal += li.SalesTotalPrice
		t.FrontMarginTotal += li.FrontMarginTotal
		t.IncentiveGradeTotal += li.IncentiveGradeAmount
		t.TotalMargin += li.TotalMargin
	}
	return t
}

// GroupItems builds the per-affiliate payable blocks from report lines.
// Each group's purchase sum is truncated to the lower 1,000 independently
// before VAT, so truncation leakage is capped per affiliate instead of
// accumulating in a global sum. Groups follow the affiliate priority order.
func GroupItems(items []LineItem, ord affiliate.Ordering) []AffiliateGroup {
	sums := make(map[string]money.Amount)
	names := make([]string, 0)
	for _, li := range items {
		if _, ok := sums[li.Affiliate]; !ok {
			names = append(names, li.Affiliate)
		}
		sums[li.Affiliate] += li.PurchaseTotalPrice
	}
	return buildGroups(names, sums, ord)
}

// GroupTickets builds the monthly AS settlement blocks directly from
// tickets, with the same truncate-then-VAT policy.
func GroupTickets(tickets []*asrequest.ASRequest, ord affiliate.Ordering) []AffiliateGroup {
	sums := make(map[string]money.Amount)
	names := make([]string, 0)
	for _, t := range tickets {
		if _, ok := sums[t.Affiliate]; !ok {
			names = append(names, t.Affiliate)
		}
		sums[t.Affiliate] += t.TotalAmount()
	}
	return buildGroups(names, sums, ord)
}

func buildGroups(names []string, sums map[string]money.Amount, ord affiliate.Ordering) []AffiliateGroup {
	ord.SortNames(names)
	groups := make([]AffiliateGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, NewAffiliateGroup(name, sums[name]))
	}
	return groups
}
