package settlement

import (
	"fmt"
	"sort"

	"frostdesk/internal/domain/affiliate"
	"frostdesk/internal/domain/asrequest"
	"frostdesk/internal/domain/orders"
	"frostdesk/internal/domain/pricetable"
)

// Input carries everything row generation needs for one target month.
// Orders are expected pre-filtered to the month (install completion) and
// tickets to the month tag; the generator re-checks ticket eligibility.
type Input struct {
	MonthTag string

	Orders  []*orders.Order
	Tickets []*asrequest.ASRequest
	Prices  pricetable.Lookup

	// Ordering drives emission order; it is catalog data, not a constant
	Ordering affiliate.Ordering
}

// GenerateRows produces the unexpanded line-item list for a month: order
// equipment lines (aggregated per set model where priced), one installation
// line per order with install cost, then one AS line per affiliate. Derived
// fields are computed for every emitted line and line numbers are assigned
// monotonically in emission order.
func GenerateRows(in Input) []LineItem {
	items := make([]LineItem, 0, len(in.Orders)+len(in.Tickets))

	sorted := make([]*orders.Order, len(in.Orders))
	copy(sorted, in.Orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := in.Ordering.Rank(sorted[i].Affiliate), in.Ordering.Rank(sorted[j].Affiliate)
		if ri != rj {
			return ri < rj
		}
		return sorted[i].Affiliate < sorted[j].Affiliate
	})

	for _, o := range sorted {
		if o.IsCancelled() {
			continue
		}
		items = append(items, equipmentLines(o, in.Prices)...)
		if line, ok := installLine(o); ok {
			items = append(items, line)
		}
	}

	items = append(items, asLines(in.Tickets, in.MonthTag, in.Ordering)...)

	for i := range items {
		items[i] = Recalculate(items[i])
		items[i].LineNo = i + 1
	}
	return items
}

// setGroup accumulates an order's work items sharing a set model.
type setGroup struct {
	model        string
	installQty   int
	totalQty     int
	storedUnit   int64
	componentRef orders.WorkItem
}

// equipmentLines emits the equipment rows of one order. Work items are
// grouped by set model. A model priced in the price table yields one
// aggregated line; an unknown model yields one line per raw component with
// purchase price from the stored unit price, zero sales values and the
// incomplete-pricing flag raised.
func equipmentLines(o *orders.Order, prices pricetable.Lookup) []LineItem {
	groups := make(map[string]*setGroup)
	order := make([]string, 0)
	unknownItems := make(map[string][]orders.WorkItem)

	for _, wi := range o.WorkItems {
		if wi.SetModel == "" || wi.WorkType == orders.WorkRemoval {
			continue
		}
		g, ok := groups[wi.SetModel]
		if !ok {
			g = &setGroup{model: wi.SetModel}
			groups[wi.SetModel] = g
			order = append(order, wi.SetModel)
		}
		g.totalQty += wi.Quantity
		if wi.WorkType == orders.WorkNewInstall {
			g.installQty += wi.Quantity
		}
		if wi.StoredUnitPrice > 0 {
			g.storedUnit = wi.StoredUnitPrice
		}
		unknownItems[wi.SetModel] = append(unknownItems[wi.SetModel], wi)
	}

	lines := make([]LineItem, 0, len(order))
	for _, model := range order {
		g := groups[model]
		row := prices.Find(model)
		if row == nil {
			// Unknown list price: keep the raw components visible and flag
			// the rows for manual pricing instead of guessing.
			for _, wi := range unknownItems[model] {
				lines = append(lines, LineItem{
					BusinessName:      o.BusinessName,
					Affiliate:         o.Affiliate,
					Supplier:          o.Supplier,
					ItemType:          wi.EquipmentCategory,
					Spec:              componentSpec(wi),
					Quantity:          wi.Quantity,
					PurchaseUnitPrice: wi.StoredUnitPrice,
					Source:            SourceOrderEquipment,
					PricingIncomplete: true,
				})
			}
			continue
		}

		qty := g.installQty
		if qty == 0 {
			// No explicit new-install count: infer sets from the component
			// count ratio.
			if cc := row.ComponentCount(); cc > 0 {
				qty = g.totalQty / cc
			}
			if qty == 0 {
				qty = g.totalQty
			}
		}

		supplier := o.Supplier
		if supplier == "" {
			supplier = row.Supplier
		}

		lines = append(lines, LineItem{
			BusinessName:      o.BusinessName,
			Affiliate:         o.Affiliate,
			Supplier:          supplier,
			ItemType:          "equipment",
			Spec:              model,
			Quantity:          qty,
			ListPrice:         row.ListPrice,
			PurchaseUnitPrice: g.storedUnit,
			SalesUnitPrice:    row.SalePrice,
			Source:            SourceOrderEquipment,
		})
	}
	return lines
}

func componentSpec(wi orders.WorkItem) string {
	if wi.ComponentModel != "" {
		return wi.ComponentModel
	}
	return wi.SetModel
}

// installLine emits the single installation row of an order with a non-zero
// install cost. Sales is the marked-up quote subtotal minus the equipment
// subtotal; without a quote the sales side stays open for manual entry.
func installLine(o *orders.Order) (LineItem, bool) {
	if o.InstallCost <= 0 {
		return LineItem{}, false
	}
	li := LineItem{
		BusinessName:      o.BusinessName,
		Affiliate:         o.Affiliate,
		Supplier:          o.Supplier,
		ItemType:          "install",
		Spec:              "installation",
		Quantity:          1,
		PurchaseUnitPrice: o.InstallCost,
		Source:            SourceOrderInstall,
	}
	if o.Quote != nil {
		li.SalesUnitPrice = o.Quote.InstallSales()
	} else {
		li.PricingIncomplete = true
	}
	return li, true
}

// asLines folds eligible AS tickets into one line per affiliate, sorted by
// affiliate priority. Eligible means completed or settled with a matching
// settlement month tag.
func asLines(tickets []*asrequest.ASRequest, monthTag string, ord affiliate.Ordering) []LineItem {
	sums := make(map[string]int64)
	counts := make(map[string]int)
	names := make([]string, 0)

	for _, t := range tickets {
		if !t.AwaitsSettlement() || t.SettlementMonthTag != monthTag {
			continue
		}
		if _, ok := sums[t.Affiliate]; !ok {
			names = append(names, t.Affiliate)
		}
		sums[t.Affiliate] += t.TotalAmount()
		counts[t.Affiliate]++
	}

	ord.SortNames(names)

	lines := make([]LineItem, 0, len(names))
	for _, name := range names {
		// Quantity stays 1 so the summed amount survives the unit×qty
		// recomputation; the ticket count is display text only.
		lines = append(lines, LineItem{
			BusinessName:      name,
			Affiliate:         name,
			ItemType:          "as",
			Spec:              fmt.Sprintf("AS service (%d tickets)", counts[name]),
			Quantity:          1,
			PurchaseUnitPrice: sums[name],
			Source:            SourceASService,
		})
	}
	return lines
}
