package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frostdesk/internal/domain/asrequest"
	"frostdesk/internal/domain/orders"
	"frostdesk/internal/domain/pricetable"
)

func testPrices() pricetable.Lookup {
	known := pricetable.NewPriceRow(2025, "AC-100")
	known.Supplier = "LG"
	known.ListPrice = 1_000_000
	known.SalePrice = 1_200_000
	known.Components = []pricetable.Component{
		{Kind: pricetable.KindIndoor, Name: "indoor", Model: "AC-100-I", SalePrice: 700_000},
		{Kind: pricetable.KindOutdoor, Name: "outdoor", Model: "AC-100-O", SalePrice: 500_000},
	}
	return pricetable.BuildLookup([]*pricetable.PriceRow{known})
}

func TestGenerateRows_KnownSetModel(t *testing.T) {
	o := orders.NewOrder("CoolAir", "Lee Cafe")
	o.WorkItems = []orders.WorkItem{
		{WorkType: orders.WorkNewInstall, SetModel: "AC-100", Quantity: 2},
	}

	items := GenerateRows(Input{
		MonthTag: "2025-03",
		Orders:   []*orders.Order{o},
		Prices:   testPrices(),
		Ordering: testOrdering(),
	})

	require.Len(t, items, 1)
	li := items[0]
	assert.Equal(t, SourceOrderEquipment, li.Source)
	assert.Equal(t, "AC-100", li.Spec)
	assert.Equal(t, "LG", li.Supplier)
	assert.Equal(t, 2, li.Quantity)
	assert.Equal(t, int64(1_000_000), li.ListPrice)
	assert.Equal(t, int64(1_200_000), li.SalesUnitPrice)
	assert.Equal(t, int64(2_400_000), li.SalesTotalPrice)
	assert.False(t, li.PricingIncomplete)
	assert.Equal(t, 1, li.LineNo)
}

func TestGenerateRows_QuantityFromComponentRatio(t *testing.T) {
	// No explicit new-install items: four components of a two-component
	// set mean two sets.
	o := orders.NewOrder("CoolAir", "Lee Cafe")
	o.WorkItems = []orders.WorkItem{
		{WorkType: orders.WorkRelocate, SetModel: "AC-100", Quantity: 4},
	}

	items := GenerateRows(Input{
		Orders:   []*orders.Order{o},
		Prices:   testPrices(),
		Ordering: testOrdering(),
	})

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestGenerateRows_UnknownSetModel(t *testing.T) {
	// An unpriced model emits one flagged line per raw component with the
	// stored unit price as purchase and zero sales values.
	o := orders.NewOrder("CoolAir", "Lee Cafe")
	o.WorkItems = []orders.WorkItem{
		{WorkType: orders.WorkNewInstall, SetModel: "MYSTERY-9", ComponentModel: "M9-IN", Quantity: 1, StoredUnitPrice: 400_000},
		{WorkType: orders.WorkNewInstall, SetModel: "MYSTERY-9", ComponentModel: "M9-OUT", Quantity: 1, StoredUnitPrice: 300_000},
	}

	items := GenerateRows(Input{
		Orders:   []*orders.Order{o},
		Prices:   testPrices(),
		Ordering: testOrdering(),
	})

	require.Len(t, items, 2)
	for _, li := range items {
		assert.True(t, li.PricingIncomplete)
		assert.Zero(t, li.SalesUnitPrice)
		assert.Zero(t, li.SalesTotalPrice)
		assert.Zero(t, li.ListPrice)
		assert.Zero(t, li.TotalMargin)
	}
	assert.Equal(t, int64(400_000), items[0].PurchaseUnitPrice)
	assert.Equal(t, "M9-IN", items[0].Spec)
	assert.Equal(t, int64(300_000), items[1].PurchaseUnitPrice)
}

func TestGenerateRows_InstallLine(t *testing.T) {
	o := orders.NewOrder("CoolAir", "Lee Cafe")
	o.InstallCost = 500_000
	o.Quote = &orders.Quote{
		Lines: []orders.QuoteLine{
			{Kind: orders.QuoteEquipment, Name: "AC-100", UnitPrice: 1_200_000, Quantity: 1},
			{Kind: orders.QuoteInstall, Name: "install", UnitPrice: 600_000, Quantity: 1},
		},
		ProfitMarkupRate: 0.1,
	}

	items := GenerateRows(Input{
		Orders:   []*orders.Order{o},
		Prices:   testPrices(),
		Ordering: testOrdering(),
	})

	require.Len(t, items, 1)
	li := items[0]
	assert.Equal(t, SourceOrderInstall, li.Source)
	assert.Equal(t, int64(500_000), li.PurchaseUnitPrice)
	// (1,800,000 × 1.1) − 1,200,000 = 780,000
	assert.Equal(t, int64(780_000), li.SalesUnitPrice)
	assert.False(t, li.PricingIncomplete)
}

func TestGenerateRows_InstallWithoutQuoteFlagged(t *testing.T) {
	o := orders.NewOrder("CoolAir", "Lee Cafe")
	o.InstallCost = 500_000

	items := GenerateRows(Input{
		Orders:   []*orders.Order{o},
		Prices:   testPrices(),
		Ordering: testOrdering(),
	})

	require.Len(t, items, 1)
	assert.True(t, items[0].PricingIncomplete)
	assert.Zero(t, items[0].SalesUnitPrice)
}

func TestGenerateRows_ASLinesGroupedAndAppended(t *testing.T) {
	o := orders.NewOrder("Polar", "Park Office")
	o.WorkItems = []orders.WorkItem{
		{WorkType: orders.WorkNewInstall, SetModel: "AC-100", Quantity: 1},
	}

	tickets := []*asrequest.ASRequest{
		asTicket("FrostTech", 50_000),
		asTicket("CoolAir", 30_000),
		asTicket("CoolAir", 20_000),
	}

	items := GenerateRows(Input{
		MonthTag: "2025-03",
		Orders:   []*orders.Order{o},
		Tickets:  tickets,
		Prices:   testPrices(),
		Ordering: testOrdering(),
	})

	require.Len(t, items, 3)
	// Order lines first, then AS lines sorted by affiliate priority.
	assert.Equal(t, SourceOrderEquipment, items[0].Source)
	assert.Equal(t, SourceASService, items[1].Source)
	assert.Equal(t, "CoolAir", items[1].Affiliate)
	assert.Equal(t, int64(50_000), items[1].PurchaseTotalPrice)
	assert.Equal(t, SourceASService, items[2].Source)
	assert.Equal(t, "FrostTech", items[2].Affiliate)
	assert.Equal(t, int64(50_000), items[2].PurchaseTotalPrice)

	for i, li := range items {
		assert.Equal(t, i+1, li.LineNo)
	}
}

func TestGenerateRows_ASLineFiltering(t *testing.T) {
	wrongMonth := asTicket("CoolAir", 10_000)
	wrongMonth.SettlementMonthTag = "2025-02"

	notDone := asTicket("CoolAir", 10_000)
	notDone.Status = asrequest.StatusInProgress

	items := GenerateRows(Input{
		MonthTag: "2025-03",
		Tickets:  []*asrequest.ASRequest{wrongMonth, notDone},
		Prices:   testPrices(),
		Ordering: testOrdering(),
	})
	assert.Empty(t, items)
}

func TestGenerateRows_OrdersSortedByAffiliatePriority(t *testing.T) {
	mk := func(aff string) *orders.Order {
		o := orders.NewOrder(aff, aff+" site")
		o.WorkItems = []orders.WorkItem{
			{WorkType: orders.WorkNewInstall, SetModel: "AC-100", Quantity: 1},
		}
		return o
	}

	items := GenerateRows(Input{
		Orders:   []*orders.Order{mk("Polar"), mk("CoolAir"), mk("FrostTech")},
		Prices:   testPrices(),
		Ordering: testOrdering(),
	})

	require.Len(t, items, 3)
	assert.Equal(t, "CoolAir", items[0].Affiliate)
	assert.Equal(t, "FrostTech", items[1].Affiliate)
	assert.Equal(t, "Polar", items[2].Affiliate)
}

func TestGenerateRows_CancelledOrdersSkipped(t *testing.T) {
	o := orders.NewOrder("CoolAir", "Lee Cafe")
	o.Status = orders.StatusCancelled
	o.WorkItems = []orders.WorkItem{
		{WorkType: orders.WorkNewInstall, SetModel: "AC-100", Quantity: 1},
	}

	items := GenerateRows(Input{
		Orders:   []*orders.Order{o},
		Prices:   testPrices(),
		Ordering: testOrdering(),
	})
	assert.Empty(t, items)
}

func TestGenerateRows_Deterministic(t *testing.T) {
	o := orders.NewOrder("CoolAir", "Lee Cafe")
	o.InstallCompletionDate = timePtr(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))
	o.WorkItems = []orders.WorkItem{
		{WorkType: orders.WorkNewInstall, SetModel: "AC-100", Quantity: 2},
	}

	in := Input{
		MonthTag: "2025-03",
		Orders:   []*orders.Order{o},
		Tickets:  []*asrequest.ASRequest{asTicket("CoolAir", 12_345)},
		Prices:   testPrices(),
		Ordering: testOrdering(),
	}

	first := GenerateRows(in)
	second := GenerateRows(in)
	assert.Equal(t, first, second)
}

func timePtr(t time.Time) *time.Time { return &t }
