package settlement

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculate_WorkedExample(t *testing.T) {
	li := Recalculate(LineItem{
		Quantity:           2,
		ListPrice:          1_000_000,
		DiscountRate:       0.45,
		SalesUnitPrice:     1_200_000,
		IncentiveGradeRate: 0.06,
	})

	assert.Equal(t, int64(550_000), li.PurchaseUnitPrice)
	assert.Equal(t, int64(1_100_000), li.PurchaseTotalPrice)
	assert.Equal(t, int64(2_400_000), li.SalesTotalPrice)
	assert.Equal(t, int64(650_000), li.FrontMarginUnit)
	assert.Equal(t, int64(1_300_000), li.FrontMarginTotal)
	assert.Equal(t, int64(66_000), li.IncentiveGradeAmount)
	assert.Equal(t, int64(1_366_000), li.TotalMargin)
}

func TestRecalculate_Totals(t *testing.T) {
	cases := []struct {
		name string
		li   LineItem
	}{
		{"priced line", LineItem{Quantity: 3, ListPrice: 500_000, DiscountRate: 0.2, SalesUnitPrice: 600_000}},
		{"manual purchase", LineItem{Quantity: 2, PurchaseUnitPrice: 120_000, SalesUnitPrice: 150_000}},
		{"zero sales", LineItem{Quantity: 4, PurchaseUnitPrice: 90_000}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Recalculate(tc.li)
			assert.Equal(t, out.PurchaseUnitPrice*int64(out.Quantity), out.PurchaseTotalPrice)
			assert.Equal(t, out.SalesUnitPrice*int64(out.Quantity), out.SalesTotalPrice)
			assert.Equal(t, out.FrontMarginTotal+out.IncentiveGradeAmount+out.IncentiveItemAmount, out.TotalMargin)
		})
	}
}

func TestRecalculate_Idempotent(t *testing.T) {
	li := LineItem{
		LineNo:              7,
		BusinessName:        "Lee Cafe",
		Affiliate:           "CoolAir",
		Quantity:            2,
		ListPrice:           1_000_000,
		DiscountRate:        0.45,
		SalesUnitPrice:      1_200_000,
		IncentiveGradeRate:  0.06,
		IncentiveItemAmount: 30_000,
	}

	once := Recalculate(li)
	twice := Recalculate(once)
	require.True(t, reflect.DeepEqual(once, twice), "second application changed the item")
}

func TestRecalculate_PurchaseUnitPreserved(t *testing.T) {
	t.Run("zero discount keeps stored purchase unit", func(t *testing.T) {
		li := Recalculate(LineItem{Quantity: 1, ListPrice: 800_000, PurchaseUnitPrice: 333_000})
		assert.Equal(t, int64(333_000), li.PurchaseUnitPrice)
	})

	t.Run("zero list price keeps stored purchase unit", func(t *testing.T) {
		li := Recalculate(LineItem{Quantity: 1, DiscountRate: 0.3, PurchaseUnitPrice: 333_000})
		assert.Equal(t, int64(333_000), li.PurchaseUnitPrice)
	})
}

func TestRecalculate_MarginRateGuard(t *testing.T) {
	li := Recalculate(LineItem{Quantity: 2, PurchaseUnitPrice: 100_000})
	assert.Zero(t, li.MarginRate)

	li = Recalculate(LineItem{Quantity: 2, PurchaseUnitPrice: 100_000, SalesUnitPrice: 200_000})
	assert.InDelta(t, 0.5, li.MarginRate, 1e-9)
}

func TestRecalculateAll_Renumbers(t *testing.T) {
	items := []LineItem{
		{LineNo: 9, Quantity: 1, PurchaseUnitPrice: 10_000},
		{LineNo: 2, Quantity: 1, PurchaseUnitPrice: 20_000},
		{LineNo: 5, Quantity: 1, PurchaseUnitPrice: 30_000},
	}
	out := RecalculateAll(items)
	require.Len(t, out, 3)
	for i, li := range out {
		assert.Equal(t, i+1, li.LineNo)
	}
	// input untouched
	assert.Equal(t, 9, items[0].LineNo)
}
