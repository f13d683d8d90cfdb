package settlement

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frostdesk/internal/domain/affiliate"
	"frostdesk/internal/domain/asrequest"
)

func testOrdering() affiliate.Ordering {
	return affiliate.Ordering{
		"CoolAir":   1,
		"FrostTech": 2,
		"Polar":     3,
	}
}

func TestNewAffiliateGroup_TruncationAndVATLaws(t *testing.T) {
	sums := []int64{0, 1, 999, 1_000, 1_001, 12_345, 21_000, 999_999, 1_000_000}
	for _, s := range sums {
		g := NewAffiliateGroup("CoolAir", s)
		assert.LessOrEqual(t, g.Subtotal, s, "T <= S for %d", s)
		assert.Less(t, s-g.Subtotal, int64(1000), "S - T < 1000 for %d", s)
		assert.Zero(t, g.Subtotal%1000)
		assert.GreaterOrEqual(t, g.GrandTotal, g.Subtotal)
		assert.Equal(t, g.GrandTotal-g.Subtotal, g.VAT)
	}
}

func TestGroupTickets_WorkedExample(t *testing.T) {
	// Three tickets summing to exactly 21,000: truncation is a no-op and
	// the VAT-inclusive total is 23,100.
	tickets := []*asrequest.ASRequest{
		asTicket("CoolAir", 12_345),
		asTicket("CoolAir", 7_000),
		asTicket("CoolAir", 1_655),
	}

	groups := GroupTickets(tickets, testOrdering())
	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, int64(21_000), g.RawSum)
	assert.Equal(t, int64(21_000), g.Subtotal)
	assert.Equal(t, int64(23_100), g.GrandTotal)
	assert.Equal(t, int64(2_100), g.VAT)
}

func TestGroupTickets_PerGroupTruncation(t *testing.T) {
	// 1,500 + 1,700 would truncate to 3,000 globally; per affiliate each
	// group loses its own remainder instead.
	tickets := []*asrequest.ASRequest{
		asTicket("CoolAir", 1_500),
		asTicket("FrostTech", 1_700),
	}

	groups := GroupTickets(tickets, testOrdering())
	require.Len(t, groups, 2)
	assert.Equal(t, "CoolAir", groups[0].Affiliate)
	assert.Equal(t, int64(1_000), groups[0].Subtotal)
	assert.Equal(t, "FrostTech", groups[1].Affiliate)
	assert.Equal(t, int64(1_000), groups[1].Subtotal)
}

func TestGroupItems_OrderedByPriority(t *testing.T) {
	items := []LineItem{
		{Affiliate: "Polar", PurchaseTotalPrice: 5_500},
		{Affiliate: "CoolAir", PurchaseTotalPrice: 2_200},
		{Affiliate: "FrostTech", PurchaseTotalPrice: 3_300},
		{Affiliate: "CoolAir", PurchaseTotalPrice: 1_000},
	}

	groups := GroupItems(items, testOrdering())
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"CoolAir", "FrostTech", "Polar"},
		[]string{groups[0].Affiliate, groups[1].Affiliate, groups[2].Affiliate})
	assert.Equal(t, int64(3_200), groups[0].RawSum)
	assert.Equal(t, int64(3_000), groups[0].Subtotal)
}

func TestSumTotals_OrderIndependent(t *testing.T) {
	items := make([]LineItem, 0, 20)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		li := Recalculate(LineItem{
			Affiliate:          "CoolAir",
			Quantity:           1 + rng.Intn(5),
			ListPrice:          int64(rng.Intn(2_000_000)),
			DiscountRate:       float64(rng.Intn(90)) / 100,
			SalesUnitPrice:     int64(rng.Intn(2_500_000)),
			IncentiveGradeRate: float64(rng.Intn(10)) / 100,
		})
		items = append(items, li)
	}

	want := SumTotals(items)
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]LineItem, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		assert.Equal(t, want, SumTotals(shuffled))
	}
}

func asTicket(affiliateName string, amount int64) *asrequest.ASRequest {
	r := asrequest.New(affiliateName, affiliateName+" site")
	r.ASCost = amount
	r.Status = asrequest.StatusCompleted
	r.SettlementMonthTag = "2025-03"
	return r
}
