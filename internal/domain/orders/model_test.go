package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusReceived, StatusScheduled, true},
		{StatusReceived, StatusCancelled, true},
		{StatusScheduled, StatusInstalled, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusReceived, StatusInstalled, false},
		{StatusInstalled, StatusCancelled, false},
		{StatusCancelled, StatusReceived, false},
		{StatusInstalled, StatusScheduled, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestQuote_InstallSales(t *testing.T) {
	q := &Quote{
		Lines: []QuoteLine{
			{Kind: QuoteEquipment, Name: "Wall unit", UnitPrice: 800_000, Quantity: 2},
			{Kind: QuoteInstall, Name: "Piping", UnitPrice: 150_000, Quantity: 2},
		},
		ProfitMarkupRate: 0.1,
	}

	assert.Equal(t, int64(1_600_000), q.EquipmentSubtotal())
	assert.Equal(t, int64(1_900_000), q.Subtotal())
	// 1,900,000 × 1.1 = 2,090,000
	assert.Equal(t, int64(2_090_000), q.SubtotalWithMarkup())
	// marked-up subtotal minus equipment subtotal
	assert.Equal(t, int64(490_000), q.InstallSales())
}

func TestOrder_NewInstallCount(t *testing.T) {
	o := NewOrder("CoolAir", "Lee Cafe")
	o.WorkItems = []WorkItem{
		{WorkType: WorkNewInstall, SetModel: "AC-100", Quantity: 2},
		{WorkType: WorkNewInstall, SetModel: "AC-200", Quantity: 1},
		{WorkType: WorkRemoval, SetModel: "OLD-1", Quantity: 3},
	}
	assert.Equal(t, 3, o.NewInstallCount())
}
