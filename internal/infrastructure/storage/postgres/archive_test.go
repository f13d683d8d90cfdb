package postgres

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frostdesk/internal/domain/settlement"
)

func TestSnapshotRoundTrip(t *testing.T) {
	arch, err := NewReportArchiver(nil)
	require.NoError(t, err)

	report := settlement.NewExpenseReport(2025, time.March)
	report.Items = []settlement.LineItem{
		{LineNo: 1, BusinessName: "Lee Cafe", Affiliate: "CoolAir", Quantity: 2, PurchaseUnitPrice: 550_000},
	}
	report.Totals = settlement.SumTotals(report.Items)

	raw, err := json.Marshal(report)
	require.NoError(t, err)

	compressed := arch.encoder.EncodeAll(raw, nil)
	require.NotEmpty(t, compressed)

	restored, err := decodeSnapshot(compressed)
	require.NoError(t, err)
	assert.Equal(t, report.ID, restored.ID)
	assert.Equal(t, report.Year, restored.Year)
	require.Len(t, restored.Items, 1)
	assert.Equal(t, "Lee Cafe", restored.Items[0].BusinessName)
}
