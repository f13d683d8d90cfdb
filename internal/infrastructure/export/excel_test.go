package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exportRow struct {
	Name   string
	Amount int64
}

func testColumns() []Column[exportRow] {
	return []Column[exportRow]{
		{Header: "Name", Value: func(r exportRow) any { return r.Name }, Width: 20},
		{Header: "Amount", Value: func(r exportRow) any { return r.Amount }, NumFmt: FmtInteger},
	}
}

func TestTable(t *testing.T) {
	rows := []exportRow{
		{Name: "CoolAir", Amount: 1210000},
		{Name: "FrostTech", Amount: 550000},
	}

	f, err := Table("Report", testColumns(), rows)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Equal(t, []string{"Report"}, sheets)

	header, err := f.GetCellValue("Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Name", header)

	name, err := f.GetCellValue("Report", "A2")
	require.NoError(t, err)
	assert.Equal(t, "CoolAir", name)

	amount, err := f.GetCellValue("Report", "B3")
	require.NoError(t, err)
	assert.Equal(t, "550000", amount)
}

func TestTable_Empty(t *testing.T) {
	f, err := Table("Empty", testColumns(), nil)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Empty", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Amount", header)

	blank, err := f.GetCellValue("Empty", "A2")
	require.NoError(t, err)
	assert.Empty(t, blank)
}
