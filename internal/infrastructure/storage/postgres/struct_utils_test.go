package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"frostdesk/internal/domain/affiliate"
	"frostdesk/internal/domain/pricetable"
)

func TestExtractDBColumns_EmbeddedStructs(t *testing.T) {
	cols := ExtractDBColumns[affiliate.Affiliate]()

	// Base entity and catalog columns flattened in
	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "code")
	assert.Contains(t, cols, "name")
	assert.Contains(t, cols, "deletion_mark")
	assert.Contains(t, cols, "version")
	// Own columns
	assert.Contains(t, cols, "priority")
	assert.Contains(t, cols, "is_active")
}

func TestExtractDBColumns_SkipsUntagged(t *testing.T) {
	cols := ExtractDBColumns[pricetable.PriceRow]()
	// Components carry db:"-" and live in their own table
	assert.NotContains(t, cols, "components")
	assert.Contains(t, cols, "set_model")
	assert.Contains(t, cols, "list_price")
}

func TestStructToMap(t *testing.T) {
	a := affiliate.NewAffiliate("AFF-001", "CoolAir", 1)
	a.IsActive = true

	m := StructToMap(a)

	assert.Equal(t, "AFF-001", m["code"])
	assert.Equal(t, "CoolAir", m["name"])
	assert.Equal(t, 1, m["priority"])
	assert.Equal(t, true, m["is_active"])
	assert.Equal(t, a.ID, m["id"])
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("nope"))
}
