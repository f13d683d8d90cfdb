package catalog_repo

import (
	"frostdesk/internal/domain/warehouse"
	"frostdesk/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ warehouse.Repository = (*StoredItemRepo)(nil)

// StoredItemRepo implements warehouse.Repository.
type StoredItemRepo struct {
	*BaseCatalogRepo[*warehouse.StoredItem]
}

// NewStoredItemRepo creates the warehouse repository.
func NewStoredItemRepo(tm *postgres.TxManager) *StoredItemRepo {
	return &StoredItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			tm,
			"stored_items",
			postgres.ExtractDBColumns[warehouse.StoredItem](),
			func() *warehouse.StoredItem { return &warehouse.StoredItem{} },
		),
	}
}
