package dto

import (
	"time"

	"frostdesk/internal/core/id"
	"frostdesk/internal/domain/warehouse"
)

// CreateStoredItemRequest for registering removed equipment.
type CreateStoredItemRequest struct {
	Model         string     `json:"model" binding:"required"`
	Category      string     `json:"category"`
	CustomerName  string     `json:"customerName" binding:"required"`
	SourceOrderID *string    `json:"sourceOrderId"`
	StoredAt      *time.Time `json:"storedAt"`
	Location      string     `json:"location"`
}

// ToEntity maps the request to a domain stored item.
func (r CreateStoredItemRequest) ToEntity() (*warehouse.StoredItem, error) {
	item := warehouse.NewStoredItem(r.Model, r.CustomerName)
	item.Category = r.Category
	item.Location = r.Location
	if r.StoredAt != nil {
		item.StoredAt = *r.StoredAt
	}
	if r.SourceOrderID != nil {
		orderID, err := id.Parse(*r.SourceOrderID)
		if err != nil {
			return nil, err
		}
		item.SourceOrderID = &orderID
	}
	return item, nil
}

// UpdateStoredItemRequest for updating stored items.
type UpdateStoredItemRequest struct {
	Category     *string `json:"category"`
	CustomerName *string `json:"customerName"`
	Location     *string `json:"location"`
	Version      int     `json:"version" binding:"required,min=1"`
}

// ApplyTo copies set fields onto an existing stored item.
func (r UpdateStoredItemRequest) ApplyTo(item *warehouse.StoredItem) {
	if r.Category != nil {
		item.Category = *r.Category
	}
	if r.CustomerName != nil {
		item.CustomerName = *r.CustomerName
	}
	if r.Location != nil {
		item.Location = *r.Location
	}
	item.Version = r.Version
}

// ReleaseStoredItemRequest for release/scrap operations.
type ReleaseStoredItemRequest struct {
	At *time.Time `json:"at"`
}
