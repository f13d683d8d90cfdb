// Package warehouse tracks equipment removed from customer sites and held
// in storage until release or scrapping.
package warehouse

import (
	"context"
	"time"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/entity"
	"frostdesk/internal/core/id"
)

// Status is the stored item state.
type Status string

const (
	StatusStored   Status = "stored"
	StatusReleased Status = "released"
	StatusScrapped Status = "scrapped"
)

// StoredItem is one unit of equipment held in the warehouse.
type StoredItem struct {
	entity.Catalog

	// Model of the stored unit
	Model string `db:"model" json:"model"`

	// Category is the unit form factor (wall, stand, ceiling, system)
	Category string `db:"category" json:"category"`

	// CustomerName the unit was removed from
	CustomerName string `db:"customer_name" json:"customerName"`

	// SourceOrderID references the removal order, when known
	SourceOrderID *id.ID `db:"source_order_id" json:"sourceOrderId,omitempty"`

	Status Status `db:"status" json:"status"`

	StoredAt   time.Time  `db:"stored_at" json:"storedAt"`
	ReleasedAt *time.Time `db:"released_at" json:"releasedAt,omitempty"`

	// Location is a free-form shelf/slot note
	Location string `db:"location" json:"location,omitempty"`
}

// NewStoredItem registers a unit entering storage now.
func NewStoredItem(model, customerName string) *StoredItem {
	return &StoredItem{
		Catalog:      entity.NewCatalog("", model),
		Model:        model,
		CustomerName: customerName,
		Status:       StatusStored,
		StoredAt:     time.Now().UTC(),
	}
}

// Validate implements entity.Validatable interface.
func (s *StoredItem) Validate(ctx context.Context) error {
	if s.Model == "" {
		return apperror.NewValidation("model is required").
			WithDetail("field", "model")
	}
	if s.Status == "" {
		s.Status = StatusStored
	}
	if s.Name == "" {
		s.Name = s.Model
	}
	if s.StoredAt.IsZero() {
		s.StoredAt = time.Now().UTC()
	}
	return nil
}

// Release marks the item as handed back or sold off.
func (s *StoredItem) Release(at time.Time) error {
	if s.Status != StatusStored {
		return apperror.NewInvalidTransition("stored_item", string(s.Status), string(StatusReleased))
	}
	s.Status = StatusReleased
	s.ReleasedAt = &at
	s.Touch()
	return nil
}

// Scrap marks the item as disposed.
func (s *StoredItem) Scrap(at time.Time) error {
	if s.Status != StatusStored {
		return apperror.NewInvalidTransition("stored_item", string(s.Status), string(StatusScrapped))
	}
	s.Status = StatusScrapped
	s.ReleasedAt = &at
	s.Touch()
	return nil
}
