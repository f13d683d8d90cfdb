// Package pricetable provides the equipment price table: set models with
// list/sale prices and their named components. Read-only from the
// settlement pipeline's perspective.
package pricetable

import (
	"context"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/entity"
	"frostdesk/internal/core/money"
)

// ComponentKind classifies a set component.
type ComponentKind string

const (
	KindIndoor    ComponentKind = "indoor"
	KindOutdoor   ComponentKind = "outdoor"
	KindAccessory ComponentKind = "accessory"
)

// Component is a single named part of an equipment set.
type Component struct {
	Kind      ComponentKind `db:"kind" json:"kind"`
	Name      string        `db:"name" json:"name"`
	Model     string        `db:"model" json:"model"`
	SalePrice money.Amount  `db:"sale_price" json:"salePrice"`
}

// PriceRow maps an equipment set model to its prices and components.
type PriceRow struct {
	entity.Catalog

	// Year the price applies to
	Year int `db:"year" json:"year"`

	// SetModel is the manufacturer set model designation
	SetModel string `db:"set_model" json:"setModel"`

	// Supplier name
	Supplier string `db:"supplier" json:"supplier"`

	ListPrice money.Amount `db:"list_price" json:"listPrice"`
	SalePrice money.Amount `db:"sale_price" json:"salePrice"`

	// Components of the set (table part, stored separately)
	Components []Component `db:"-" json:"components"`
}

// NewPriceRow creates a price table row for a year and set model.
func NewPriceRow(year int, setModel string) *PriceRow {
	return &PriceRow{
		Catalog:    entity.NewCatalog("", setModel),
		Year:       year,
		SetModel:   setModel,
		Components: make([]Component, 0),
	}
}

// Validate implements entity.Validatable interface.
func (p *PriceRow) Validate(ctx context.Context) error {
	if p.SetModel == "" {
		return apperror.NewValidation("set model is required").
			WithDetail("field", "setModel")
	}
	if p.Year < 2000 || p.Year > 2100 {
		return apperror.NewValidation("year out of range").
			WithDetail("field", "year").
			WithDetail("value", p.Year)
	}
	if p.ListPrice < 0 || p.SalePrice < 0 {
		return apperror.NewValidation("prices must be non-negative")
	}
	// Name mirrors the set model for catalog search
	if p.Name == "" {
		p.Name = p.SetModel
	}
	return nil
}

// ComponentCount returns the number of components in the set.
func (p *PriceRow) ComponentCount() int {
	return len(p.Components)
}

// Lookup indexes price rows by set model for the settlement row generator.
type Lookup map[string]*PriceRow

// BuildLookup builds a set-model index from the given rows.
// On duplicate models the later row wins (latest revision).
func BuildLookup(rows []*PriceRow) Lookup {
	lk := make(Lookup, len(rows))
	for _, r := range rows {
		lk[r.SetModel] = r
	}
	return lk
}

// Find returns the price row for a set model, or nil if unknown.
func (l Lookup) Find(setModel string) *PriceRow {
	return l[setModel]
}
