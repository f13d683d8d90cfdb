package dto

import (
	"frostdesk/internal/core/money"
	"frostdesk/internal/domain/pricetable"
)

// ComponentRequest describes one component of an equipment set.
type ComponentRequest struct {
	Kind      string       `json:"kind" binding:"required,oneof=indoor outdoor accessory"`
	Name      string       `json:"name"`
	Model     string       `json:"model" binding:"required"`
	SalePrice money.Amount `json:"salePrice" binding:"min=0"`
}

func (r ComponentRequest) toComponent() pricetable.Component {
	return pricetable.Component{
		Kind:      pricetable.ComponentKind(r.Kind),
		Name:      r.Name,
		Model:     r.Model,
		SalePrice: r.SalePrice,
	}
}

// CreatePriceRowRequest for creating price table rows.
type CreatePriceRowRequest struct {
	Year       int                `json:"year" binding:"required"`
	SetModel   string             `json:"setModel" binding:"required"`
	Supplier   string             `json:"supplier"`
	ListPrice  money.Amount       `json:"listPrice" binding:"min=0"`
	SalePrice  money.Amount       `json:"salePrice" binding:"min=0"`
	Components []ComponentRequest `json:"components"`
}

// ToEntity maps the request to a domain price row.
func (r CreatePriceRowRequest) ToEntity() *pricetable.PriceRow {
	row := pricetable.NewPriceRow(r.Year, r.SetModel)
	row.Supplier = r.Supplier
	row.ListPrice = r.ListPrice
	row.SalePrice = r.SalePrice
	for _, c := range r.Components {
		row.Components = append(row.Components, c.toComponent())
	}
	return row
}

// UpdatePriceRowRequest for updating price table rows.
type UpdatePriceRowRequest struct {
	Supplier   *string            `json:"supplier"`
	ListPrice  *money.Amount      `json:"listPrice"`
	SalePrice  *money.Amount      `json:"salePrice"`
	Components []ComponentRequest `json:"components"`
	Version    int                `json:"version" binding:"required,min=1"`
}

// ApplyTo copies set fields onto an existing price row.
func (r UpdatePriceRowRequest) ApplyTo(row *pricetable.PriceRow) {
	if r.Supplier != nil {
		row.Supplier = *r.Supplier
	}
	if r.ListPrice != nil {
		row.ListPrice = *r.ListPrice
	}
	if r.SalePrice != nil {
		row.SalePrice = *r.SalePrice
	}
	if r.Components != nil {
		row.Components = row.Components[:0]
		for _, c := range r.Components {
			row.Components = append(row.Components, c.toComponent())
		}
	}
	row.Version = r.Version
}
