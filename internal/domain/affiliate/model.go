// Package affiliate provides the Affiliate catalog: the fixed set of partner
// organizations an order or service ticket is billed under.
package affiliate

import (
	"context"
	"sort"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/entity"
)

// Affiliate represents a partner organization.
type Affiliate struct {
	entity.Catalog

	// Priority controls the emission order of settlement rows.
	// Lower values come first.
	Priority int `db:"priority" json:"priority"`

	// IsActive indicates the affiliate still receives new orders
	IsActive bool `db:"is_active" json:"isActive"`

	// ContactPhone is an optional billing contact
	ContactPhone *string `db:"contact_phone" json:"contactPhone,omitempty"`
}

// NewAffiliate creates a new Affiliate with required fields.
func NewAffiliate(code, name string, priority int) *Affiliate {
	return &Affiliate{
		Catalog:  entity.NewCatalog(code, name),
		Priority: priority,
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (a *Affiliate) Validate(ctx context.Context) error {
	if err := a.Catalog.Validate(ctx); err != nil {
		return err
	}

	if a.Priority < 0 {
		return apperror.NewValidation("priority must be non-negative").
			WithDetail("field", "priority").
			WithDetail("value", a.Priority)
	}

	return nil
}

// Ordering is the settlement emission order: affiliate name to priority.
// It is data loaded from the catalog, not a compile-time constant.
type Ordering map[string]int

// BuildOrdering produces an Ordering from a list of affiliates.
func BuildOrdering(items []*Affiliate) Ordering {
	ord := make(Ordering, len(items))
	for _, a := range items {
		ord[a.Name] = a.Priority
	}
	return ord
}

// unknownRank sorts names missing from the ordering after every configured
// affiliate.
const unknownRank = 1 << 30

// Rank returns the sort rank for an affiliate name.
func (o Ordering) Rank(name string) int {
	if p, ok := o[name]; ok {
		return p
	}
	return unknownRank
}

// SortNames orders affiliate names by priority, then alphabetically.
func (o Ordering) SortNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		ri, rj := o.Rank(names[i]), o.Rank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
}
