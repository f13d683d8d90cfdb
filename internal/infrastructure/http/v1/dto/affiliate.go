package dto

import (
	"frostdesk/internal/domain/affiliate"
)

// CreateAffiliateRequest for creating affiliates.
type CreateAffiliateRequest struct {
	Code         string  `json:"code"`
	Name         string  `json:"name" binding:"required"`
	Priority     int     `json:"priority" binding:"min=0"`
	ContactPhone *string `json:"contactPhone"`
}

// ToEntity maps the request to a domain affiliate.
func (r CreateAffiliateRequest) ToEntity() *affiliate.Affiliate {
	a := affiliate.NewAffiliate(r.Code, r.Name, r.Priority)
	a.ContactPhone = r.ContactPhone
	return a
}

// UpdateAffiliateRequest for updating affiliates.
type UpdateAffiliateRequest struct {
	Name         *string `json:"name"`
	Priority     *int    `json:"priority"`
	IsActive     *bool   `json:"isActive"`
	ContactPhone *string `json:"contactPhone"`
	Version      int     `json:"version" binding:"required,min=1"`
}

// ApplyTo copies set fields onto an existing affiliate.
func (r UpdateAffiliateRequest) ApplyTo(a *affiliate.Affiliate) {
	if r.Name != nil {
		a.Name = *r.Name
	}
	if r.Priority != nil {
		a.Priority = *r.Priority
	}
	if r.IsActive != nil {
		a.IsActive = *r.IsActive
	}
	if r.ContactPhone != nil {
		a.ContactPhone = r.ContactPhone
	}
	a.Version = r.Version
}
