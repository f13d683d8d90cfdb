package dto

import (
	"time"

	"frostdesk/internal/core/money"
	"frostdesk/internal/domain/asrequest"
)

// CreateASRequestRequest for creating service tickets.
type CreateASRequestRequest struct {
	Affiliate       string       `json:"affiliate" binding:"required"`
	BusinessName    string       `json:"businessName" binding:"required"`
	Symptom         string       `json:"symptom"`
	Date            *time.Time   `json:"date"`
	Comment         string       `json:"comment"`
	ASCost          money.Amount `json:"asCost" binding:"min=0"`
	ReceptionFee    money.Amount `json:"receptionFee" binding:"min=0"`
	SettlementMonth string       `json:"settlementMonth"`
}

// ToEntity maps the request to a domain ticket.
func (r CreateASRequestRequest) ToEntity() *asrequest.ASRequest {
	req := asrequest.New(r.Affiliate, r.BusinessName)
	req.Symptom = r.Symptom
	req.Comment = r.Comment
	req.ASCost = r.ASCost
	req.ReceptionFee = r.ReceptionFee
	req.SettlementMonthTag = r.SettlementMonth
	if r.Date != nil {
		req.Date = *r.Date
	}
	return req
}

// UpdateASRequestRequest for updating tickets. Status moves go through the
// transition endpoint.
type UpdateASRequestRequest struct {
	Affiliate       *string       `json:"affiliate"`
	BusinessName    *string       `json:"businessName"`
	Symptom         *string       `json:"symptom"`
	Date            *time.Time    `json:"date"`
	Comment         *string       `json:"comment"`
	ASCost          *money.Amount `json:"asCost"`
	ReceptionFee    *money.Amount `json:"receptionFee"`
	SettlementMonth *string       `json:"settlementMonth"`
	Version         int           `json:"version" binding:"required,min=1"`
}

// ApplyTo copies set fields onto an existing ticket.
func (r UpdateASRequestRequest) ApplyTo(req *asrequest.ASRequest) {
	if r.Affiliate != nil {
		req.Affiliate = *r.Affiliate
	}
	if r.BusinessName != nil {
		req.BusinessName = *r.BusinessName
	}
	if r.Symptom != nil {
		req.Symptom = *r.Symptom
	}
	if r.Date != nil {
		req.Date = *r.Date
	}
	if r.Comment != nil {
		req.Comment = *r.Comment
	}
	if r.ASCost != nil {
		req.ASCost = *r.ASCost
	}
	if r.ReceptionFee != nil {
		req.ReceptionFee = *r.ReceptionFee
	}
	if r.SettlementMonth != nil {
		req.SettlementMonthTag = *r.SettlementMonth
	}
	req.Version = r.Version
}

// TransitionRequest for POST /as-requests/:id/transition.
type TransitionRequest struct {
	To string `json:"to" binding:"required,oneof=in_progress completed settled"`
}
