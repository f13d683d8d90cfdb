// Package asrequest manages after-sales service tickets. A ticket walks a
// fixed forward-only sequence of four states; its settlement month tag
// groups it for monthly billing.
package asrequest

import (
	"context"
	"fmt"
	"time"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/entity"
	"frostdesk/internal/core/money"
)

// Status is the AS ticket state.
type Status string

const (
	StatusReceived   Status = "received"
	StatusInProgress Status = "in_progress"

	// StatusCompleted means work is done and the ticket awaits settlement
	StatusCompleted Status = "completed"

	StatusSettled Status = "settled"
)

// next maps each status to its single legal successor. The machine only
// moves forward.
var next = map[Status]Status{
	StatusReceived:   StatusInProgress,
	StatusInProgress: StatusCompleted,
	StatusCompleted:  StatusSettled,
}

// CanTransition reports whether from -> to is a legal forward step.
func CanTransition(from, to Status) bool {
	return next[from] == to
}

// SettlementMonth formats a (year, month) key as stored on tickets.
func SettlementMonth(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// ASRequest is a service ticket document.
type ASRequest struct {
	entity.Document

	// Affiliate the ticket is billed under
	Affiliate string `db:"affiliate" json:"affiliate"`

	// BusinessName is the customer/site name
	BusinessName string `db:"business_name" json:"businessName"`

	// Symptom describes the reported problem
	Symptom string `db:"symptom" json:"symptom,omitempty"`

	Status Status `db:"status" json:"status"`

	// ASCost is the service work cost
	ASCost money.Amount `db:"as_cost" json:"asCost"`

	// ReceptionFee is the flat intake fee
	ReceptionFee money.Amount `db:"reception_fee" json:"receptionFee"`

	// SettlementMonthTag is the "YYYY-MM" key the ticket settles under.
	// Auto-assigned when entering in_progress if still empty.
	SettlementMonthTag string `db:"settlement_month" json:"settlementMonth,omitempty"`
}

// New creates a ticket in the received state.
func New(affiliate, businessName string) *ASRequest {
	return &ASRequest{
		Document:     entity.NewDocument(),
		Affiliate:    affiliate,
		BusinessName: businessName,
		Status:       StatusReceived,
	}
}

// Validate implements entity.Validatable interface.
func (r *ASRequest) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}
	if r.Affiliate == "" {
		return apperror.NewValidation("affiliate is required").
			WithDetail("field", "affiliate")
	}
	if r.BusinessName == "" {
		return apperror.NewValidation("business name is required").
			WithDetail("field", "businessName")
	}
	if r.ASCost < 0 || r.ReceptionFee < 0 {
		return apperror.NewValidation("costs must be non-negative")
	}
	if r.Status == "" {
		r.Status = StatusReceived
	}
	return nil
}

// TotalAmount is the ticket's settlement contribution.
func (r *ASRequest) TotalAmount() money.Amount {
	return r.ASCost + r.ReceptionFee
}

// AwaitsSettlement reports whether the ticket participates in settlement
// generation (work done, settled or not).
func (r *ASRequest) AwaitsSettlement() bool {
	return r.Status == StatusCompleted || r.Status == StatusSettled
}

// Transition moves the ticket one step forward. Entering in_progress stamps
// the settlement month with now's month when no tag was set manually.
func (r *ASRequest) Transition(to Status, now time.Time) error {
	if !CanTransition(r.Status, to) {
		return apperror.NewInvalidTransition("as_request", string(r.Status), string(to))
	}
	r.Status = to
	if to == StatusInProgress && r.SettlementMonthTag == "" {
		r.SettlementMonthTag = SettlementMonth(now.Year(), now.Month())
	}
	r.Touch()
	return nil
}
