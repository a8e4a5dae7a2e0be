// Package funding provides the money handed to technicians and their running balance.
package funding

import (
	"context"
	"strings"
	"time"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/entity"
	"barinalp/internal/core/types"
)

// EntityType names funding transactions in the audit trail.
const EntityType = "funding_transaction"

// Kind is how the money reached the technician.
type Kind string

const (
	KindCash Kind = "cash_funding"
	KindBank Kind = "bank_transfer"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindCash, KindBank:
		return true
	default:
		return false
	}
}

// Label returns the Bulgarian display name.
func (k Kind) Label() string {
	switch k {
	case KindCash:
		return "Захранване (каса)"
	case KindBank:
		return "Банков превод"
	default:
		return string(k)
	}
}

// Transaction is money a director handed to a technician for expenses.
type Transaction struct {
	entity.BaseEntity

	TechnicianID string      `db:"technician_id" json:"technicianId"`
	Kind         Kind        `db:"kind" json:"type"`
	Amount       types.Money `db:"amount" json:"amount"`
	Date         time.Time   `db:"date" json:"date"`
	Note         string      `db:"note" json:"note,omitempty"`

	CreatedBy string `db:"created_by" json:"createdBy,omitempty"`
}

// New creates a transaction.
func New(technicianID string, kind Kind, amount types.Money, date time.Time, note string) *Transaction {
	return &Transaction{
		BaseEntity:   entity.NewBaseEntity(),
		TechnicianID: strings.TrimSpace(technicianID),
		Kind:         kind,
		Amount:       amount,
		Date:         date,
		Note:         strings.TrimSpace(note),
	}
}

// Validate implements entity.Validatable.
func (t *Transaction) Validate(ctx context.Context) error {
	if t.TechnicianID == "" {
		return apperror.NewValidation("technician is required").
			WithDetail("field", "technicianId")
	}
	if !t.Kind.IsValid() {
		return apperror.NewValidation("unknown transaction type").
			WithDetail("field", "type").
			WithDetail("value", t.Kind)
	}
	if t.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if !types.WithinBounds(t.Amount) {
		return apperror.NewValidation("amount is out of range").
			WithDetail("field", "amount")
	}
	if !t.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	return nil
}

// SetCreatedBy implements audit.CreatedBySetter.
func (t *Transaction) SetCreatedBy(userID string) {
	t.CreatedBy = userID
}
