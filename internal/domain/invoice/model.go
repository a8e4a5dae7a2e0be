// Package invoice provides stored expense invoices and their allocated lines.
package invoice

import (
	"context"
	"strings"
	"time"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/entity"
	"barinalp/internal/core/id"
	"barinalp/internal/core/types"
)

// EntityType names invoices in the audit trail.
const EntityType = "invoice"

// Invoice is a supplier invoice filed by a technician, each line allocated to a cost object.
type Invoice struct {
	entity.BaseEntity

	// RegistryNumber is assigned on creation (EXP-YYYY-NNNNN)
	RegistryNumber string `db:"registry_number" json:"registryNumber"`

	// Supplier's own invoice number, optional
	InvoiceNumber string `db:"invoice_number" json:"invoiceNumber,omitempty"`

	Date          time.Time           `db:"date" json:"date"`
	Vendor        string              `db:"vendor" json:"vendor"`
	PaymentMethod types.PaymentMethod `db:"payment_method" json:"paymentMethod"`
	Notes         string              `db:"notes" json:"notes,omitempty"`

	TechnicianID string `db:"technician_id" json:"technicianId"`
	CreatedBy    string `db:"created_by" json:"createdBy,omitempty"`

	// Calculated from lines
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one allocated invoice position.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	Description string         `db:"description" json:"description"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice   types.Money    `db:"unit_price" json:"unitPrice"`
	LineTotal   types.Money    `db:"line_total" json:"lineTotal"`

	CostObjectID id.ID `db:"cost_object_id" json:"costObjectId"`
}

// NewInvoice creates an invoice without lines.
func NewInvoice(date time.Time, vendor string, method types.PaymentMethod) *Invoice {
	return &Invoice{
		BaseEntity:    entity.NewBaseEntity(),
		Date:          date,
		Vendor:        strings.TrimSpace(vendor),
		PaymentMethod: method,
		TotalAmount:   types.Zero(),
		Lines:         make([]Line, 0),
	}
}

// AddLine appends a line and recalculates totals.
func (inv *Invoice) AddLine(description string, quantity types.Quantity, unitPrice types.Money, costObjectID id.ID) {
	inv.Lines = append(inv.Lines, Line{
		LineID:       id.New(),
		LineNo:       len(inv.Lines) + 1,
		Description:  strings.TrimSpace(description),
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		LineTotal:    quantity.Mul(unitPrice),
		CostObjectID: costObjectID,
	})
	inv.recalculateTotals()
}

// recalculateTotals updates the invoice total from lines.
func (inv *Invoice) recalculateTotals() {
	total := types.Zero()
	for _, line := range inv.Lines {
		total = total.Add(line.LineTotal)
	}
	inv.TotalAmount = total
}

// CostObjectIDs returns the distinct cost objects the invoice is allocated to, in line order.
func (inv *Invoice) CostObjectIDs() []id.ID {
	seen := make(map[id.ID]struct{}, len(inv.Lines))
	out := make([]id.ID, 0, len(inv.Lines))
	for _, line := range inv.Lines {
		if _, ok := seen[line.CostObjectID]; ok {
			continue
		}
		seen[line.CostObjectID] = struct{}{}
		out = append(out, line.CostObjectID)
	}
	return out
}

// AllocatedTo sums the lines allocated to objID.
func (inv *Invoice) AllocatedTo(objID id.ID) types.Money {
	total := types.Zero()
	for _, line := range inv.Lines {
		if line.CostObjectID == objID {
			total = total.Add(line.LineTotal)
		}
	}
	return total
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if inv.Date.IsZero() {
		return apperror.NewBusinessRule(apperror.CodeInvalidHeader, "date is required").
			WithDetail("field", "date")
	}
	if inv.Vendor == "" {
		return apperror.NewBusinessRule(apperror.CodeInvalidHeader, "vendor is required").
			WithDetail("field", "vendor")
	}
	if !inv.PaymentMethod.IsValid() {
		return apperror.NewBusinessRule(apperror.CodeInvalidHeader, "payment method is required").
			WithDetail("field", "paymentMethod").
			WithDetail("value", inv.PaymentMethod)
	}
	if inv.TechnicianID == "" {
		return apperror.NewValidation("technician is required").
			WithDetail("field", "technicianId")
	}

	if len(inv.Lines) == 0 {
		return apperror.NewBusinessRule(apperror.CodeEmptyPositions, "at least one line is required").
			WithDetail("field", "positions")
	}

	for _, line := range inv.Lines {
		if line.Description == "" {
			return apperror.NewValidation("description is required").
				WithDetail("field", "positions").
				WithDetail("lineNo", line.LineNo)
		}
		if !types.WithinBounds(line.Quantity) || !types.WithinBounds(line.UnitPrice) {
			return apperror.NewValidation("amount is out of range").
				WithDetail("field", "positions").
				WithDetail("lineNo", line.LineNo)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "positions").
				WithDetail("lineNo", line.LineNo)
		}
		if !line.UnitPrice.IsPositive() {
			return apperror.NewValidation("unit price must be positive").
				WithDetail("field", "positions").
				WithDetail("lineNo", line.LineNo)
		}
		if id.IsNil(line.CostObjectID) {
			return apperror.NewBusinessRule(apperror.CodeMissingAllocation, "cost object is required").
				WithDetail("field", "positions").
				WithDetail("lineNo", line.LineNo)
		}
	}

	return nil
}

// SetCreatedBy implements audit.CreatedBySetter.
func (inv *Invoice) SetCreatedBy(userID string) {
	inv.CreatedBy = userID
}

// GetTechnicianID implements audit.TechnicianOwned.
func (inv *Invoice) GetTechnicianID() string {
	return inv.TechnicianID
}

// SetTechnicianID implements audit.TechnicianOwned.
func (inv *Invoice) SetTechnicianID(technicianID string) {
	inv.TechnicianID = technicianID
}
