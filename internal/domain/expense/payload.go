package expense

import (
	"encoding/json"
	"fmt"
	"strings"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/types"
)

// Payload is the expense as sent to the invoice-creation API.
type Payload struct {
	InvoiceNumber string              `json:"invoiceNumber"`
	Date          string              `json:"date"`
	Vendor        string              `json:"vendor"`
	PaymentMethod types.PaymentMethod `json:"paymentMethod"`
	Notes         string              `json:"notes"`
	TechnicianID  string              `json:"technicianId"`
	Positions     []PayloadLine       `json:"positions"`
	TotalAmount   types.Money         `json:"totalAmount"`
}

// PayloadLine is one submitted position.
type PayloadLine struct {
	Description  string         `json:"description"`
	Quantity     types.Quantity `json:"quantity"`
	UnitPrice    types.Money    `json:"unitPrice"`
	LineTotal    types.Money    `json:"lineTotal"`
	CostObjectID string         `json:"costObjectId"`
}

// BuildPayload validates d and shapes it for submission. Invalid positions are
// dropped; under whole-invoice mode every line carries the whole-invoice object.
// d itself is not modified.
func BuildPayload(d *Draft, technicianID string) (Payload, error) {
	if err := d.CheckReady(); err != nil {
		return Payload{}, err
	}
	if technicianID == "" {
		return Payload{}, apperror.NewValidation("technician is required").
			WithDetail("field", "technicianId")
	}

	h := d.Header()
	valid := d.ValidPositions()
	alloc := d.Allocation()

	lines := make([]PayloadLine, 0, len(valid))
	total := types.Zero()
	for _, p := range valid {
		lineTotal := p.LineTotal()
		lines = append(lines, PayloadLine{
			Description:  strings.TrimSpace(p.Description),
			Quantity:     p.Quantity,
			UnitPrice:    p.UnitPrice,
			LineTotal:    lineTotal,
			CostObjectID: alloc.ObjectFor(p),
		})
		total = total.Add(lineTotal)
	}

	return Payload{
		InvoiceNumber: strings.TrimSpace(h.InvoiceNumber),
		Date:          h.Date.Format(types.APIDateLayout),
		Vendor:        strings.TrimSpace(h.Vendor),
		PaymentMethod: h.PaymentMethod,
		Notes:         strings.TrimSpace(h.Notes),
		TechnicianID:  technicianID,
		Positions:     lines,
		TotalAmount:   total,
	}, nil
}

// MarshalJSON writes amounts as JSON numbers and empty optional fields as null.
func (p Payload) MarshalJSON() ([]byte, error) {
	type wire struct {
		InvoiceNumber *string             `json:"invoiceNumber"`
		Date          string              `json:"date"`
		Vendor        string              `json:"vendor"`
		PaymentMethod types.PaymentMethod `json:"paymentMethod"`
		Notes         *string             `json:"notes"`
		TechnicianID  string              `json:"technicianId"`
		Positions     []PayloadLine       `json:"positions"`
		TotalAmount   json.Number         `json:"totalAmount"`
	}

	positions := p.Positions
	if positions == nil {
		positions = []PayloadLine{}
	}

	return json.Marshal(wire{
		InvoiceNumber: nullable(p.InvoiceNumber),
		Date:          p.Date,
		Vendor:        p.Vendor,
		PaymentMethod: p.PaymentMethod,
		Notes:         nullable(p.Notes),
		TechnicianID:  p.TechnicianID,
		Positions:     positions,
		TotalAmount:   json.Number(p.TotalAmount.String()),
	})
}

// UnmarshalJSON accepts null optional fields and numeric or quoted amounts.
// Amounts outside types.WithinBounds are rejected.
func (p *Payload) UnmarshalJSON(data []byte) error {
	type wire struct {
		InvoiceNumber *string             `json:"invoiceNumber"`
		Date          string              `json:"date"`
		Vendor        string              `json:"vendor"`
		PaymentMethod types.PaymentMethod `json:"paymentMethod"`
		Notes         *string             `json:"notes"`
		TechnicianID  string              `json:"technicianId"`
		Positions     []PayloadLine       `json:"positions"`
		TotalAmount   json.Number         `json:"totalAmount"`
	}

	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	total, err := types.ParseAmount(w.TotalAmount.String())
	if err != nil {
		return fmt.Errorf("totalAmount: %w", err)
	}

	*p = Payload{
		Date:          w.Date,
		Vendor:        w.Vendor,
		PaymentMethod: w.PaymentMethod,
		TechnicianID:  w.TechnicianID,
		Positions:     w.Positions,
		TotalAmount:   total,
	}
	if w.InvoiceNumber != nil {
		p.InvoiceNumber = *w.InvoiceNumber
	}
	if w.Notes != nil {
		p.Notes = *w.Notes
	}
	return nil
}

// UnmarshalJSON reads amounts through types.ParseAmount.
func (l *PayloadLine) UnmarshalJSON(data []byte) error {
	type wire struct {
		Description  string      `json:"description"`
		Quantity     json.Number `json:"quantity"`
		UnitPrice    json.Number `json:"unitPrice"`
		LineTotal    json.Number `json:"lineTotal"`
		CostObjectID string      `json:"costObjectId"`
	}

	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	line := PayloadLine{Description: w.Description, CostObjectID: w.CostObjectID}
	amounts := []struct {
		name string
		raw  json.Number
		dst  *types.Money
	}{
		{"quantity", w.Quantity, &line.Quantity},
		{"unitPrice", w.UnitPrice, &line.UnitPrice},
		{"lineTotal", w.LineTotal, &line.LineTotal},
	}
	for _, a := range amounts {
		v, err := types.ParseAmount(a.raw.String())
		if err != nil {
			return fmt.Errorf("%s: %w", a.name, err)
		}
		*a.dst = v
	}

	*l = line
	return nil
}

// MarshalJSON writes amounts as JSON numbers.
func (l PayloadLine) MarshalJSON() ([]byte, error) {
	type wire struct {
		Description  string      `json:"description"`
		Quantity     json.Number `json:"quantity"`
		UnitPrice    json.Number `json:"unitPrice"`
		LineTotal    json.Number `json:"lineTotal"`
		CostObjectID string      `json:"costObjectId"`
	}

	return json.Marshal(wire{
		Description:  l.Description,
		Quantity:     json.Number(l.Quantity.String()),
		UnitPrice:    json.Number(l.UnitPrice.String()),
		LineTotal:    json.Number(l.LineTotal.String()),
		CostObjectID: l.CostObjectID,
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
