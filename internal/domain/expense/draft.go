// Package expense provides the expense entry workflow: a draft invoice whose
// positions are allocated to cost objects, validated and submitted to the backend.
package expense

import (
	"strings"
	"time"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/id"
	"barinalp/internal/core/types"
)

var newPositionID = id.NewString

// Header holds the invoice fields entered above the positions.
type Header struct {
	Date          time.Time
	Vendor        string
	InvoiceNumber string
	PaymentMethod types.PaymentMethod
	Notes         string
}

// freshHeader returns the form defaults: today's date, cash, everything else empty.
func freshHeader(today time.Time) Header {
	return Header{
		Date:          dateOnly(today),
		PaymentMethod: types.PaymentCash,
	}
}

// check reports the first missing required header field.
func (h Header) check() error {
	switch {
	case h.Date.IsZero():
		return apperror.NewBusinessRule(apperror.CodeInvalidHeader, MsgDateRequired).
			WithDetail("field", "date")
	case strings.TrimSpace(h.Vendor) == "":
		return apperror.NewBusinessRule(apperror.CodeInvalidHeader, MsgVendorRequired).
			WithDetail("field", "vendor")
	case !h.PaymentMethod.IsValid():
		return apperror.NewBusinessRule(apperror.CodeInvalidHeader, MsgPaymentRequired).
			WithDetail("field", "paymentMethod")
	}
	return nil
}

// Draft is the invoice being composed. It lives in memory until submitted.
type Draft struct {
	header     Header
	ledger     *Ledger
	allocation Allocation
}

// State is a plain copy of everything a draft holds.
type State struct {
	Header     Header
	Positions  []Position
	Allocation Allocation
}

// NewDraft creates a draft with one blank position in whole-invoice mode.
func NewDraft(today time.Time) *Draft {
	return newDraft(today, newPositionID)
}

func newDraft(today time.Time, newID func() string) *Draft {
	return &Draft{
		header:     freshHeader(today),
		ledger:     newLedger(newID),
		allocation: Allocation{Mode: ModeWholeInvoice},
	}
}

// Header returns the header fields.
func (d *Draft) Header() Header {
	return d.header
}

// SetHeader replaces all header fields.
func (d *Draft) SetHeader(h Header) {
	h.Date = dateOnly(h.Date)
	d.header = h
}

// SetDate sets the invoice date.
func (d *Draft) SetDate(date time.Time) {
	d.header.Date = dateOnly(date)
}

// SetVendor sets the supplier name.
func (d *Draft) SetVendor(vendor string) {
	d.header.Vendor = vendor
}

// SetInvoiceNumber sets the supplier's invoice number.
func (d *Draft) SetInvoiceNumber(number string) {
	d.header.InvoiceNumber = number
}

// SetPaymentMethod sets how the invoice was paid.
func (d *Draft) SetPaymentMethod(method types.PaymentMethod) {
	d.header.PaymentMethod = method
}

// SetNotes sets free-text notes.
func (d *Draft) SetNotes(notes string) {
	d.header.Notes = notes
}

// AddPosition appends a blank position.
func (d *Draft) AddPosition() Position {
	return d.ledger.Add()
}

// UpdatePosition sets one field of a position from raw input.
func (d *Draft) UpdatePosition(positionID string, field Field, raw string) (Position, error) {
	return d.ledger.Update(positionID, field, raw)
}

// RemovePosition deletes a position unless it is the last one.
func (d *Draft) RemovePosition(positionID string) error {
	return d.ledger.Remove(positionID)
}

// Position returns one position.
func (d *Draft) Position(positionID string) (Position, bool) {
	return d.ledger.Get(positionID)
}

// Positions returns a copy of all positions in entry order.
func (d *Draft) Positions() []Position {
	return d.ledger.Positions()
}

// ValidPositions returns the positions eligible for submission.
func (d *Draft) ValidPositions() []Position {
	return d.ledger.ValidPositions()
}

// Allocation returns the current allocation.
func (d *Draft) Allocation() Allocation {
	return d.allocation
}

// SetAllocationMode switches between whole-invoice and per-line allocation.
// Neither the whole-invoice selection nor per-line selections are cleared.
func (d *Draft) SetAllocationMode(mode AllocationMode) error {
	if !mode.IsValid() {
		return apperror.NewValidation("unknown allocation mode").
			WithDetail("mode", mode)
	}
	d.allocation.Mode = mode
	return nil
}

// SetWholeObject sets the cost object used in whole-invoice mode. Empty clears it.
func (d *Draft) SetWholeObject(objectID string) {
	d.allocation.WholeObjectID = strings.TrimSpace(objectID)
}

// AssignPosition sets the per-line cost object of a position. Empty clears it.
func (d *Draft) AssignPosition(positionID, objectID string) error {
	_, err := d.ledger.Update(positionID, FieldCostObject, objectID)
	return err
}

// GrandTotal sums the line totals of valid positions.
func (d *Draft) GrandTotal() types.Money {
	return d.ledger.Total()
}

// CheckReady returns nil when the draft can be submitted, otherwise an
// *apperror.AppError naming the first failing rule: INVALID_HEADER,
// EMPTY_POSITIONS or MISSING_ALLOCATION.
func (d *Draft) CheckReady() error {
	if err := d.header.check(); err != nil {
		return err
	}

	valid := d.ledger.ValidPositions()
	if len(valid) == 0 {
		return apperror.NewBusinessRule(apperror.CodeEmptyPositions, MsgEmptyPositions).
			WithDetail("field", "positions")
	}

	return d.allocation.check(valid)
}

// IsReadyToSubmit reports whether CheckReady passes.
func (d *Draft) IsReadyToSubmit() bool {
	return d.CheckReady() == nil
}

// Reset returns the draft to its initial state: one blank position,
// whole-invoice mode and a fresh header dated today.
func (d *Draft) Reset(today time.Time) {
	d.header = freshHeader(today)
	d.ledger = newLedger(d.ledger.newID)
	d.allocation = Allocation{Mode: ModeWholeInvoice}
}

// Clone returns an independent copy of the draft.
func (d *Draft) Clone() *Draft {
	return &Draft{
		header:     d.header,
		ledger:     d.ledger.clone(),
		allocation: d.allocation,
	}
}

// Snapshot returns the draft contents as a plain value.
func (d *Draft) Snapshot() State {
	return State{
		Header:     d.header,
		Positions:  d.ledger.Positions(),
		Allocation: d.allocation,
	}
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, t.Location())
}
