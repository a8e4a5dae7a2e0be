package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"barinalp/internal/core/types"
	"barinalp/internal/domain/expense"
)

// draftFile is the JSON a technician fills in instead of the entry form.
// Objects may be given by id or by name; amounts are typed as on the form.
type draftFile struct {
	InvoiceNumber string      `json:"invoiceNumber"`
	Date          string      `json:"date"`
	Vendor        string      `json:"vendor"`
	PaymentMethod string      `json:"paymentMethod"`
	Notes         string      `json:"notes"`
	Mode          string      `json:"mode"`
	Object        string      `json:"object"`
	Positions     []draftLine `json:"positions"`
}

type draftLine struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Object      string `json:"object"`
}

func readDraftFile(r io.Reader) (draftFile, error) {
	var f draftFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return draftFile{}, fmt.Errorf("decode draft: %w", err)
	}
	return f, nil
}

// apply fills the session's draft from f. The session must have loaded its
// cost objects so names can be resolved.
func (f draftFile) apply(ctx context.Context, s *expense.Session, formatter types.Formatter) error {
	d := s.Draft()

	h := d.Header()
	if raw := strings.TrimSpace(f.Date); raw != "" {
		date, ok := formatter.ParseDisplayDate(raw)
		if !ok {
			date, ok = formatter.ParseAPIDate(raw)
		}
		if !ok {
			return fmt.Errorf("invalid date %q", raw)
		}
		h.Date = date
	}
	h.InvoiceNumber = f.InvoiceNumber
	h.Vendor = f.Vendor
	h.Notes = f.Notes
	if f.PaymentMethod != "" {
		h.PaymentMethod = types.PaymentMethod(f.PaymentMethod)
	}
	d.SetHeader(h)

	if f.Mode != "" {
		if err := s.SetAllocationMode(expense.AllocationMode(f.Mode)); err != nil {
			return err
		}
	}

	for i, line := range f.Positions {
		var p expense.Position
		if i == 0 && len(d.Positions()) > 0 {
			p = d.Positions()[0]
		} else {
			p = s.AddPosition()
		}

		fields := []struct {
			field expense.Field
			raw   string
		}{
			{expense.FieldDescription, line.Description},
			{expense.FieldQuantity, line.Quantity},
			{expense.FieldUnitPrice, line.UnitPrice},
		}
		for _, fv := range fields {
			if fv.raw == "" {
				continue
			}
			if _, err := s.UpdatePosition(ctx, p.ID, fv.field, fv.raw); err != nil {
				return fmt.Errorf("position %d: %w", i+1, err)
			}
		}

		if line.Object != "" {
			objID, err := resolveObject(s, line.Object)
			if err != nil {
				return fmt.Errorf("position %d: %w", i+1, err)
			}
			if err := s.AssignPosition(ctx, p.ID, objID); err != nil {
				return fmt.Errorf("position %d: %w", i+1, err)
			}
		}
	}

	if f.Object != "" {
		objID, err := resolveObject(s, f.Object)
		if err != nil {
			return err
		}
		if err := s.SelectWholeObject(ctx, objID); err != nil {
			return err
		}
	}
	return nil
}

// resolveObject matches ref against the loaded options by id, then by name.
func resolveObject(s *expense.Session, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	for _, o := range s.Objects() {
		if o.ID == ref {
			return o.ID, nil
		}
	}
	for _, o := range s.Objects() {
		if strings.EqualFold(o.Name, ref) {
			return o.ID, nil
		}
	}
	return "", fmt.Errorf("unknown cost object %q", ref)
}
