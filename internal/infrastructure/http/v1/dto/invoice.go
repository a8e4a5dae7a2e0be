package dto

import (
	"strings"
	"time"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/id"
	"barinalp/internal/core/types"
	"barinalp/internal/domain/expense"
	"barinalp/internal/domain/invoice"
)

// --- Request DTOs ---

// CreateInvoiceRequest is the submitted expense payload, unchanged on the wire.
type CreateInvoiceRequest = expense.Payload

// ListInvoicesRequest holds the invoice list query parameters.
type ListInvoicesRequest struct {
	PageRequest
	TechnicianID string `form:"technicianId"`
	ObjectID     string `form:"objectId"`
	DateFrom     string `form:"dateFrom"`
	DateTo       string `form:"dateTo"`
}

// ToFilter converts the query into an invoice.ListFilter.
func (r ListInvoicesRequest) ToFilter() (invoice.ListFilter, error) {
	filter := invoice.ListFilter{
		ListFilter:   r.PageRequest.ToFilter(),
		TechnicianID: strings.TrimSpace(r.TechnicianID),
	}

	if raw := strings.TrimSpace(r.ObjectID); raw != "" {
		objID, err := id.Parse(raw)
		if err != nil {
			return invoice.ListFilter{}, apperror.NewValidation("invalid object id").
				WithDetail("field", "objectId").
				WithDetail("value", raw)
		}
		filter.CostObjectID = &objID
	}

	var err error
	if filter.DateFrom, err = parseDateParam("dateFrom", r.DateFrom); err != nil {
		return invoice.ListFilter{}, err
	}
	if filter.DateTo, err = parseDateParam("dateTo", r.DateTo); err != nil {
		return invoice.ListFilter{}, err
	}
	return filter, nil
}

func parseDateParam(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(types.APIDateLayout, raw)
	if err != nil {
		return nil, apperror.NewValidation("date must be YYYY-MM-DD").
			WithDetail("field", field).
			WithDetail("value", raw)
	}
	return &t, nil
}

// --- Response DTOs ---

// CreatedInvoiceResponse is returned after a successful submission.
type CreatedInvoiceResponse struct {
	ID             string `json:"id"`
	RegistryNumber string `json:"registryNumber"`
}

// InvoiceLineResponse is one allocated line.
type InvoiceLineResponse struct {
	LineNo       int            `json:"lineNo"`
	Description  string         `json:"description"`
	Quantity     types.Quantity `json:"quantity"`
	UnitPrice    types.Money    `json:"unitPrice"`
	LineTotal    types.Money    `json:"lineTotal"`
	CostObjectID string         `json:"costObjectId"`
}

// InvoiceResponse is the response body for an invoice.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	RegistryNumber string                `json:"registryNumber"`
	InvoiceNumber  string                `json:"invoiceNumber,omitempty"`
	Date           string                `json:"date"`
	Vendor         string                `json:"vendor"`
	PaymentMethod  types.PaymentMethod   `json:"paymentMethod"`
	Notes          string                `json:"notes,omitempty"`
	TechnicianID   string                `json:"technicianId"`
	CreatedBy      string                `json:"createdBy,omitempty"`
	TotalAmount    types.Money           `json:"totalAmount"`
	Lines          []InvoiceLineResponse `json:"lines"`
	Version        int                   `json:"version"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// FromInvoice creates InvoiceResponse from the domain invoice.
func FromInvoice(inv *invoice.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:             inv.ID.String(),
		RegistryNumber: inv.RegistryNumber,
		InvoiceNumber:  inv.InvoiceNumber,
		Date:           inv.Date.Format(types.APIDateLayout),
		Vendor:         inv.Vendor,
		PaymentMethod:  inv.PaymentMethod,
		Notes:          inv.Notes,
		TechnicianID:   inv.TechnicianID,
		CreatedBy:      inv.CreatedBy,
		TotalAmount:    inv.TotalAmount,
		Lines:          make([]InvoiceLineResponse, 0, len(inv.Lines)),
		Version:        inv.Version,
		CreatedAt:      inv.CreatedAt,
	}
	for _, line := range inv.Lines {
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			LineNo:       line.LineNo,
			Description:  line.Description,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			LineTotal:    line.LineTotal,
			CostObjectID: line.CostObjectID.String(),
		})
	}
	return resp
}

// FromInvoices maps a page of invoices.
func FromInvoices(items []*invoice.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(items))
	for _, inv := range items {
		out = append(out, FromInvoice(inv))
	}
	return out
}
