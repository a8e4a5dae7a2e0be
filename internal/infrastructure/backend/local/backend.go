// Package local serves the expense ports in-process, straight from the domain services.
// It backs demo mode and the CLI when no webhook URL is configured.
package local

import (
	"context"

	"barinalp/internal/domain/costobject"
	"barinalp/internal/domain/expense"
	"barinalp/internal/domain/invoice"
)

// InvoiceService is the part of invoice.Service used here.
type InvoiceService interface {
	Create(ctx context.Context, req invoice.CreateRequest) (*invoice.Invoice, error)
}

// Backend implements expense.InvoiceCreator and expense.CostObjectLister.
type Backend struct {
	invoices InvoiceService
	objects  costobject.Lister
}

// New creates a local backend.
func New(invoices InvoiceService, objects costobject.Lister) *Backend {
	return &Backend{invoices: invoices, objects: objects}
}

// CreateInvoice implements expense.InvoiceCreator.
func (b *Backend) CreateInvoice(ctx context.Context, payload expense.Payload) (expense.Created, error) {
	req, err := invoice.RequestFromPayload(payload)
	if err != nil {
		return expense.Created{}, err
	}

	inv, err := b.invoices.Create(ctx, req)
	if err != nil {
		return expense.Created{}, err
	}
	return expense.Created{ID: inv.ID.String(), RegistryNumber: inv.RegistryNumber}, nil
}

// ListActiveOptions implements expense.CostObjectLister.
func (b *Backend) ListActiveOptions(ctx context.Context) ([]costobject.Option, error) {
	return b.objects.ListActiveOptions(ctx)
}

var (
	_ expense.InvoiceCreator   = (*Backend)(nil)
	_ expense.CostObjectLister = (*Backend)(nil)
	_ InvoiceService           = (*invoice.Service)(nil)
)
