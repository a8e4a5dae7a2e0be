package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/id"
	"barinalp/internal/domain"
	"barinalp/internal/domain/invoice"
)

// InvoiceRepo is an in-memory implementation of invoice.Repository.
type InvoiceRepo struct {
	mu    sync.RWMutex
	items map[id.ID]invoice.Invoice
	lines map[id.ID][]invoice.Line
}

// NewInvoiceRepo creates an empty repository.
func NewInvoiceRepo() *InvoiceRepo {
	return &InvoiceRepo{
		items: make(map[id.ID]invoice.Invoice),
		lines: make(map[id.ID][]invoice.Line),
	}
}

func (r *InvoiceRepo) Create(_ context.Context, inv *invoice.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[inv.ID]; exists {
		return apperror.NewConflict("invoice already exists").WithDetail("id", inv.ID)
	}
	header := *inv
	header.Lines = nil
	r.items[inv.ID] = header
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, invID id.ID) (*invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.items[invID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", invID)
	}
	return &inv, nil
}

func (r *InvoiceRepo) Delete(_ context.Context, invID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[invID]; !ok {
		return apperror.NewNotFound("invoice", invID)
	}
	delete(r.items, invID)
	delete(r.lines, invID)
	return nil
}

func (r *InvoiceRepo) GetLines(_ context.Context, invID id.ID) ([]invoice.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.lines[invID]), nil
}

func (r *InvoiceRepo) SaveLines(_ context.Context, invID id.ID, lines []invoice.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[invID]; !ok {
		return apperror.NewNotFound("invoice", invID)
	}
	r.lines[invID] = slices.Clone(lines)
	return nil
}

func (r *InvoiceRepo) List(_ context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := make([]*invoice.Invoice, 0)
	for _, inv := range r.items {
		if filter.TechnicianID != "" && inv.TechnicianID != filter.TechnicianID {
			continue
		}
		if filter.DateFrom != nil && inv.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && inv.Date.After(*filter.DateTo) {
			continue
		}
		if filter.CostObjectID != nil && !r.allocatedTo(inv.ID, *filter.CostObjectID) {
			continue
		}
		if search != "" && !matchesSearch(&inv, search) {
			continue
		}
		matched = append(matched, &inv)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	result := domain.ListResult[*invoice.Invoice]{
		TotalCount: int64(len(matched)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
		Items:      []*invoice.Invoice{},
	}
	if filter.Offset < len(matched) {
		end := len(matched)
		if filter.Limit > 0 && filter.Offset+filter.Limit < end {
			end = filter.Offset + filter.Limit
		}
		result.Items = matched[filter.Offset:end]
	}
	return result, nil
}

func (r *InvoiceRepo) allocatedTo(invID, objID id.ID) bool {
	return slices.ContainsFunc(r.lines[invID], func(l invoice.Line) bool {
		return l.CostObjectID == objID
	})
}

func matchesSearch(inv *invoice.Invoice, search string) bool {
	for _, field := range []string{inv.Vendor, inv.InvoiceNumber, inv.RegistryNumber, inv.Notes} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

var _ invoice.Repository = (*InvoiceRepo)(nil)
