package funding

import (
	"context"
	"fmt"
	"sort"
	"time"

	"barinalp/internal/core/apperror"
	appctx "barinalp/internal/core/context"
	"barinalp/internal/core/id"
	"barinalp/internal/core/types"
	"barinalp/internal/domain"
	"barinalp/internal/domain/invoice"
	"barinalp/pkg/logger"
)

// EntryInvoice marks balance entries that come from submitted invoices.
const EntryInvoice = "invoice"

// InvoiceSource lists the invoices a technician has submitted.
type InvoiceSource interface {
	All(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error)
}

// Balance is what a technician was funded minus what they have spent.
type Balance struct {
	TechnicianID string      `json:"technicianId"`
	Funded       types.Money `json:"funded"`
	Spent        types.Money `json:"spent"`
	Balance      types.Money `json:"balance"`
	Entries      []Entry     `json:"transactions"`
}

// Entry is one movement on a technician's balance. Invoices are negative.
type Entry struct {
	ID          id.ID       `json:"id"`
	Type        string      `json:"type"`
	Label       string      `json:"label"`
	Amount      types.Money `json:"amount"`
	Date        time.Time   `json:"date"`
	Description string      `json:"description,omitempty"`
	Reference   string      `json:"reference,omitempty"`
}

// Service provides business operations for funding transactions.
type Service struct {
	repo     Repository
	invoices InvoiceSource
	hooks    *domain.HookRegistry[*Transaction]
}

// NewService creates a new funding service.
func NewService(repo Repository, invoices InvoiceSource) *Service {
	return &Service{
		repo:     repo,
		invoices: invoices,
		hooks:    domain.NewHookRegistry[*Transaction](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Transaction] {
	return s.hooks
}

// Create validates and stores a transaction. Only directors fund technicians.
func (s *Service) Create(ctx context.Context, t *Transaction) error {
	if user := appctx.GetUser(ctx); user != nil && !user.IsDirector() {
		return apperror.NewForbidden("only a director can fund technicians")
	}

	if err := s.hooks.RunBeforeCreate(ctx, t); err != nil {
		return err
	}

	if err := t.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, t); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "technician funded",
		"id", t.ID,
		"technician", t.TechnicianID,
		"type", t.Kind,
		"amount", t.Amount.StringFixed(2))
	return nil
}

// List returns transactions matching filter. Technicians only see their own.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transaction], error) {
	filter.ListFilter = filter.ListFilter.Normalize()

	if user := appctx.GetUser(ctx); user != nil && !user.IsDirector() {
		filter.TechnicianID = user.UserID
	}

	return s.repo.List(ctx, filter)
}

// Balance returns the technician's funded total minus their submitted
// invoices, with every movement newest first.
func (s *Service) Balance(ctx context.Context, technicianID string) (*Balance, error) {
	if technicianID == "" {
		return nil, apperror.NewValidation("technician is required").
			WithDetail("field", "technicianId")
	}
	if user := appctx.GetUser(ctx); user != nil && !user.IsDirector() && user.UserID != technicianID {
		return nil, apperror.NewForbidden("cannot view another technician's balance").
			WithDetail("technicianId", technicianID)
	}

	transactions, err := s.all(ctx, technicianID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	invoices, err := s.invoices.All(ctx, invoice.ListFilter{TechnicianID: technicianID})
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	b := &Balance{
		TechnicianID: technicianID,
		Funded:       types.Zero(),
		Spent:        types.Zero(),
		Entries:      make([]Entry, 0, len(transactions)+len(invoices)),
	}

	for _, t := range transactions {
		b.Funded = b.Funded.Add(t.Amount)
		b.Entries = append(b.Entries, Entry{
			ID:          t.ID,
			Type:        string(t.Kind),
			Label:       t.Kind.Label(),
			Amount:      t.Amount,
			Date:        t.Date,
			Description: t.Note,
		})
	}
	for _, inv := range invoices {
		b.Spent = b.Spent.Add(inv.TotalAmount)
		b.Entries = append(b.Entries, Entry{
			ID:          inv.ID,
			Type:        EntryInvoice,
			Label:       "Фактура",
			Amount:      inv.TotalAmount.Neg(),
			Date:        inv.Date,
			Description: inv.Vendor,
			Reference:   inv.RegistryNumber,
		})
	}
	b.Balance = b.Funded.Sub(b.Spent)

	sort.SliceStable(b.Entries, func(i, j int) bool {
		return b.Entries[i].Date.After(b.Entries[j].Date)
	})
	return b, nil
}

// pageSize is the batch all reads the repository in.
const pageSize = 500

func (s *Service) all(ctx context.Context, technicianID string) ([]*Transaction, error) {
	filter := ListFilter{
		ListFilter:   domain.ListFilter{Limit: pageSize},
		TechnicianID: technicianID,
	}

	out := make([]*Transaction, 0)
	for {
		page, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if len(page.Items) < pageSize || int64(len(out)) >= page.TotalCount {
			return out, nil
		}
		filter.Offset += pageSize
	}
}
