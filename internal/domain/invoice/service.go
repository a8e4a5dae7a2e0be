package invoice

import (
	"context"
	"fmt"
	"time"

	"barinalp/internal/core/apperror"
	appctx "barinalp/internal/core/context"
	"barinalp/internal/core/id"
	"barinalp/internal/core/numerator"
	"barinalp/internal/core/tx"
	"barinalp/internal/core/types"
	"barinalp/internal/domain"
	"barinalp/internal/domain/costobject"
	"barinalp/pkg/logger"
)

// NumeratorStrategy numbers stored expenses without gaps: the number is taken
// inside the insert transaction.
const NumeratorStrategy = numerator.StrategyStrict

// moneyPlaces is the precision totals are compared at.
const moneyPlaces = 2

// ObjectChecker resolves a cost-object reference that must accept allocations.
type ObjectChecker interface {
	RequireActive(ctx context.Context, raw string) (*costobject.CostObject, error)
}

// CreateRequest is an expense as submitted by the entry form.
type CreateRequest struct {
	InvoiceNumber string
	Date          time.Time
	Vendor        string
	PaymentMethod types.PaymentMethod
	Notes         string
	TechnicianID  string
	TotalAmount   types.Money
	Lines         []LineRequest
}

// LineRequest is one submitted position.
type LineRequest struct {
	Description  string
	Quantity     types.Quantity
	UnitPrice    types.Money
	LineTotal    types.Money
	CostObjectID string
}

// Service provides business operations for invoices.
type Service struct {
	repo      Repository
	objects   ObjectChecker
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Invoice]
	now       func() time.Time
}

// NewService creates a new invoice service.
func NewService(
	repo Repository,
	objects ObjectChecker,
	numerator numerator.Generator,
	txManager tx.Manager,
) *Service {
	if txManager == nil {
		txManager = tx.Direct
	}
	return &Service{
		repo:      repo,
		objects:   objects,
		numerator: numerator,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Invoice](),
		now:       time.Now,
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Invoice] {
	return s.hooks
}

// Create re-validates a submitted expense, recomputes its totals, assigns a
// registry number and stores it with its lines.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Invoice, error) {
	inv := NewInvoice(req.Date, req.Vendor, req.PaymentMethod)
	inv.InvoiceNumber = req.InvoiceNumber
	inv.Notes = req.Notes
	inv.TechnicianID = req.TechnicianID

	if err := checkAmounts(req); err != nil {
		return nil, err
	}

	for i, lr := range req.Lines {
		if lr.CostObjectID == "" {
			return nil, apperror.NewBusinessRule(apperror.CodeMissingAllocation, "cost object is required").
				WithDetail("field", "positions").
				WithDetail("lineNo", i+1)
		}
		obj, err := s.objects.RequireActive(ctx, lr.CostObjectID)
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return nil, appErr.WithDetail("lineNo", i+1)
			}
			return nil, fmt.Errorf("check cost object: %w", err)
		}

		inv.AddLine(lr.Description, lr.Quantity, lr.UnitPrice, obj.ID)

		if !lr.LineTotal.IsZero() && !sameAmount(lr.LineTotal, inv.Lines[i].LineTotal) {
			return nil, apperror.NewBusinessRule(apperror.CodeTotalMismatch, "line total does not match quantity × unit price").
				WithDetail("lineNo", i+1).
				WithDetail("expected", inv.Lines[i].LineTotal.StringFixed(moneyPlaces))
		}
	}

	if err := s.hooks.RunBeforeCreate(ctx, inv); err != nil {
		return nil, err
	}

	if err := inv.Validate(ctx); err != nil {
		return nil, err
	}

	if !sameAmount(req.TotalAmount, inv.TotalAmount) {
		return nil, apperror.NewBusinessRule(apperror.CodeTotalMismatch, "total amount does not match the lines").
			WithDetail("field", "totalAmount").
			WithDetail("expected", inv.TotalAmount.StringFixed(moneyPlaces))
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.GetNextNumber(ctx, numerator.ExpenseConfig(), &numerator.Options{Strategy: NumeratorStrategy}, s.now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		inv.RegistryNumber = number

		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if err := s.repo.SaveLines(ctx, inv.ID, inv.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, inv); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "invoice created",
		"id", inv.ID,
		"number", inv.RegistryNumber,
		"total", inv.TotalAmount.StringFixed(moneyPlaces),
		"lines", len(inv.Lines))

	return inv, nil
}

// GetByID retrieves an invoice with lines.
func (s *Service) GetByID(ctx context.Context, invID id.ID) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invID)
	if err != nil {
		return nil, err
	}

	if err := checkVisible(ctx, inv); err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, invID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	inv.Lines = lines

	return inv, nil
}

// List returns invoices matching filter. Technicians only see their own.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	filter.ListFilter = filter.ListFilter.Normalize()

	if user := appctx.GetUser(ctx); user != nil && !user.IsDirector() {
		filter.TechnicianID = user.UserID
	}

	return s.repo.List(ctx, filter)
}

// Delete removes an invoice and its lines.
func (s *Service) Delete(ctx context.Context, invID id.ID) error {
	inv, err := s.repo.GetByID(ctx, invID)
	if err != nil {
		return err
	}

	if err := checkVisible(ctx, inv); err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.BeforeDelete, inv); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, invID); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}

	if err := s.hooks.Run(ctx, domain.AfterDelete, inv); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "error", err)
	}

	logger.Info(ctx, "invoice deleted", "id", invID, "number", inv.RegistryNumber)
	return nil
}

// checkVisible hides other technicians' invoices from a technician.
func checkVisible(ctx context.Context, inv *Invoice) error {
	user := appctx.GetUser(ctx)
	if user == nil || user.IsDirector() || user.UserID == inv.TechnicianID {
		return nil
	}
	return apperror.NewNotFound("invoice", inv.ID)
}

func sameAmount(a, b types.Money) bool {
	return types.RoundMoney(a, moneyPlaces).Equal(types.RoundMoney(b, moneyPlaces))
}

// checkAmounts refuses submitted numbers too large or too precise to compute with.
// It runs before any arithmetic on them.
func checkAmounts(req CreateRequest) error {
	if !types.WithinBounds(req.TotalAmount) {
		return apperror.NewValidation("total amount is out of range").
			WithDetail("field", "totalAmount")
	}
	for i, lr := range req.Lines {
		for _, v := range []types.Money{lr.Quantity, lr.UnitPrice, lr.LineTotal} {
			if !types.WithinBounds(v) {
				return apperror.NewValidation("amount is out of range").
					WithDetail("field", "positions").
					WithDetail("lineNo", i+1)
			}
		}
	}
	return nil
}
