package expense

import (
	"context"

	appctx "barinalp/internal/core/context"
	"barinalp/internal/domain/costobject"
)

// Created is what the backend returns for a stored expense.
type Created struct {
	ID             string `json:"id"`
	RegistryNumber string `json:"registryNumber,omitempty"`
}

// InvoiceCreator stores a submitted expense. Failures should carry a
// human-readable message (an *apperror.AppError) when one is available.
type InvoiceCreator interface {
	CreateInvoice(ctx context.Context, payload Payload) (Created, error)
}

// CostObjectLister lists the cost objects offered in the selectors.
type CostObjectLister interface {
	ListActiveOptions(ctx context.Context) ([]costobject.Option, error)
}

// TechnicianProvider identifies the submitting technician.
type TechnicianProvider interface {
	CurrentTechnicianID(ctx context.Context) string
}

// TechnicianFunc adapts a function to TechnicianProvider.
type TechnicianFunc func(ctx context.Context) string

// CurrentTechnicianID implements TechnicianProvider.
func (f TechnicianFunc) CurrentTechnicianID(ctx context.Context) string {
	return f(ctx)
}

// StaticTechnician always reports the same technician.
type StaticTechnician string

// CurrentTechnicianID implements TechnicianProvider.
func (t StaticTechnician) CurrentTechnicianID(context.Context) string {
	return string(t)
}

// ContextTechnician reads the technician from the request context.
type ContextTechnician struct{}

// CurrentTechnicianID implements TechnicianProvider.
func (ContextTechnician) CurrentTechnicianID(ctx context.Context) string {
	return appctx.GetUserID(ctx)
}

// Severity of a user-facing message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(ctx context.Context, message string, severity Severity)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string, severity Severity)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, message string, severity Severity) {
	f(ctx, message, severity)
}

// discardNotifier drops every message.
type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, string, Severity) {}

var (
	_ TechnicianProvider = TechnicianFunc(nil)
	_ TechnicianProvider = StaticTechnician("")
	_ TechnicianProvider = ContextTechnician{}
	_ Notifier           = NotifierFunc(nil)
)
