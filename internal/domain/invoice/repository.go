package invoice

import (
	"context"
	"time"

	"barinalp/internal/core/id"
	"barinalp/internal/domain"
)

// Repository defines persistence operations for invoices.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, invID id.ID) (*Invoice, error)
	Delete(ctx context.Context, invID id.ID) error

	// Line operations
	GetLines(ctx context.Context, invID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, invID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)
}

// ListFilter for filtering invoices. Results are ordered by date, newest first.
type ListFilter struct {
	domain.ListFilter

	TechnicianID string
	CostObjectID *id.ID
	DateFrom     *time.Time
	DateTo       *time.Time
}
