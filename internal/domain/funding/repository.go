package funding

import (
	"context"

	"barinalp/internal/domain"
)

// Repository defines persistence operations for funding transactions.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transaction], error)
}

// ListFilter for filtering transactions. Results are ordered by date, newest first.
type ListFilter struct {
	domain.ListFilter

	TechnicianID string
	Kind         Kind
}

